// Package engine holds the pure transforms applied for each user intent.
//
// Every function takes a collection (or a single list) and returns a new
// value; the input is never modified. When an ID is absent or an argument
// fails validation (blank title, unknown priority) the input is returned
// unchanged. Callers can therefore apply an intent and compare the result
// with the previous state to decide whether anything needs saving.
package engine

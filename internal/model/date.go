package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for due dates.
const DateLayout = "2006-01-02"

// displayLayout matches the short en-US date shown next to a project.
const displayLayout = "Jan 2, 2006"

// ParseDueDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing due date %q: %w", s, err)
	}
	return t, nil
}

// NormalizeDueDate maps user input to a stored due date: blank input means
// no due date, anything else must parse as a calendar date.
func NormalizeDueDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := ParseDueDate(s, time.Local)
	if err != nil {
		return nil, err
	}
	out := t.Format(DateLayout)
	return &out, nil
}

// FormatDueDate renders a stored due date for display, e.g. "Jun 30, 2023".
// Unparseable values are returned unchanged.
func FormatDueDate(s string) string {
	t, err := ParseDueDate(s, time.Local)
	if err != nil {
		return s
	}
	return t.Format(displayLayout)
}

// StartOfDay returns 00:00:00 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package model

import "strings"

// Priority is the importance level shared by projects, lists and todos.
type Priority string

// Priority values as they appear in persisted data.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned whenever a priority is missing or unknown.
const DefaultPriority = PriorityMedium

// Priorities lists every valid priority, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts s (case-insensitive) into a Priority.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// OrDefault returns p, or DefaultPriority when p is not valid.
func (p Priority) OrDefault() Priority {
	if p.Valid() {
		return p
	}
	return DefaultPriority
}

// Rank is the display ordinal: high 0, medium 1, low 2. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Label is the capitalized display name.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

func (p Priority) String() string { return string(p) }

package model

import "time"

// Project is the top-level container of todo lists.
type Project struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *string    `json:"dueDate"`
	TodoLists   []TodoList `json:"todoLists"`
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	out := p
	if p.DueDate != nil {
		d := *p.DueDate
		out.DueDate = &d
	}
	if p.TodoLists != nil {
		out.TodoLists = make([]TodoList, len(p.TodoLists))
		for i, l := range p.TodoLists {
			out.TodoLists[i] = l.Clone()
		}
	}
	return out
}

// Normalize fills defaults left out by older or hand-edited data.
func (p Project) Normalize() Project {
	p.Priority = p.Priority.OrDefault()
	if p.DueDate != nil && *p.DueDate == "" {
		p.DueDate = nil
	}
	lists := make([]TodoList, len(p.TodoLists))
	for i, l := range p.TodoLists {
		lists[i] = l.Normalize()
	}
	p.TodoLists = lists
	return p
}

// FindList returns the index of the list with the given ID, or -1.
func (p Project) FindList(id int) int {
	for i, l := range p.TodoLists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// ListIDs returns the IDs of p's lists in storage order.
func (p Project) ListIDs() []int {
	ids := make([]int, len(p.TodoLists))
	for i, l := range p.TodoLists {
		ids[i] = l.ID
	}
	return ids
}

// IsOverdue reports whether the due date lies before the start of now's day.
// A project due today is not overdue.
func (p Project) IsOverdue(now time.Time) bool {
	if p.DueDate == nil {
		return false
	}
	due, err := ParseDueDate(*p.DueDate, now.Location())
	if err != nil {
		return false
	}
	return due.Before(StartOfDay(now))
}

// Progress returns the number of completed todos and the total across all lists.
func (p Project) Progress() (done, total int) {
	for _, l := range p.TodoLists {
		d, t := l.Progress()
		done += d
		total += t
	}
	return done, total
}

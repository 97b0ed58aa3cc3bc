package engine

import (
	"strings"

	"github.com/nhle/project-tracker/internal/model"
)

// AddProject appends a project with a fresh ID and no lists. A title that is
// blank after trimming is rejected. An unknown priority falls back to the
// default and an empty or unparseable due date is stored as absent.
func AddProject(
	c model.Collection,
	title, description string,
	priority model.Priority,
	dueDate *string,
) model.Collection {
	title = strings.TrimSpace(title)
	if title == "" {
		return c
	}

	p := model.Project{
		ID:          NextID(c.ProjectIDs()),
		Title:       title,
		Description: strings.TrimSpace(description),
		Priority:    priority.OrDefault(),
		TodoLists:   []model.TodoList{},
	}
	if dueDate != nil {
		if d, err := model.NormalizeDueDate(*dueDate); err == nil {
			p.DueDate = d
		}
	}

	next := c.Clone()
	return append(next, p)
}

// DeleteProject removes a project together with every list and todo it owns.
func DeleteProject(c model.Collection, projectID int) model.Collection {
	idx := c.FindProject(projectID)
	if idx < 0 {
		return c
	}

	next := make(model.Collection, 0, len(c)-1)
	for i, p := range c {
		if i != idx {
			next = append(next, p.Clone())
		}
	}
	return next
}

// UpdateProjectPriority replaces a project's priority.
func UpdateProjectPriority(c model.Collection, projectID int, priority model.Priority) model.Collection {
	if !priority.Valid() {
		return c
	}
	return withProject(c, projectID, func(p *model.Project) {
		p.Priority = priority
	})
}

// UpdateProjectDueDate sets or, with nil, clears a project's due date. A
// value that is not a YYYY-MM-DD date leaves the collection unchanged; an
// empty string clears the date like nil.
func UpdateProjectDueDate(c model.Collection, projectID int, dueDate *string) model.Collection {
	var due *string
	if dueDate != nil {
		d, err := model.NormalizeDueDate(*dueDate)
		if err != nil {
			return c
		}
		due = d
	}
	return withProject(c, projectID, func(p *model.Project) {
		p.DueDate = due
	})
}

// UpdateProjectDetails replaces a project's title and description.
func UpdateProjectDetails(c model.Collection, projectID int, title, description string) model.Collection {
	title = strings.TrimSpace(title)
	if title == "" {
		return c
	}
	return withProject(c, projectID, func(p *model.Project) {
		p.Title = title
		p.Description = strings.TrimSpace(description)
	})
}

// withProject clones c and applies fn to the matching project of the copy.
func withProject(c model.Collection, projectID int, fn func(*model.Project)) model.Collection {
	idx := c.FindProject(projectID)
	if idx < 0 {
		return c
	}
	next := c.Clone()
	fn(&next[idx])
	return next
}

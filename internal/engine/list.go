package engine

import (
	"strings"

	"github.com/nhle/project-tracker/internal/model"
)

// TodoListUpdate is a partial update for a todo list. Nil fields are left
// untouched.
type TodoListUpdate struct {
	Title    *string
	Priority *model.Priority
	Todos    []model.TodoItem
}

// AddTodoList appends a medium-priority, empty list to a project.
func AddTodoList(c model.Collection, projectID int, title string) model.Collection {
	title = strings.TrimSpace(title)
	if title == "" {
		return c
	}
	return withProject(c, projectID, func(p *model.Project) {
		p.TodoLists = append(p.TodoLists, model.TodoList{
			ID:       NextID(p.ListIDs()),
			Title:    title,
			Priority: model.PriorityMedium,
			Todos:    []model.TodoItem{},
		})
	})
}

// UpdateTodoList shallow-merges the set fields of u into the matching list.
// A blank title or unknown priority in u is ignored.
func UpdateTodoList(c model.Collection, projectID, listID int, u TodoListUpdate) model.Collection {
	return WithList(c, projectID, listID, func(l model.TodoList) model.TodoList {
		if u.Title != nil {
			if title := strings.TrimSpace(*u.Title); title != "" {
				l.Title = title
			}
		}
		if u.Priority != nil && u.Priority.Valid() {
			l.Priority = *u.Priority
		}
		if u.Todos != nil {
			l.Todos = make([]model.TodoItem, len(u.Todos))
			copy(l.Todos, u.Todos)
		}
		return l
	})
}

// DeleteTodoList removes a list and all of its todos from a project.
func DeleteTodoList(c model.Collection, projectID, listID int) model.Collection {
	pIdx := c.FindProject(projectID)
	if pIdx < 0 || c[pIdx].FindList(listID) < 0 {
		return c
	}
	return withProject(c, projectID, func(p *model.Project) {
		kept := make([]model.TodoList, 0, len(p.TodoLists)-1)
		for _, l := range p.TodoLists {
			if l.ID != listID {
				kept = append(kept, l)
			}
		}
		p.TodoLists = kept
	})
}

// WithList lifts a list-level transform to the collection: fn receives a
// copy of the list at (projectID, listID) and its result replaces it. When
// the path does not exist, or fn returns a list equal to its input, c is
// returned unchanged.
func WithList(
	c model.Collection,
	projectID, listID int,
	fn func(model.TodoList) model.TodoList,
) model.Collection {
	pIdx := c.FindProject(projectID)
	if pIdx < 0 {
		return c
	}
	lIdx := c[pIdx].FindList(listID)
	if lIdx < 0 {
		return c
	}

	before := c[pIdx].TodoLists[lIdx]
	after := fn(before.Clone())
	if listsEqual(before, after) {
		return c
	}

	next := c.Clone()
	next[pIdx].TodoLists[lIdx] = after.Clone()
	return next
}

func listsEqual(a, b model.TodoList) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Priority != b.Priority {
		return false
	}
	if len(a.Todos) != len(b.Todos) || (a.Todos == nil) != (b.Todos == nil) {
		return false
	}
	for i := range a.Todos {
		if a.Todos[i] != b.Todos[i] {
			return false
		}
	}
	return true
}

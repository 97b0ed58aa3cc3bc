package engine

import (
	"strings"

	"github.com/nhle/project-tracker/internal/model"
)

// ToggleTodo flips completed on every todo whose ID equals todoID, in every
// list of every project.
//
// Todo IDs are only unique within their list, so two lists can both hold a
// todo 5 and both are toggled. This is kept as observable behavior; scoping
// the lookup to one list is a product decision that has not been made.
func ToggleTodo(c model.Collection, todoID int) model.Collection {
	found := false
	next := c.Clone()
	for pi := range next {
		for li := range next[pi].TodoLists {
			todos := next[pi].TodoLists[li].Todos
			for ti := range todos {
				if todos[ti].ID == todoID {
					todos[ti].Completed = !todos[ti].Completed
					found = true
				}
			}
		}
	}
	if !found {
		return c
	}
	return next
}

// AddTodoItem appends an incomplete todo to list. Blank text is rejected;
// an unknown priority falls back to the default.
func AddTodoItem(list model.TodoList, text, details string, priority model.Priority) model.TodoList {
	text = strings.TrimSpace(text)
	if text == "" {
		return list
	}

	next := list.Clone()
	next.Todos = append(next.Todos, model.TodoItem{
		ID:        NextID(list.TodoIDs()),
		Text:      text,
		Details:   strings.TrimSpace(details),
		Completed: false,
		Priority:  priority.OrDefault(),
	})
	return next
}

// UpdateTodoPriority replaces the priority of one todo in list.
func UpdateTodoPriority(list model.TodoList, todoID int, priority model.Priority) model.TodoList {
	if !priority.Valid() {
		return list
	}
	return withTodo(list, todoID, func(t *model.TodoItem) {
		t.Priority = priority
	})
}

// EditTodo replaces the text and details of one todo in list.
func EditTodo(list model.TodoList, todoID int, text, details string) model.TodoList {
	text = strings.TrimSpace(text)
	if text == "" {
		return list
	}
	return withTodo(list, todoID, func(t *model.TodoItem) {
		t.Text = text
		t.Details = strings.TrimSpace(details)
	})
}

// DeleteTodo removes one todo from list.
func DeleteTodo(list model.TodoList, todoID int) model.TodoList {
	idx := list.FindTodo(todoID)
	if idx < 0 {
		return list
	}

	next := list
	next.Todos = make([]model.TodoItem, 0, len(list.Todos)-1)
	for i, t := range list.Todos {
		if i != idx {
			next.Todos = append(next.Todos, t)
		}
	}
	return next
}

func withTodo(list model.TodoList, todoID int, fn func(*model.TodoItem)) model.TodoList {
	idx := list.FindTodo(todoID)
	if idx < 0 {
		return list
	}
	next := list.Clone()
	fn(&next.Todos[idx])
	return next
}

// AddTodo is AddTodoItem applied to the list at (projectID, listID).
func AddTodo(
	c model.Collection,
	projectID, listID int,
	text, details string,
	priority model.Priority,
) model.Collection {
	return WithList(c, projectID, listID, func(l model.TodoList) model.TodoList {
		return AddTodoItem(l, text, details, priority)
	})
}

// SetTodoPriority is UpdateTodoPriority applied to the list at (projectID, listID).
func SetTodoPriority(c model.Collection, projectID, listID, todoID int, priority model.Priority) model.Collection {
	return WithList(c, projectID, listID, func(l model.TodoList) model.TodoList {
		return UpdateTodoPriority(l, todoID, priority)
	})
}

// EditTodoAt is EditTodo applied to the list at (projectID, listID).
func EditTodoAt(c model.Collection, projectID, listID, todoID int, text, details string) model.Collection {
	return WithList(c, projectID, listID, func(l model.TodoList) model.TodoList {
		return EditTodo(l, todoID, text, details)
	})
}

// RemoveTodo is DeleteTodo applied to the list at (projectID, listID).
func RemoveTodo(c model.Collection, projectID, listID, todoID int) model.Collection {
	return WithList(c, projectID, listID, func(l model.TodoList) model.TodoList {
		return DeleteTodo(l, todoID)
	})
}

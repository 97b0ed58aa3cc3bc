package app

import (
	"github.com/nhle/project-tracker/internal/engine"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/session"
	"github.com/nhle/project-tracker/internal/ui/forms"
	"github.com/nhle/project-tracker/internal/ui/tree"
)

// submitIntent turns a completed form into an intent.
func submitIntent(msg forms.SubmitMsg) session.Intent {
	t, v := msg.Target, msg.Values

	switch t.Kind {
	case forms.KindProject:
		if !msg.Edit {
			due := v.DueDate
			return func(c model.Collection) model.Collection {
				return engine.AddProject(c, v.Title, v.Description, v.Priority, &due)
			}
		}
		return func(c model.Collection) model.Collection {
			due := v.DueDate
			c = engine.UpdateProjectDetails(c, t.ProjectID, v.Title, v.Description)
			c = engine.UpdateProjectPriority(c, t.ProjectID, v.Priority)
			return engine.UpdateProjectDueDate(c, t.ProjectID, &due)
		}

	case forms.KindList:
		if !msg.Edit {
			return func(c model.Collection) model.Collection {
				return engine.AddTodoList(c, t.ProjectID, v.Title)
			}
		}
		return func(c model.Collection) model.Collection {
			title, priority := v.Title, v.Priority
			return engine.UpdateTodoList(c, t.ProjectID, t.ListID, engine.TodoListUpdate{
				Title:    &title,
				Priority: &priority,
			})
		}

	default:
		if !msg.Edit {
			return func(c model.Collection) model.Collection {
				return engine.AddTodo(c, t.ProjectID, t.ListID, v.Title, v.Description, v.Priority)
			}
		}
		return func(c model.Collection) model.Collection {
			return engine.EditTodoAt(c, t.ProjectID, t.ListID, t.TodoID, v.Title, v.Description)
		}
	}
}

// deleteIntent removes the target node and everything under it.
func deleteIntent(t forms.Target) session.Intent {
	return func(c model.Collection) model.Collection {
		switch t.Kind {
		case forms.KindProject:
			return engine.DeleteProject(c, t.ProjectID)
		case forms.KindList:
			return engine.DeleteTodoList(c, t.ProjectID, t.ListID)
		default:
			return engine.RemoveTodo(c, t.ProjectID, t.ListID, t.TodoID)
		}
	}
}

// toggleIntent flips completion of the todo under the cursor. Every todo
// sharing its ID is flipped; see engine.ToggleTodo.
func toggleIntent(row tree.Row) session.Intent {
	return func(c model.Collection) model.Collection {
		return engine.ToggleTodo(c, row.TodoID)
	}
}

// cyclePriorityIntent advances the priority of the row's node.
func cyclePriorityIntent(row tree.Row) session.Intent {
	next := row.Priority().Next()
	return func(c model.Collection) model.Collection {
		switch row.Kind {
		case tree.KindProject:
			return engine.UpdateProjectPriority(c, row.ProjectID, next)
		case tree.KindList:
			return engine.UpdateTodoList(c, row.ProjectID, row.ListID, engine.TodoListUpdate{Priority: &next})
		default:
			return engine.SetTodoPriority(c, row.ProjectID, row.ListID, row.TodoID, next)
		}
	}
}

// targetOf returns the form target for the node a row shows.
func targetOf(row tree.Row) forms.Target {
	t := forms.Target{ProjectID: row.ProjectID, ListID: row.ListID, TodoID: row.TodoID}
	switch row.Kind {
	case tree.KindProject:
		t.Kind = forms.KindProject
	case tree.KindList:
		t.Kind = forms.KindList
	default:
		t.Kind = forms.KindTodo
	}
	return t
}

// valuesOf returns the current field values of a row's node.
func valuesOf(row tree.Row) forms.Values {
	switch row.Kind {
	case tree.KindProject:
		v := forms.Values{
			Title:       row.Project.Title,
			Description: row.Project.Description,
			Priority:    row.Project.Priority,
		}
		if row.Project.DueDate != nil {
			v.DueDate = *row.Project.DueDate
		}
		return v
	case tree.KindList:
		return forms.Values{Title: row.List.Title, Priority: row.List.Priority}
	default:
		return forms.Values{
			Title:       row.Todo.Text,
			Description: row.Todo.Details,
			Priority:    row.Todo.Priority,
		}
	}
}

// valuesOfProject is valuesOf for a project outside the tree.
func valuesOfProject(p model.Project) forms.Values {
	return valuesOf(tree.Row{Kind: tree.KindProject, ProjectID: p.ID, Project: p})
}

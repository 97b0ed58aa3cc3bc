// Package order derives display order for the project tree. Nodes are
// sorted by priority rank (high, medium, low) at every level; ties keep
// their storage order. Nothing here mutates its input or is persisted.
package order

import (
	"slices"

	"github.com/nhle/project-tracker/internal/model"
)

// ByPriority returns a copy of items stably sorted by priority rank.
func ByPriority[T model.Prioritized](items []T) []T {
	if items == nil {
		return nil
	}
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return a.GetPriority().Rank() - b.GetPriority().Rank()
	})
	return out
}

// Projects returns projects in display order. Their lists are not sorted.
func Projects(c model.Collection) model.Collection {
	return ByPriority(c.Clone())
}

// Lists returns a project's lists in display order.
func Lists(lists []model.TodoList) []model.TodoList {
	return ByPriority(lists)
}

// Todos returns a list's todos in display order.
func Todos(todos []model.TodoItem) []model.TodoItem {
	return ByPriority(todos)
}

// Tree returns a deep copy of c with every level sorted.
func Tree(c model.Collection) model.Collection {
	out := Projects(c)
	for i := range out {
		lists := Lists(out[i].TodoLists)
		for j := range lists {
			lists[j].Todos = Todos(lists[j].Todos)
		}
		out[i].TodoLists = lists
	}
	return out
}

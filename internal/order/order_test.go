package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/order"
)

func projects(pairs ...any) model.Collection {
	var c model.Collection
	for i := 0; i < len(pairs); i += 2 {
		c = append(c, model.Project{
			ID:        pairs[i].(int),
			Title:     "p",
			Priority:  pairs[i+1].(model.Priority),
			TodoLists: []model.TodoList{},
		})
	}
	return c
}

func TestProjectsStableByRank(t *testing.T) {
	t.Parallel()

	c := projects(
		1, model.PriorityLow,
		2, model.PriorityHigh,
		3, model.PriorityMedium,
		4, model.PriorityHigh,
		5, model.PriorityLow,
	)

	got := order.Projects(c)

	assert.Equal(t, []int{2, 4, 3, 1, 5}, got.ProjectIDs())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.ProjectIDs(), "input order must not change")
}

func TestSortIsIdempotent(t *testing.T) {
	t.Parallel()

	c := projects(
		7, model.PriorityMedium,
		3, model.PriorityLow,
		9, model.PriorityMedium,
		1, model.PriorityHigh,
	)

	once := order.Projects(c)
	twice := order.Projects(once)
	assert.Equal(t, once, twice)
}

func TestUnknownPrioritySortsLast(t *testing.T) {
	t.Parallel()

	todos := []model.TodoItem{
		{ID: 1, Text: "odd", Priority: model.Priority("urgent")},
		{ID: 2, Text: "low", Priority: model.PriorityLow},
		{ID: 3, Text: "high", Priority: model.PriorityHigh},
	}

	got := order.Todos(todos)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, 1, got[2].ID)
}

func TestTreeSortsEveryLevel(t *testing.T) {
	t.Parallel()

	c := model.Collection{
		{ID: 1, Title: "a", Priority: model.PriorityLow, TodoLists: []model.TodoList{
			{ID: 1, Title: "l1", Priority: model.PriorityLow, Todos: []model.TodoItem{
				{ID: 1, Text: "t1", Priority: model.PriorityLow},
				{ID: 2, Text: "t2", Priority: model.PriorityHigh},
			}},
			{ID: 2, Title: "l2", Priority: model.PriorityHigh, Todos: []model.TodoItem{}},
		}},
		{ID: 2, Title: "b", Priority: model.PriorityHigh, TodoLists: []model.TodoList{}},
	}
	before := c.Clone()

	got := order.Tree(c)

	assert.Equal(t, []int{2, 1}, got.ProjectIDs())
	assert.Equal(t, []int{2, 1}, got[1].ListIDs())
	assert.Equal(t, []int{2, 1}, got[1].TodoLists[1].TodoIDs())
	assert.Equal(t, before, c)

	got[1].TodoLists[1].Todos[0].Text = "changed"
	assert.Equal(t, "t2", c[0].TodoLists[0].Todos[1].Text)
}

func TestNilStaysNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, order.Tree(nil))
	assert.Nil(t, order.Todos(nil))
}

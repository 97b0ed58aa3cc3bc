package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/model"
)

func strPtr(s string) *string { return &s }

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want model.Priority
		ok   bool
	}{
		{"high", model.PriorityHigh, true},
		{" Medium ", model.PriorityMedium, true},
		{"LOW", model.PriorityLow, true},
		{"urgent", model.Priority("urgent"), false},
		{"", model.Priority(""), false},
	}

	for _, tt := range tests {
		got, ok := model.ParsePriority(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPriorityRankAndCycle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal(0, model.PriorityHigh.Rank())
	assert.Equal(1, model.PriorityMedium.Rank())
	assert.Equal(2, model.PriorityLow.Rank())
	assert.Greater(model.Priority("bogus").Rank(), model.PriorityLow.Rank())

	assert.Equal(model.PriorityMedium, model.PriorityLow.Next())
	assert.Equal(model.PriorityHigh, model.PriorityMedium.Next())
	assert.Equal(model.PriorityLow, model.PriorityHigh.Next())

	assert.Equal(model.PriorityMedium, model.Priority("").OrDefault())
	assert.Equal(model.PriorityHigh, model.PriorityHigh.OrDefault())
}

func TestIsValidProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"minimal", `{"id":1,"title":"ok"}`, true},
		{"full", `{"id":2,"title":"x","description":"d","priority":"high","dueDate":null,"todoLists":[]}`, true},
		{"fractional id is still numeric", `{"id":1.5,"title":"ok"}`, true},
		{"id beyond float64 range", `{"id":1e400,"title":"ok"}`, true},
		{"missing title", `{"id":1}`, false},
		{"missing id", `{"title":"ok"}`, false},
		{"string id", `{"id":"1","title":"ok"}`, false},
		{"numeric title", `{"id":1,"title":7}`, false},
		{"wrong shape", `{"bad":true}`, false},
		{"number", `42`, false},
		{"array", `[]`, false},
		{"null", `null`, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := json.NewDecoder(strings.NewReader(tt.raw))
			dec.UseNumber()
			var x any
			require.NoError(t, dec.Decode(&x))
			assert.Equal(t, tt.want, model.IsValidProject(x))
		})
	}
}

func TestIsValidProjectNonJSONValue(t *testing.T) {
	t.Parallel()

	assert.False(t, model.IsValidProject(struct{ ID int }{ID: 1}))
}

func TestProjectIsOverdue(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("test", 2*60*60)
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, loc)

	tests := []struct {
		name string
		due  *string
		want bool
	}{
		{"no due date", nil, false},
		{"yesterday", strPtr("2024-03-09"), true},
		{"today", strPtr("2024-03-10"), false},
		{"tomorrow", strPtr("2024-03-11"), false},
		{"garbage", strPtr("soon"), false},
	}

	for _, tt := range tests {
		p := model.Project{ID: 1, Title: "p", DueDate: tt.due}
		assert.Equal(t, tt.want, p.IsOverdue(now), tt.name)
	}
}

func TestNormalizeDueDate(t *testing.T) {
	t.Parallel()

	got, err := model.NormalizeDueDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = model.NormalizeDueDate("2023-06-30")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2023-06-30", *got)

	_, err = model.NormalizeDueDate("30/06/2023")
	assert.Error(t, err)
}

func TestFormatDueDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jun 30, 2023", model.FormatDueDate("2023-06-30"))
	assert.Equal(t, "whenever", model.FormatDueDate("whenever"))
}

func TestProjectNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	p := model.Project{
		ID:      1,
		Title:   "ok",
		DueDate: strPtr(""),
		TodoLists: []model.TodoList{
			{ID: 1, Title: "l", Todos: []model.TodoItem{{ID: 1, Text: "t"}}},
		},
	}

	n := p.Normalize()
	assert.Equal(t, model.PriorityMedium, n.Priority)
	assert.Nil(t, n.DueDate)
	assert.Equal(t, model.PriorityMedium, n.TodoLists[0].Priority)
	assert.Equal(t, model.PriorityMedium, n.TodoLists[0].Todos[0].Priority)

	empty := model.Project{ID: 2, Title: "e"}.Normalize()
	assert.NotNil(t, empty.TodoLists)
	assert.Empty(t, empty.TodoLists)
}

func TestCollectionCloneIsDeep(t *testing.T) {
	t.Parallel()

	c := model.Collection{{
		ID: 1, Title: "p", Priority: model.PriorityHigh, DueDate: strPtr("2024-01-01"),
		TodoLists: []model.TodoList{{
			ID: 1, Title: "l", Priority: model.PriorityLow,
			Todos: []model.TodoItem{{ID: 1, Text: "t", Priority: model.PriorityLow}},
		}},
	}}

	clone := c.Clone()
	require.Equal(t, c, clone)

	clone[0].Title = "changed"
	*clone[0].DueDate = "2030-01-01"
	clone[0].TodoLists[0].Title = "changed"
	clone[0].TodoLists[0].Todos[0].Completed = true

	assert.Equal(t, "p", c[0].Title)
	assert.Equal(t, "2024-01-01", *c[0].DueDate)
	assert.Equal(t, "l", c[0].TodoLists[0].Title)
	assert.False(t, c[0].TodoLists[0].Todos[0].Completed)

	assert.Nil(t, model.Collection(nil).Clone())
}

func TestProgress(t *testing.T) {
	t.Parallel()

	p := model.Project{TodoLists: []model.TodoList{
		{Todos: []model.TodoItem{{ID: 1, Completed: true}, {ID: 2}}},
		{Todos: []model.TodoItem{{ID: 1, Completed: true}}},
	}}

	done, total := p.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, model.Collection{p}.TodoCount())
}

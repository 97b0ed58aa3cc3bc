package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/model"
)

func TestValidateRequired(t *testing.T) {
	v := validateRequired("Title")
	assert.NoError(t, v("Launch"))
	assert.EqualError(t, v("   "), "Title is required")
}

func TestValidateOptionalDate(t *testing.T) {
	assert.NoError(t, validateOptionalDate(""))
	assert.NoError(t, validateOptionalDate("2024-02-29"))
	assert.Error(t, validateOptionalDate("2023-02-29"))
	assert.Error(t, validateOptionalDate("tomorrow"))
}

func TestStartEditLoadsValues(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(Target{Kind: KindProject, ProjectID: 3}, Values{
		Title:    "Website",
		Priority: model.PriorityHigh,
		DueDate:  "2024-06-30",
	})

	require.True(t, m.Active())
	assert.Equal(t, "Website", m.fb.title)
	assert.Equal(t, model.PriorityHigh, m.fb.priority)
	assert.Equal(t, "Edit Project", m.heading)

	msg := m.handleSubmit()()
	submit, ok := msg.(SubmitMsg)
	require.True(t, ok)
	assert.True(t, submit.Edit)
	assert.Equal(t, 3, submit.Target.ProjectID)
	assert.Equal(t, "2024-06-30", submit.Values.DueDate)
}

func TestStartCreateResetsBindings(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(Target{Kind: KindTodo}, Values{Title: "old", Priority: model.PriorityLow})
	m.StartCreate(Target{Kind: KindTodo, ProjectID: 1, ListID: 2})

	assert.Empty(t, m.fb.title)
	assert.Equal(t, model.DefaultPriority, m.fb.priority)
	assert.Equal(t, "New Todo", m.heading)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := New(80, 24)
	target := Target{Kind: KindList, ProjectID: 1, ListID: 4}
	m.StartDelete(target, "Design")

	_, ok := m.handleSubmit()().(CancelMsg)
	assert.True(t, ok)

	m.fb.confirm = true
	del, ok := m.handleSubmit()().(DeleteMsg)
	require.True(t, ok)
	assert.Equal(t, target, del.Target)
}

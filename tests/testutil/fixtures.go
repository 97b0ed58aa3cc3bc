package testutil

import "github.com/nhle/project-tracker/internal/model"

// SampleCollection returns two projects whose lists share a todo ID.
func SampleCollection() model.Collection {
	due := "2024-06-30"
	return model.Collection{
		{
			ID:          1,
			Title:       "Website Redesign",
			Description: "Refresh the marketing site",
			Priority:    model.PriorityHigh,
			DueDate:     &due,
			TodoLists: []model.TodoList{
				{ID: 1, Title: "Design", Priority: model.PriorityHigh, Todos: []model.TodoItem{
					{ID: 5, Text: "Create mockups", Priority: model.PriorityHigh},
					{ID: 6, Text: "Get approval", Priority: model.PriorityMedium},
				}},
				{ID: 2, Title: "Content", Priority: model.PriorityLow, Todos: []model.TodoItem{}},
			},
		},
		{
			ID:          2,
			Title:       "Mobile App",
			Description: "",
			Priority:    model.PriorityMedium,
			TodoLists: []model.TodoList{
				{ID: 9, Title: "Setup", Priority: model.PriorityMedium, Todos: []model.TodoItem{
					{ID: 5, Text: "Install SDK", Details: "use the LTS", Priority: model.PriorityLow},
				}},
			},
		},
	}
}

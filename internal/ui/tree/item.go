package tree

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/theme"
)

// Kind is the level of a row in the project tree.
type Kind int

const (
	KindProject Kind = iota
	KindList
	KindTodo
)

// Row is one line of the flattened tree. IDs above the row's own level
// identify its ancestors.
type Row struct {
	Kind      Kind
	ProjectID int
	ListID    int
	TodoID    int
	Collapsed bool

	Project model.Project
	List    model.TodoList
	Todo    model.TodoItem
}

// Key identifies the row across rebuilds.
func (r Row) Key() string {
	switch r.Kind {
	case KindProject:
		return fmt.Sprintf("p%d", r.ProjectID)
	case KindList:
		return fmt.Sprintf("p%d/l%d", r.ProjectID, r.ListID)
	default:
		return fmt.Sprintf("p%d/l%d/t%d", r.ProjectID, r.ListID, r.TodoID)
	}
}

// FilterValue returns the string used for fuzzy filtering.
func (r Row) FilterValue() string { return r.Title() }

// Title returns the row's own title or todo text.
func (r Row) Title() string {
	switch r.Kind {
	case KindProject:
		return r.Project.Title
	case KindList:
		return r.List.Title
	default:
		return r.Todo.Text
	}
}

// Priority returns the row's own priority.
func (r Row) Priority() model.Priority {
	switch r.Kind {
	case KindProject:
		return r.Project.Priority
	case KindList:
		return r.List.Priority
	default:
		return r.Todo.Priority
	}
}

// Flatten turns an already sorted collection into rows. Lists and todos of
// projects in collapsed are omitted.
func Flatten(c model.Collection, collapsed map[int]bool) []Row {
	var rows []Row
	for _, p := range c {
		folded := collapsed[p.ID]
		rows = append(rows, Row{Kind: KindProject, ProjectID: p.ID, Project: p, Collapsed: folded})
		if folded {
			continue
		}
		for _, l := range p.TodoLists {
			rows = append(rows, Row{Kind: KindList, ProjectID: p.ID, ListID: l.ID, List: l})
			for _, t := range l.Todos {
				rows = append(rows, Row{
					Kind:      KindTodo,
					ProjectID: p.ID,
					ListID:    l.ID,
					TodoID:    t.ID,
					Todo:      t,
				})
			}
		}
	}
	return rows
}

// ItemDelegate implements list.ItemDelegate for rendering tree rows.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single tree row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}

	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	line := RenderRow(row, now)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// RenderRow renders the text of a row without selection styling.
func RenderRow(row Row, now time.Time) string {
	badge := theme.PriorityBadge(row.Priority())

	switch row.Kind {
	case KindProject:
		return renderProject(row, badge, now)

	case KindList:
		done, total := row.List.Progress()
		return fmt.Sprintf("  %s %s %s",
			badge,
			theme.ListTitleStyle.Render(row.List.Title),
			progress(done, total),
		)

	default:
		mark := "[ ]"
		text := row.Todo.Text
		if row.Todo.Completed {
			mark = "[x]"
			text = theme.DimmedStyle.Render(text)
		}
		return fmt.Sprintf("      %s %s %s", mark, badge, text)
	}
}

func renderProject(row Row, badge string, now time.Time) string {
	fold := "▾"
	if row.Collapsed {
		fold = "▸"
	}

	parts := []string{fold, badge, theme.ProjectStyle.Render(row.Project.Title)}

	done, total := row.Project.Progress()
	parts = append(parts, progress(done, total))

	if row.Project.DueDate != nil {
		due := "due " + model.FormatDueDate(*row.Project.DueDate)
		if row.Project.IsOverdue(now) {
			parts = append(parts, theme.OverdueStyle.Render(due+" OVERDUE"))
		} else {
			parts = append(parts, theme.DueDateStyle.Render(due))
		}
	}
	return strings.Join(parts, " ")
}

func progress(done, total int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%d/%d", done, total))
}

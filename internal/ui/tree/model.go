package tree

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/keys"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/theme"
)

// SelectedProjectMsg is sent when the user opens a project's detail view.
type SelectedProjectMsg struct {
	ProjectID int
}

// Model is the project tree view component.
type Model struct {
	list       list.Model
	keys       *keys.KeyMap
	collection model.Collection
	collapsed  map[int]bool
	width      int
	height     int
}

// New creates an empty tree view.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:      l,
		keys:      k,
		collapsed: make(map[int]bool),
		width:     width,
		height:    height,
	}
}

// SetCollection replaces the displayed collection, which must already be
// in display order. The cursor stays on the same row when it still exists.
func (m *Model) SetCollection(c model.Collection) tea.Cmd {
	m.collection = c
	return m.rebuild()
}

func (m *Model) rebuild() tea.Cmd {
	var prevKey string
	if row, ok := m.Selected(); ok {
		prevKey = row.Key()
	}
	prevIndex := m.list.Index()

	rows := Flatten(m.collection, m.collapsed)
	items := make([]list.Item, len(rows))
	target := -1
	for i, r := range rows {
		items[i] = r
		if prevKey != "" && r.Key() == prevKey {
			target = i
		}
	}
	cmd := m.list.SetItems(items)

	switch {
	case target >= 0:
		m.list.Select(target)
	case len(items) == 0:
	case prevIndex >= len(items):
		m.list.Select(len(items) - 1)
	default:
		m.list.Select(prevIndex)
	}
	return cmd
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	row, ok := m.list.SelectedItem().(Row)
	return row, ok
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation, folding and opening projects. Mutating keys
// are handled by the parent.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			row, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedProjectMsg{ProjectID: row.ProjectID}
			}

		case key.Matches(msg, m.keys.Collapse):
			row, ok := m.Selected()
			if !ok {
				return m, nil
			}
			m.collapsed[row.ProjectID] = !m.collapsed[row.ProjectID]
			if row.Kind != KindProject {
				// Folding from inside a project moves the cursor to it.
				m.selectKey(Row{Kind: KindProject, ProjectID: row.ProjectID}.Key())
			}
			return m, m.rebuild()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selectKey(k string) {
	for i, item := range m.list.Items() {
		if r, ok := item.(Row); ok && r.Key() == k {
			m.list.Select(i)
			return
		}
	}
}

// View renders the tree.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when there are no projects.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		"No projects yet.\n\n" +
			"Press N to create one, or : then 'import <file>'.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

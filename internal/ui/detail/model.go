package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/keys"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/order"
	"github.com/nhle/project-tracker/internal/theme"
)

// BackMsg signals the parent to navigate back to the tree view.
type BackMsg struct{}

// EditMsg asks the parent to open the edit form for the shown project.
type EditMsg struct {
	ProjectID int
}

// Model is the project detail view component.
type Model struct {
	project  *model.Project
	viewport viewport.Model
	keys     *keys.KeyMap
	style    string
	width    int
	height   int
}

// New creates a new detail view model. style selects the markdown theme.
func New(keys *keys.KeyMap, style string, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		style:    style,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			if m.project != nil {
				id := m.project.ID
				return m, func() tea.Msg {
					return EditMsg{ProjectID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.project == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No project selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent(now time.Time) string {
	if m.project == nil {
		return ""
	}

	p := m.project
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(p.Title))

	done, total := p.Progress()
	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.PriorityStyle(p.Priority).Render(p.Priority.Label()+" priority"),
		"  ",
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(fmt.Sprintf("%d of %d done", done, total)),
	)
	sections = append(sections, badgeLine)

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if p.DueDate != nil {
		due := model.FormatDueDate(*p.DueDate)
		if p.IsOverdue(now) {
			due = theme.OverdueStyle.Render(due + "  OVERDUE")
		} else {
			due = theme.DueDateStyle.Render(due)
		}
		sections = append(sections, fmt.Sprintf("%s  %s", metaStyle.Render("Due:"), due))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, headerStyle.Render("Description"))
	sections = append(sections, RenderDescription(p.Description, m.style, m.width-4))

	if len(p.TodoLists) > 0 {
		sections = append(sections, "", separator, "")
		sections = append(sections, headerStyle.Render(fmt.Sprintf("Lists (%d)", len(p.TodoLists))))

		detailStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).PaddingLeft(6)
		for _, l := range order.Lists(p.TodoLists) {
			ld, lt := l.Progress()
			sections = append(sections, fmt.Sprintf("%s %s %s",
				theme.PriorityBadge(l.Priority),
				theme.ListTitleStyle.Render(l.Title),
				metaStyle.Render(fmt.Sprintf("%d/%d", ld, lt)),
			))
			for _, t := range order.Todos(l.Todos) {
				mark, text := "[ ]", t.Text
				if t.Completed {
					mark, text = "[x]", theme.DimmedStyle.Render(t.Text)
				}
				sections = append(sections, fmt.Sprintf("  %s %s %s", mark, theme.PriorityBadge(t.Priority), text))
				if t.Details != "" {
					sections = append(sections, detailStyle.Render(t.Details))
				}
			}
			sections = append(sections, "")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetProject updates the project being displayed and re-renders the content.
// A nil project clears the view.
func (m *Model) SetProject(p *model.Project) {
	m.project = p
	m.viewport.SetContent(m.renderContent(time.Now()))
	m.viewport.GotoTop()
}

// Refresh re-renders the current project from c, keeping the scroll offset.
// It reports false when the project no longer exists.
func (m *Model) Refresh(c model.Collection) bool {
	if m.project == nil {
		return false
	}
	idx := c.FindProject(m.project.ID)
	if idx < 0 {
		m.project = nil
		return false
	}
	p := c[idx].Clone()
	m.project = &p
	m.viewport.SetContent(m.renderContent(time.Now()))
	return true
}

// ProjectID returns the shown project's ID, or 0.
func (m Model) ProjectID() int {
	if m.project == nil {
		return 0
	}
	return m.project.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.project != nil {
		m.viewport.SetContent(m.renderContent(time.Now()))
	}
}

// SetStyle switches the markdown theme used for descriptions.
func (m *Model) SetStyle(style string) {
	m.style = style
	if m.project != nil {
		m.viewport.SetContent(m.renderContent(time.Now()))
	}
}

package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/keys"
	"github.com/nhle/project-tracker/internal/theme"
	"github.com/nhle/project-tracker/internal/ui/command"
)

// Model is the help overlay: key bindings, palette commands and where the
// data lives.
type Model struct {
	keys    *keys.KeyMap
	help    help.Model
	storage string
	width   int
	height  int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetStorage sets the line describing where changes are kept.
func (m *Model) SetStorage(s string) {
	m.storage = s
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginTop(1)

	var cmds strings.Builder
	for _, s := range command.Specs {
		usage := strings.TrimSpace(s.Name + " " + s.Args)
		fmt.Fprintf(&cmds, "%s %s\n",
			m.help.Styles.FullKey.Render(fmt.Sprintf(":%-15s", usage)),
			m.help.Styles.FullDesc.Render(s.Summary),
		)
	}

	sections := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		sectionStyle.Render("Commands"),
		strings.TrimRight(cmds.String(), "\n"),
	}
	if m.storage != "" {
		sections = append(sections,
			sectionStyle.Render("Storage"),
			theme.HelpStyle.Render(m.storage),
		)
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}

package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Spec describes one palette command for completion and the hint list.
type Spec struct {
	Name    string
	Args    string
	Summary string
}

// Specs lists the commands the palette offers, in display order.
var Specs = []Spec{
	{Name: "export", Args: "[path]", Summary: "write all projects to a JSON file"},
	{Name: "import", Args: "<path>", Summary: "replace all projects with a JSON file"},
	{Name: "new", Summary: "create a project"},
	{Name: "settings", Summary: "edit theme, export file and storage"},
	{Name: "help", Summary: "show keyboard shortcuts"},
	{Name: "quit", Summary: "exit the program"},
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(names())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

func names() []string {
	out := make([]string, len(Specs))
	for i, s := range Specs {
		out[i] = s.Name
	}
	return out
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		cmd := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if cmd == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CommandMsg(cmd) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Matching returns the commands whose name starts with the first word typed.
func (m Model) Matching() []Spec {
	word, _, _ := strings.Cut(strings.TrimSpace(m.input.Value()), " ")
	word = strings.ToLower(word)

	var out []Spec
	for _, s := range Specs {
		if strings.HasPrefix(s.Name, word) {
			out = append(out, s)
		}
	}
	return out
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{titleStyle.Render("Command Palette"), m.input.View(), ""}
	for _, s := range m.Matching() {
		usage := s.Name
		if s.Args != "" {
			usage += " " + s.Args
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			theme.ProjectStyle.Render(fmt.Sprintf("%-16s", usage)),
			theme.HelpStyle.Render(s.Summary),
		))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

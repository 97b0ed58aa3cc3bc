package settings

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/theme"
)

// SavedMsg is dispatched after the configuration file was written.
type SavedMsg struct {
	Config model.AppConfig
	// RestartNeeded is set when a storage or log setting changed.
	RestartNeeded bool
}

// FailedMsg is dispatched when the configuration could not be written.
type FailedMsg struct {
	Err error
}

// CancelMsg is dispatched when the user leaves the form without saving.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	theme       string
	exportPath  string
	sizeWarning string
	backend     string
	logLevel    string
}

// Model edits the parts of the configuration that make sense from inside
// the running program and writes them back to the YAML file.
type Model struct {
	path   string
	cfg    model.AppConfig
	form   *huh.Form
	fb     *formBindings
	save   func(path string, cfg *model.AppConfig) error
	width  int
	height int
}

// New creates a settings view for the configuration stored at path.
func New(path string, cfg model.AppConfig, width, height int) Model {
	return Model{
		path:   path,
		cfg:    cfg,
		fb:     &formBindings{},
		save:   model.SaveConfig,
		width:  width,
		height: height,
	}
}

// Start opens the form seeded with the current configuration.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{
		theme:       m.cfg.Display.Theme,
		exportPath:  m.cfg.Persistence.ExportPath,
		sizeWarning: humanize.IBytes(uint64(max(m.cfg.Persistence.SizeWarningBytes, 0))),
		backend:     m.cfg.Storage.Backend,
		logLevel:    m.cfg.Log.Level,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Config returns the configuration as last saved.
func (m Model) Config() model.AppConfig {
	return m.cfg
}

// Active reports whether the form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if saved, ok := msg.(SavedMsg); ok {
		m.cfg = saved.Config
		return m, nil
	}
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.submit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hint := theme.DimmedStyle.Render("Saved to " + m.path)
	content := titleStyle.Render("Settings") + "\n" + m.form.View() + "\n" + hint

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Description theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
					huh.NewOption("Plain", "none"),
				).
				Value(&m.fb.theme),
			huh.NewInput().
				Title("Export file").
				Placeholder("project-data.json").
				Value(&m.fb.exportPath).
				Validate(validateExportPath),
			huh.NewInput().
				Title("Size warning").
				Description("Warn when saved data grows past this size, e.g. 4 MiB").
				Value(&m.fb.sizeWarning).
				Validate(func(s string) error {
					_, err := parseSize(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage backend").
				Description("Takes effect on the next start").
				Options(
					huh.NewOption("SQLite database", model.BackendSQLite),
					huh.NewOption("System keyring", model.BackendKeyring),
					huh.NewOption("Memory only", model.BackendMemory),
				).
				Value(&m.fb.backend),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// submit applies the bound values to a copy of the configuration and
// writes it out.
func (m Model) submit() tea.Cmd {
	next, err := m.applyBindings()
	if err != nil {
		return func() tea.Msg { return FailedMsg{Err: err} }
	}

	restart := next.Storage.Backend != m.cfg.Storage.Backend || next.Log.Level != m.cfg.Log.Level
	path, save := m.path, m.save
	return func() tea.Msg {
		if err := save(path, &next); err != nil {
			return FailedMsg{Err: err}
		}
		return SavedMsg{Config: next, RestartNeeded: restart}
	}
}

func (m Model) applyBindings() (model.AppConfig, error) {
	next := m.cfg

	size, err := parseSize(m.fb.sizeWarning)
	if err != nil {
		return next, err
	}

	next.Display.Theme = m.fb.theme
	next.Persistence.ExportPath = strings.TrimSpace(m.fb.exportPath)
	next.Persistence.SizeWarningBytes = size
	next.Storage.Backend = m.fb.backend
	next.Log.Level = m.fb.logLevel

	if err := next.Validate(); err != nil {
		return next, fmt.Errorf("validate settings: %w", err)
	}
	return next, nil
}

func validateExportPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("export file is required")
	}
	return nil
}

// parseSize accepts sizes like "4 MiB", "500kB" or a plain byte count.
func parseSize(s string) (int, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int(n), nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

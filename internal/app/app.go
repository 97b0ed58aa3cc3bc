package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-tracker/internal/keys"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/persist"
	"github.com/nhle/project-tracker/internal/session"
	"github.com/nhle/project-tracker/internal/ui"
	"github.com/nhle/project-tracker/internal/ui/command"
	"github.com/nhle/project-tracker/internal/ui/detail"
	"github.com/nhle/project-tracker/internal/ui/forms"
	helpview "github.com/nhle/project-tracker/internal/ui/help"
	"github.com/nhle/project-tracker/internal/ui/settings"
	"github.com/nhle/project-tracker/internal/ui/tree"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTree ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewForm
	ViewSettings
)

// Options carries display settings from the configuration.
type Options struct {
	// ExportPath is used by "export" without an argument and the export key.
	ExportPath string
	// Theme selects the markdown style for descriptions.
	Theme string
	// ConfigPath and Config back the settings view. A zero Config means
	// the defaults.
	ConfigPath string
	Config     model.AppConfig
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the session holding the project collection.
//
// Intents are applied to the session inside Update, so they take effect
// in the order the keys were pressed.
type Model struct {
	ctx          context.Context
	session      *session.Session
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	tree         tree.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     forms.Model
	settingsView settings.Model
	notice       *model.Notice
	exportPath   string
	ready        bool
}

// New creates the root model over an open session.
func New(ctx context.Context, s *session.Session, opts Options) Model {
	k := keys.DefaultKeyMap()
	if opts.ExportPath == "" {
		opts.ExportPath = persist.DefaultExportName
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = model.DefaultConfigPath()
	}
	if opts.Config == (model.AppConfig{}) {
		opts.Config = *model.DefaultAppConfig()
	}

	m := Model{
		ctx:          ctx,
		session:      s,
		currentView:  ViewTree,
		keys:         k,
		tree:         tree.New(k, 80, 24),
		detail:       detail.New(k, opts.Theme, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		formView:     forms.New(80, 24),
		settingsView: settings.New(opts.ConfigPath, opts.Config, 80, 24),
		exportPath:   opts.ExportPath,
	}
	m.tree.SetCollection(s.Sorted())
	m.pullNotices()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.tree.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height).WithBanner(m.banner())
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.tree.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tree.SelectedProjectMsg:
		c := m.session.Snapshot()
		idx := c.FindProject(msg.ProjectID)
		if idx < 0 {
			return m, nil
		}
		m.detail.SetProject(&c[idx])
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewTree
		return m, nil

	case detail.EditMsg:
		c := m.session.Snapshot()
		idx := c.FindProject(msg.ProjectID)
		if idx < 0 {
			return m, nil
		}
		m.previousView = ViewDetail
		m.currentView = ViewForm
		return m, m.formView.StartEdit(
			forms.Target{Kind: forms.KindProject, ProjectID: msg.ProjectID},
			valuesOfProject(c[idx]),
		)

	case forms.SubmitMsg:
		m.closeForm()
		m.apply(submitIntent(msg))
		return m, nil

	case forms.DeleteMsg:
		m.closeForm()
		m.apply(deleteIntent(msg.Target))
		return m, nil

	case forms.CancelMsg:
		m.closeForm()
		return m, nil

	case settings.SavedMsg:
		m.settingsView, _ = m.settingsView.Update(msg)
		m.closeForm()
		m.exportPath = msg.Config.Persistence.ExportPath
		m.detail.SetStyle(msg.Config.Display.Theme)
		m.session.SetSizeThreshold(msg.Config.Persistence.SizeWarningBytes)
		text := "Settings saved"
		if msg.RestartNeeded {
			text += "; storage and log changes apply on the next start"
		}
		m.showNotice(model.Notice{Level: model.NoticeInfo, Message: text})
		return m, nil

	case settings.FailedMsg:
		m.closeForm()
		m.showNotice(model.Notice{Level: model.NoticeBlocking, Message: "Could not save settings: " + msg.Err.Error()})
		return m, nil

	case settings.CancelMsg:
		m.closeForm()
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if m.currentView == ViewForm || m.currentView == ViewSettings {
			return m.updateActiveView(msg)
		}

		// A blocking notice must be dismissed before anything else.
		if m.notice != nil && m.notice.Level == model.NoticeBlocking {
			if key.Matches(msg, m.keys.Back) {
				m.notice = nil
				m.pullNotices()
			}
			return m, nil
		}
		if m.notice != nil {
			m.notice = nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit) && m.currentView == ViewTree:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewCommand {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case key.Matches(msg, m.keys.Back) && (m.currentView == ViewHelp || m.currentView == ViewCommand):
			m.currentView = m.previousView
			return m, nil
		}

		if m.currentView == ViewTree {
			if cmd, handled := m.handleTreeKeys(msg); handled {
				return m, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleTreeKeys runs the mutating actions available in the tree view.
func (m *Model) handleTreeKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	row, hasRow := m.tree.Selected()

	switch {
	case key.Matches(msg, m.keys.NewProject):
		return m.startCreate(forms.Target{Kind: forms.KindProject}), true

	case key.Matches(msg, m.keys.NewList):
		if !hasRow {
			m.showNotice(model.Notice{Level: model.NoticeWarning, Message: "Create a project first"})
			return nil, true
		}
		return m.startCreate(forms.Target{Kind: forms.KindList, ProjectID: row.ProjectID}), true

	case key.Matches(msg, m.keys.NewTodo):
		if !hasRow || row.Kind == tree.KindProject {
			m.showNotice(model.Notice{Level: model.NoticeWarning, Message: "Select a list to add a todo to"})
			return nil, true
		}
		return m.startCreate(forms.Target{
			Kind:      forms.KindTodo,
			ProjectID: row.ProjectID,
			ListID:    row.ListID,
		}), true

	case key.Matches(msg, m.keys.Edit):
		if !hasRow {
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m.formView.StartEdit(targetOf(row), valuesOf(row)), true

	case key.Matches(msg, m.keys.Delete):
		if !hasRow {
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m.formView.StartDelete(targetOf(row), row.Title()), true

	case key.Matches(msg, m.keys.Toggle):
		if hasRow && row.Kind == tree.KindTodo {
			m.apply(toggleIntent(row))
		}
		return nil, true

	case key.Matches(msg, m.keys.CyclePriority):
		if hasRow {
			m.apply(cyclePriorityIntent(row))
		}
		return nil, true

	case key.Matches(msg, m.keys.Export):
		return m.executeCommand("export"), true

	case key.Matches(msg, m.keys.Settings):
		return m.openSettings(), true
	}
	return nil, false
}

func (m *Model) startCreate(t forms.Target) tea.Cmd {
	m.previousView = m.currentView
	if m.previousView == ViewForm {
		m.previousView = ViewTree
	}
	m.currentView = ViewForm
	return m.formView.StartCreate(t)
}

func (m *Model) openSettings() tea.Cmd {
	m.previousView = m.currentView
	if m.previousView == ViewForm || m.previousView == ViewSettings {
		m.previousView = ViewTree
	}
	m.currentView = ViewSettings
	return m.settingsView.Start()
}

func (m *Model) closeForm() {
	m.currentView = m.previousView
	if m.currentView == ViewForm || m.currentView == ViewSettings {
		m.currentView = ViewTree
	}
}

// apply runs an intent through the session and refreshes every view.
func (m *Model) apply(intent session.Intent) {
	m.session.Apply(m.ctx, intent)
	m.refresh()
	m.pullNotices()
}

// refresh redraws views from the session's current collection.
func (m *Model) refresh() {
	m.tree.SetCollection(m.session.Sorted())
	if m.currentView == ViewDetail && !m.detail.Refresh(m.session.Snapshot()) {
		m.currentView = ViewTree
	}
}

// pullNotices moves pending session notices to the status bar. The most
// severe one is shown. Standing notices live in the banner instead.
func (m *Model) pullNotices() {
	for _, n := range m.session.Notices() {
		if n.Standing {
			continue
		}
		m.showNotice(n)
	}
}

// banner joins the session's standing notices into one line.
func (m Model) banner() string {
	standing := m.session.StandingNotices()
	msgs := make([]string, len(standing))
	for i, n := range standing {
		msgs[i] = n.Message
	}
	return strings.Join(msgs, " | ")
}

func (m *Model) showNotice(n model.Notice) {
	if m.notice != nil && m.notice.Level > n.Level {
		return
	}
	m.notice = &n
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTree:
		m.tree, cmd = m.tree.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		"Project Tracker",
		ui.Summary(m.session.Snapshot()),
		m.storageStatus(),
		m.session.PersistenceEnabled(),
	)
	content := m.renderContent()

	statusBar := m.layout.RenderStatusBar(m.keyHints())
	if m.notice != nil {
		statusBar = m.layout.RenderNotice(*m.notice)
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTree:
		return m.tree.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		h := m.helpView
		h.SetStorage(m.storageDetail())
		return h.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// storageStatus returns a short string describing where changes go.
func (m Model) storageStatus() string {
	if !m.session.PersistenceEnabled() {
		return "memory only"
	}
	return "saved"
}

func (m Model) storageDetail() string {
	if !m.session.PersistenceEnabled() {
		return "Storage is unavailable. Changes last until you quit; use :export to keep them."
	}
	return "Every change is saved automatically. :export writes a backup to " + m.exportPath + "."
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back | export [path] | import <path> | quit"
	case ViewDetail:
		return "esc back | e edit | j/k scroll"
	case ViewForm, ViewSettings:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | N project | L list | n todo | space done | p priority | , settings | : command"
	}
}

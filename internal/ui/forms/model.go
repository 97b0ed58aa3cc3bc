package forms

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/theme"
)

// Kind says which node a form edits.
type Kind int

const (
	KindProject Kind = iota
	KindList
	KindTodo
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "Project"
	case KindList:
		return "List"
	default:
		return "Todo"
	}
}

// Target identifies the node a form acts on. For a create, the IDs name the
// parent.
type Target struct {
	Kind      Kind
	ProjectID int
	ListID    int
	TodoID    int
}

// SubmitMsg is dispatched when a create or edit form is completed.
type SubmitMsg struct {
	Target Target
	Edit   bool
	Values Values
}

// Values are the raw field values of a form. The engine trims them.
type Values struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     string
}

// DeleteMsg is dispatched when a delete is confirmed.
type DeleteMsg struct {
	Target Target
}

// CancelMsg is dispatched when the user cancels a form.
type CancelMsg struct{}

type mode int

const (
	modeEdit mode = iota
	modeConfirmDelete
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    model.Priority
	dueDate     string
	confirm     bool
}

// Model is the Bubble Tea model for every create, edit and delete form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	mode     mode
	editMode bool
	target   Target
	heading  string
	width    int
	height   int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.DefaultPriority},
		width:  width,
		height: height,
	}
}

// StartCreate initializes an empty form for a new node under target's parent.
func (m *Model) StartCreate(target Target) tea.Cmd {
	m.mode = modeEdit
	m.editMode = false
	m.target = target
	m.heading = "New " + target.Kind.String()
	*m.fb = formBindings{priority: model.DefaultPriority}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with the current values of target.
func (m *Model) StartEdit(target Target, current Values) tea.Cmd {
	m.mode = modeEdit
	m.editMode = true
	m.target = target
	m.heading = "Edit " + target.Kind.String()
	*m.fb = formBindings{
		title:       current.Title,
		description: current.Description,
		priority:    current.Priority.OrDefault(),
		dueDate:     current.DueDate,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartDelete asks for confirmation before deleting target, named name.
func (m *Model) StartDelete(target Target, name string) tea.Cmd {
	m.mode = modeConfirmDelete
	m.target = target
	m.heading = "Delete " + target.Kind.String()
	m.fb.confirm = false
	m.form = m.buildConfirmForm(name)
	return m.form.Init()
}

// Update handles messages for the active form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
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
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// Active reports whether a form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// View renders the active form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.heading) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field

	switch m.target.Kind {
	case KindProject:
		fields = append(fields,
			huh.NewInput().
				Title("Title").
				Placeholder("Project name").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional, markdown supported").
				Value(&m.fb.description),
			m.priorityField(),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		)

	case KindList:
		fields = append(fields,
			huh.NewInput().
				Title("Title").
				Placeholder("List name").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
		)
		// New lists always start at medium priority.
		if m.editMode {
			fields = append(fields, m.priorityField())
		}

	case KindTodo:
		fields = append(fields,
			huh.NewInput().
				Title("Text").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateRequired("Text")),
			huh.NewText().
				Title("Details").
				Placeholder("Optional details...").
				Value(&m.fb.description),
		)
		if !m.editMode {
			fields = append(fields, m.priorityField())
		}
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) priorityField() huh.Field {
	opts := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		opts[i] = huh.NewOption(p.Label(), p)
	}
	return huh.NewSelect[model.Priority]().
		Title("Priority").
		Options(opts...).
		Value(&m.fb.priority)
}

func (m *Model) buildConfirmForm(name string) *huh.Form {
	desc := ""
	switch m.target.Kind {
	case KindProject:
		desc = "All of its lists and todos will be deleted."
	case KindList:
		desc = "All of its todos will be deleted."
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %q?", m.target.Kind.String(), name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	target := m.target

	if m.mode == modeConfirmDelete {
		if !m.fb.confirm {
			return func() tea.Msg { return CancelMsg{} }
		}
		return func() tea.Msg { return DeleteMsg{Target: target} }
	}

	values := Values{
		Title:       m.fb.title,
		Description: m.fb.description,
		Priority:    m.fb.priority,
		DueDate:     m.fb.dueDate,
	}
	edit := m.editMode
	return func() tea.Msg {
		return SubmitMsg{Target: target, Edit: edit, Values: values}
	}
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
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

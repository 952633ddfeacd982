package todoform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/internal/theme"
)

// SubmitMsg is dispatched when the user completes the form. The values are
// already written to the bound session.FormValues.
type SubmitMsg struct{}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form   *huh.Form
	values *session.FormValues
	mode   session.Mode
	width  int
	height int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Show builds a form bound to values for the given session mode. values
// must outlive the form; the session controller owns it.
func (m *Model) Show(values *session.FormValues, mode session.Mode) tea.Cmd {
	m.values = values
	m.mode = mode
	m.form = m.buildForm()
	return m.form.Init()
}

// Hide drops the current form.
func (m *Model) Hide() {
	m.form = nil
}

// Active reports whether a form is being shown.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, func() tea.Msg { return SubmitMsg{} }
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.mode == session.ModeUpdate {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

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
	v := m.values
	priorities := make([]huh.Option[string], len(model.Priorities))
	for i, p := range model.Priorities {
		priorities[i] = huh.NewOption(priorityLabel(p), string(p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&v.Title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&v.Description),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorities...).
				Value(&v.Priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&v.DueDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Category").
				Placeholder("e.g. work").
				Value(&v.Category).
				Validate(validateMaxLen("Category", 50)),
			huh.NewInput().
				Title("Tags").
				Placeholder("comma, separated").
				Value(&v.Tags),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
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

func priorityLabel(p model.Priority) string {
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validateTitle(s string) error {
	if err := validateRequired("Title")(s); err != nil {
		return err
	}
	return validateMaxLen("Title", 200)(s)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateMaxLen(fieldName string, n int) func(string) error {
	return func(s string) error {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > n {
			return fmt.Errorf("%s must be at most %d characters", fieldName, n)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if _, err := session.ParseDueDate(s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

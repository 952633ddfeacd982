package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

var validate = validator.New()

// SaveMsg is dispatched when the user submits the settings form. It carries
// all four user fields.
type SaveMsg struct {
	Update model.UserUpdate
}

// CancelMsg is dispatched when the user aborts the settings form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username  string
	email     string
	emailOn   bool
	desktopOn bool
}

// Model is the user settings view.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Show populates the form from u and displays it.
func (m *Model) Show(u model.User) tea.Cmd {
	m.fb.username = u.Username
	m.fb.email = u.Email
	m.fb.emailOn = u.EmailNotificationsEnabled
	m.fb.desktopOn = u.BrowserNotificationsEnabled
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether the form is being shown.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the settings form.
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
		update := m.update()
		return m, func() tea.Msg { return SaveMsg{Update: update} }
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// update builds the full settings update from the bound values.
func (m Model) update() model.UserUpdate {
	username := strings.TrimSpace(m.fb.username)
	email := strings.TrimSpace(m.fb.email)
	emailOn := m.fb.emailOn
	desktopOn := m.fb.desktopOn
	return model.UserUpdate{
		Username:                    &username,
		Email:                       &email,
		EmailNotificationsEnabled:   &emailOn,
		BrowserNotificationsEnabled: &desktopOn,
	}
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

	content := titleStyle.Render("Settings") + "\n" + m.form.View()

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
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewConfirm().
				Title("Email notifications").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.emailOn),
			huh.NewConfirm().
				Title("Desktop notifications").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.desktopOn),
		),
	).WithWidth(w)
}

func validateUsername(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,max=80"); err != nil {
		return fmt.Errorf("username is required (max 80 characters)")
	}
	return nil
}

func validateEmail(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/ui/todolist"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ActionMsg signals the parent to run a card action on the shown todo.
type ActionMsg struct {
	Action render.Action
}

const timeLayout = "2006-01-02 15:04"

// Model is the todo detail view component.
type Model struct {
	todo     *model.Todo
	card     render.Card
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Todo returns the todo being shown.
func (m Model) Todo() (model.Todo, bool) {
	if m.todo == nil {
		return model.Todo{}, false
	}
	return *m.todo, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Toggle):
			return m, m.actionCmd(render.ActionToggle)

		case key.Matches(msg, m.keys.Edit):
			return m, m.actionCmd(render.ActionEdit)

		case key.Matches(msg, m.keys.Delete):
			return m, m.actionCmd(render.ActionDelete)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) actionCmd(kind render.ActionKind) tea.Cmd {
	if m.todo == nil || m.loading {
		return nil
	}
	for _, a := range m.card.Actions {
		if a.Kind == kind {
			action := a
			return func() tea.Msg { return ActionMsg{Action: action} }
		}
	}
	return nil
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return placeholder.Render("Loading todo...")
	}
	if m.todo == nil {
		return placeholder.Render("No todo selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content for the viewport. Every
// server-supplied string is sanitized before it reaches the terminal.
func (m Model) renderContent() string {
	if m.todo == nil {
		return ""
	}
	t := m.todo
	c := m.card

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	if c.Completed {
		titleStyle = titleStyle.Strikethrough(true).Foreground(theme.ColorGray)
	}
	sections = append(sections, titleStyle.Render(render.Sanitize(c.Title)))

	status := lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("Pending")
	if c.Completed {
		status = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("Completed")
	}
	priority := theme.PriorityStyle(c.Priority).Render(strings.ToUpper(render.Sanitize(string(c.Priority))))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, status, "  ", priority))
	sections = append(sections, theme.HelpStyle.Render(todolist.ActionLine(m.keys, c)))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-10s", label+":")), valStyle.Render(value))
	}

	sections = append(sections, row("Due", c.DueLabel))
	if c.Category != "" {
		sections = append(sections, row("Category", render.Sanitize(c.Category)))
	}
	if len(c.Tags) > 0 {
		tags := make([]string, len(c.Tags))
		for i, tag := range c.Tags {
			tags[i] = theme.TagStyle.Render("#" + render.Sanitize(tag))
		}
		sections = append(sections, row("Tags", strings.Join(tags, " ")))
	}
	if !t.CreatedAt.IsZero() {
		sections = append(sections, row("Created", t.CreatedAt.Local().Format(timeLayout)))
	}
	if !t.UpdatedAt.IsZero() {
		sections = append(sections, row("Updated", t.UpdatedAt.Local().Format(timeLayout)))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := render.Sanitize(c.Description)
	if strings.TrimSpace(body) == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	} else {
		body = lipgloss.NewStyle().Width(max(m.width-2, 10)).Render(body)
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTodo updates the todo being displayed and re-renders the content.
func (m *Model) SetTodo(t model.Todo) {
	m.todo = &t
	m.card = render.NewCard(t)
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Clear drops the shown todo.
func (m *Model) Clear() {
	m.todo = nil
	m.card = render.Card{}
	m.loading = false
	m.viewport.SetContent("")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.todo != nil {
		m.viewport.SetContent(m.renderContent())
	}
}

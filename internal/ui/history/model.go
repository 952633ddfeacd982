package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
)

// EmptyText is shown when nothing was printed yet.
const EmptyText = "No print jobs yet"

// Limit is how many recent jobs the view asks for.
const Limit = 20

const timeLayout = "2006-01-02 15:04"

// Model lists recent print documents, newest first.
type Model struct {
	jobs     []model.PrintJob
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new print history view.
func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height-2),
		width:    width,
		height:   height,
	}
}

// SetJobs replaces the listed jobs.
func (m *Model) SetJobs(jobs []model.PrintJob) {
	m.jobs = append([]model.PrintJob(nil), jobs...)
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update scrolls the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history panel.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Print History")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.viewport.View())
}

func (m Model) renderContent() string {
	if len(m.jobs) == 0 {
		return theme.MetaStyle.Render(EmptyText)
	}
	rows := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		noun := "todos"
		if j.TodoCount == 1 {
			noun = "todo"
		}
		head := fmt.Sprintf("%s  %s  %s",
			theme.DueDateStyle.Render(j.CreatedAt.Local().Format(timeLayout)),
			theme.StatStyle.Render(fmt.Sprintf("%d %s", j.TodoCount, noun)),
			render.Sanitize(j.Summary),
		)
		rows = append(rows, head+"\n  "+theme.MetaStyle.Render(render.Sanitize(j.Path)))
	}
	return strings.Join(rows, "\n\n")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}

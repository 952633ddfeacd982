package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/render"
)

// deleteConfirm asks before a todo is deleted.
type deleteConfirm struct {
	form      *huh.Form
	todoID    int64
	confirmed bool
}

func newDeleteConfirm(card render.Card) *deleteConfirm {
	dc := &deleteConfirm{todoID: card.ID}
	title := "Are you sure you want to delete this todo?"
	desc := render.Sanitize(card.Title)
	dc.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&dc.confirmed),
		),
	).WithWidth(60)
	return dc
}

// Init starts the confirmation form.
func (dc *deleteConfirm) Init() tea.Cmd {
	return dc.form.Init()
}

// View renders the confirmation dialog.
func (dc *deleteConfirm) View() string {
	if dc == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(dc.form.View())
}

// updateConfirm feeds msg to the delete confirmation and deletes the todo
// once the user agrees.
func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	dc := m.confirm
	if dc == nil {
		m.currentView = ViewList
		return m, nil
	}

	mdl, cmd := dc.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		dc.form = f
	}

	switch dc.form.State {
	case huh.StateCompleted:
		m.confirm = nil
		m.currentView = ViewList
		if dc.confirmed {
			return m, m.deleteTodo(dc.todoID)
		}
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		m.currentView = ViewList
		return m, nil
	}
	return m, cmd
}

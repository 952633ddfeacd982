package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/render"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Placeholders(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	assert.Contains(t, m.View(), "No todo selected")

	m.SetLoading(true)
	assert.Contains(t, m.View(), "Loading todo...")
}

func TestModel_RendersTodo(t *testing.T) {
	cat := "home"
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTodo(model.Todo{
		ID:          3,
		Title:       "water \x1b[31mplants",
		Description: "the ferns too",
		Priority:    model.PriorityHigh,
		Category:    &cat,
		Tags:        []string{"garden"},
	})

	view := m.View()
	assert.Contains(t, view, "water plants")
	assert.NotContains(t, view, "\x1b[31m")
	assert.Contains(t, view, "HIGH")
	assert.Contains(t, view, "Pending")
	assert.Contains(t, view, "home")
	assert.Contains(t, view, "#garden")
	assert.Contains(t, view, "the ferns too")
	assert.Contains(t, view, render.NoDueDate)
	assert.Contains(t, view, "[x] Complete  [e] Edit  [d] Delete")
	assert.NotContains(t, view, "Undo")
}

func TestModel_CompletedTodoOffersUndo(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTodo(model.Todo{ID: 1, Title: "a", Priority: model.PriorityLow, Completed: true})

	view := m.View()
	assert.Contains(t, view, "[x] Undo")
	assert.Contains(t, view, "Completed")
}

func TestModel_KeysEmitActions(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTodo(model.Todo{ID: 5, Title: "a", Completed: true})

	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(ActionMsg)
	require.True(t, ok)
	assert.Equal(t, render.ActionToggle, msg.Action.Kind)
	assert.Equal(t, int64(5), msg.Action.TodoID)
	assert.Equal(t, "Undo", msg.Action.Label)

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, render.ActionDelete, cmd().(ActionMsg).Action.Kind)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestModel_NoActionsWhileLoading(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetLoading(true)
	_, cmd := m.Update(runes("e"))
	assert.Nil(t, cmd)
}

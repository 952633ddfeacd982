package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/session"
)

// todoMutatedMsg is sent after a toggle or delete request completes.
type todoMutatedMsg struct {
	action action
	todoID int64
	err    error
}

// todoLoadedMsg carries a single todo fetched for the detail view.
type todoLoadedMsg struct {
	todoID int64
	todo   *model.Todo
	err    error
}

// openDetail shows the detail view and fetches the latest copy of the todo.
func (m *Model) openDetail(id int64) tea.Cmd {
	m.currentView = ViewDetail
	m.detailID = id
	m.detailView.SetLoading(true)
	b := m.backend
	return func() tea.Msg {
		t, err := b.GetTodo(context.Background(), id)
		return todoLoadedMsg{todoID: id, todo: t, err: err}
	}
}

// handleTodoLoaded fills the detail view. Responses for a todo that is no
// longer being viewed are dropped.
func (m Model) handleTodoLoaded(msg todoLoadedMsg) (tea.Model, tea.Cmd) {
	if m.currentView != ViewDetail || msg.todoID != m.detailID {
		return m, nil
	}
	if msg.err != nil {
		log.WithError(msg.err).WithField("todo_id", msg.todoID).Warn("loading todo")
		m.detailView.Clear()
		m.currentView = ViewList
		noticeCmd := m.showNotice(noticeFor(actionView, msg.err))
		if api.IsNotFound(msg.err) {
			return m, tea.Batch(noticeCmd, m.engine.Reload())
		}
		return m, noticeCmd
	}
	m.detailView.SetTodo(*msg.todo)
	return m, nil
}

// findTodo looks id up in the snapshot, then in the detail view.
func (m Model) findTodo(id int64) (model.Todo, bool) {
	for _, t := range m.store.Todos() {
		if t.ID == id {
			return t, true
		}
	}
	if t, ok := m.detailView.Todo(); ok && t.ID == id {
		return t, true
	}
	return model.Todo{}, false
}

// handleAction routes a card action from the todo list or detail view.
func (m Model) handleAction(a render.Action) (tea.Model, tea.Cmd) {
	switch a.Kind {
	case render.ActionToggle:
		return m, m.toggleTodo(a.TodoID)

	case render.ActionEdit:
		t, ok := m.findTodo(a.TodoID)
		if !ok {
			return m, nil
		}
		m.session.StartEdit(t)
		return m, m.showForm()

	case render.ActionDelete:
		card := render.Card{ID: a.TodoID}
		if t, ok := m.findTodo(a.TodoID); ok {
			card = render.NewCard(t)
		}
		m.confirm = newDeleteConfirm(card)
		m.currentView = ViewConfirmDelete
		return m, m.confirm.Init()
	}
	return m, nil
}

// handleSubmitted completes the edit session the submission came from. A
// failed submission brings the populated form back. When the user has since
// cancelled into another session, that session is left alone.
func (m Model) handleSubmitted(msg session.SubmittedMsg) (tea.Model, tea.Cmd) {
	sub := msg.Submission
	act := actionCreate
	if sub.Mode == session.ModeUpdate {
		act = actionUpdate
	}
	noticeCmd := m.showNotice(noticeFor(act, msg.Err))

	if msg.Err != nil && !session.IsValidationError(msg.Err) {
		log.WithError(msg.Err).WithFields(log.Fields{
			"action":  act,
			"todo_id": sub.TodoID,
		}).Error("todo mutation failed")
	}

	owns := m.sessionOwns(sub)
	if owns {
		m.session.Complete(msg.Err)
	}

	if msg.Err != nil {
		if owns && m.session.Visible() {
			return m, tea.Batch(noticeCmd, m.showForm())
		}
		return m, noticeCmd
	}

	if owns && m.currentView == ViewForm {
		m.todoForm.Hide()
		m.currentView = ViewList
	}
	return m, tea.Batch(noticeCmd, m.reload())
}

// sessionOwns reports whether the edit session is still the one sub was
// prepared from.
func (m Model) sessionOwns(sub session.Submission) bool {
	id, editing := m.session.EditingID()
	if sub.Mode == session.ModeUpdate {
		return editing && id == sub.TodoID
	}
	return !editing
}

// handleMutated reports a toggle or delete outcome and reloads on success.
func (m Model) handleMutated(msg todoMutatedMsg) (tea.Model, tea.Cmd) {
	noticeCmd := m.showNotice(noticeFor(msg.action, msg.err))
	if msg.err != nil {
		log.WithError(msg.err).WithFields(log.Fields{
			"action":  msg.action,
			"todo_id": msg.todoID,
		}).Error("todo mutation failed")
		return m, noticeCmd
	}
	return m, tea.Batch(noticeCmd, m.reload())
}

// toggleTodo flips a todo's completion state on the server.
func (m Model) toggleTodo(id int64) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		_, err := b.ToggleComplete(context.Background(), id)
		return todoMutatedMsg{action: actionToggle, todoID: id, err: err}
	}
}

// deleteTodo removes a todo on the server.
func (m Model) deleteTodo(id int64) tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		err := b.DeleteTodo(context.Background(), id)
		return todoMutatedMsg{action: actionDelete, todoID: id, err: err}
	}
}

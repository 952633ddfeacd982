package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/printer"
)

// action identifies a user-visible operation for notices and logs.
type action string

const (
	actionLoad          action = "load"
	actionView          action = "view"
	actionCreate        action = "create"
	actionUpdate        action = "update"
	actionToggle        action = "toggle"
	actionDelete        action = "delete"
	actionSaveSettings  action = "save_settings"
	actionToggleSetting action = "toggle_setting"
	actionLoadUser      action = "load_user"
	actionCheckDue      action = "check_due"
	actionMarkRead      action = "mark_read"
	actionHistory       action = "history"
	actionPrint         action = "print"
)

// noticeTexts holds the success and failure texts of each action. An empty
// success text means success is silent.
var noticeTexts = map[action]struct{ success, failure string }{
	actionLoad:          {"", "Failed to load todos"},
	actionView:          {"", "Failed to load todo"},
	actionCreate:        {"Todo created successfully!", "Failed to create todo"},
	actionUpdate:        {"Todo updated successfully!", "Failed to update todo"},
	actionToggle:        {"Todo updated!", "Failed to update todo"},
	actionDelete:        {"Todo deleted!", "Failed to delete todo"},
	actionSaveSettings:  {"Settings saved successfully!", "Failed to save settings"},
	actionToggleSetting: {"Notification settings updated", "Failed to update notification settings"},
	actionLoadUser:      {"", "Failed to load user"},
	actionCheckDue:      {"", "Failed to check due todos"},
	actionMarkRead:      {"", "Failed to mark notification as read"},
	actionHistory:       {"", "Failed to load print history"},
	actionPrint:         {"Print view opened", "An error occurred preparing print view"},
}

// notice is a transient status-bar message.
type notice struct {
	text    string
	isError bool
	seq     int
}

// noticeExpiredMsg dismisses the notice with the same sequence number.
type noticeExpiredMsg struct {
	seq int
}

// noticeFor returns the notice text for the outcome of a. Request failures
// carry the server's message verbatim.
func noticeFor(a action, err error) (string, bool) {
	t := noticeTexts[a]
	if err == nil {
		return t.success, false
	}
	return t.failure + ": " + api.ServerMessage(err), true
}

// printNotice returns the notice for a print outcome. A viewer that could
// not be started still leaves the document on disk.
func printNotice(msg printedMsg) (string, bool) {
	var envErr *printer.EnvironmentError
	if errors.As(msg.err, &envErr) {
		return "Could not open print view; saved to " + envErr.Path, true
	}
	return noticeFor(actionPrint, msg.err)
}

// showNotice replaces the current notice and schedules its dismissal. An
// empty text shows nothing.
func (m *Model) showNotice(text string, isError bool) tea.Cmd {
	if text == "" {
		return nil
	}
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = notice{text: text, isError: isError, seq: seq}
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

package app

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
	"github.com/nhle/todo-client/internal/printer"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/internal/ui/command"
	"github.com/nhle/todo-client/internal/ui/notifications"
	"github.com/nhle/todo-client/internal/ui/settings"
	"github.com/nhle/todo-client/internal/ui/todoform"
	"github.com/nhle/todo-client/tests/testutil"
)

// cmdTimeout bounds how long a command may block before the test loop moves
// on. Ticks, cursor blinks and the poller's wait never finish in time.
const cmdTimeout = 200 * time.Millisecond

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func (f *fakeNotifier) Notify(title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeNotifier) Bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies...)
}

type fakeOpener struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (f *fakeOpener) Open(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return f.err
}

type harness struct {
	backend  *testutil.Backend
	notifier *fakeNotifier
	opener   *fakeOpener
}

func newTestApp(t *testing.T, seed func(b *testutil.Backend)) (Model, *harness) {
	t.Helper()

	h := &harness{
		backend:  testutil.NewBackend(t),
		notifier: &fakeNotifier{},
		opener:   &fakeOpener{},
	}
	if seed != nil {
		seed(h.backend)
	}

	cfg := model.DefaultAppConfig()
	cfg.Poll.IntervalSec = 3600

	ledger := testutil.NewTestLedger(t)
	m := New(Deps{
		Backend:  api.NewClient(h.backend.URL()),
		Ledger:   ledger,
		Notifier: h.notifier,
		Printer:  printer.New("Todos", t.TempDir(), printer.WithOpener(h.opener), printer.WithRecorder(ledger)),
		Config:   cfg,
	})
	t.Cleanup(m.poller.Stop)

	m = settle(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = settleCmd(t, m, m.Init())
	return m, h
}

// run executes cmd and flattens batches. Commands that block longer than
// cmdTimeout are abandoned.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(cmdTimeout):
		return nil
	}
}

// settle feeds msgs to the model, then every message their commands
// produce, until nothing is left.
func settle(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	queue := msgs
	for i := 0; i < len(queue); i++ {
		if i > 200 {
			t.Fatal("message loop did not settle")
		}
		next, cmd := m.Update(queue[i])
		m = next.(Model)
		queue = append(queue, run(cmd)...)
	}
	return m
}

func settleCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	return settle(t, m, run(cmd)...)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = settle(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return m
}

func int64Ptr(i int64) *int64 { return &i }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// addOwnedTodo seeds a user "me" on first use and a todo owned by it.
func addOwnedTodo(b *testutil.Backend, title string) model.Todo {
	users := b.Users()
	var u model.User
	if len(users) == 0 {
		u = b.AddUser("me", "me@example.com")
	} else {
		u = users[0]
	}
	return b.AddTodo(model.Todo{Title: title, UserID: int64Ptr(u.ID)})
}

func TestApp_ProvisionsDefaultUser(t *testing.T) {
	m, h := newTestApp(t, nil)

	users := h.backend.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "workshop_user", users[0].Username)
	assert.True(t, users[0].BrowserNotificationsEnabled)

	require.NotNil(t, m.store.User())
	assert.Equal(t, users[0].ID, m.store.User().ID)

	gets := h.backend.RequestsTo(http.MethodGet, "/todos")
	require.NotEmpty(t, gets)
	assert.NotEmpty(t, gets[0].Query["user_id"])
}

func TestApp_UsesExistingUser(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		b.AddUser("me", "me@example.com")
	})

	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/users"))
	assert.Equal(t, "me", m.store.User().Username)
	assert.Contains(t, m.View(), "me")
}

func TestApp_ProvisioningFailureStillLoadsTodos(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		b.Fail(http.MethodGet, "/users", http.StatusInternalServerError, "users down")
	})

	assert.Nil(t, m.store.User())
	assert.Equal(t, "Failed to load user: users down", m.notice.text)
	assert.NotEmpty(t, h.backend.RequestsTo(http.MethodGet, "/todos"))
}

func TestApp_CreateTodo(t *testing.T) {
	m, h := newTestApp(t, nil)

	m = press(t, m, "n")
	require.Equal(t, ViewForm, m.currentView)
	assert.Contains(t, m.View(), "New Todo")

	v := m.session.Values()
	v.Title = "buy milk"
	v.Tags = "home, errands"
	v.DueDate = "2024-03-05"

	m = settle(t, m, todoform.SubmitMsg{})

	todos := h.backend.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Title)
	assert.Equal(t, []string{"home", "errands"}, todos[0].Tags)

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, "Todo created successfully!", m.notice.text)
	assert.False(t, m.notice.isError)
	require.Len(t, m.store.Todos(), 1)
	assert.Equal(t, "Mar 5, 2024", render.DueLabel(m.store.Todos()[0].DueDate))
	assert.Equal(t, session.ModeCreate, m.session.Mode())
	assert.Equal(t, "", m.session.Values().Title)
}

func TestApp_CreateFailureKeepsFormPopulated(t *testing.T) {
	m, h := newTestApp(t, nil)
	h.backend.Fail(http.MethodPost, "/todos", http.StatusInternalServerError, "db down")

	m = press(t, m, "n")
	m.session.Values().Title = "buy milk"
	m = settle(t, m, todoform.SubmitMsg{})

	assert.Equal(t, "Failed to create todo: db down", m.notice.text)
	assert.True(t, m.notice.isError)
	assert.Equal(t, ViewForm, m.currentView)
	assert.True(t, m.todoForm.Active())
	assert.Equal(t, "buy milk", m.session.Values().Title)
}

func TestApp_ValidationFailureSendsNothing(t *testing.T) {
	m, h := newTestApp(t, nil)

	m = press(t, m, "n")
	m = settle(t, m, todoform.SubmitMsg{})

	assert.Empty(t, h.backend.RequestsTo(http.MethodPost, "/todos"))
	assert.True(t, m.notice.isError)
	assert.Contains(t, m.notice.text, "Failed to create todo: ")
	assert.Equal(t, ViewForm, m.currentView)
}

func TestApp_EditTodo(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		seeded = b.AddTodo(model.Todo{Title: "old", Priority: model.PriorityLow, UserID: int64Ptr(u.ID)})
	})

	m = press(t, m, "e")
	require.Equal(t, ViewForm, m.currentView)
	assert.Contains(t, m.View(), "Edit Todo")
	id, editing := m.session.EditingID()
	require.True(t, editing)
	assert.Equal(t, seeded.ID, id)
	assert.Equal(t, "old", m.session.Values().Title)

	m.session.Values().Title = "new"
	m = settle(t, m, todoform.SubmitMsg{})

	assert.Equal(t, "Todo updated successfully!", m.notice.text)
	assert.Equal(t, "new", h.backend.Todos()[0].Title)
	puts := h.backend.RequestsTo(http.MethodPut, "/todos/"+itoa(seeded.ID))
	require.Len(t, puts, 1)
	assert.NotContains(t, puts[0].Body, "user_id")
}

func TestApp_EscapeCancelsFormButKeepsUpdateMode(t *testing.T) {
	m, _ := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		b.AddTodo(model.Todo{Title: "a", UserID: int64Ptr(u.ID)})
	})

	m = press(t, m, "e")
	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, session.ModeUpdate, m.session.Mode())

	m = press(t, m, "n")
	assert.Contains(t, m.View(), "Edit Todo")
}

func TestApp_LateCreateResponseLeavesNewEditSessionAlone(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "old")
	})

	m = press(t, m, "n")
	m.session.Values().Title = "fresh"
	next, pending := m.Update(todoform.SubmitMsg{})
	m = next.(Model)

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = press(t, m, "e")
	require.Equal(t, ViewForm, m.currentView)

	m = settleCmd(t, m, pending)

	assert.Len(t, h.backend.Todos(), 2)
	assert.Equal(t, "Todo created successfully!", m.notice.text)
	assert.Equal(t, ViewForm, m.currentView)
	id, editing := m.session.EditingID()
	require.True(t, editing)
	assert.Equal(t, seeded.ID, id)
	assert.Equal(t, "old", m.session.Values().Title)
}

func TestApp_ToggleTodo(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		b.AddTodo(model.Todo{Title: "a", UserID: int64Ptr(u.ID)})
	})

	m = press(t, m, "x")

	assert.True(t, h.backend.Todos()[0].Completed)
	assert.Equal(t, "Todo updated!", m.notice.text)
	require.Len(t, m.store.Todos(), 1)
	assert.True(t, m.store.Todos()[0].Completed)
}

func TestApp_OpenDetailFetchesTodo(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "water plants")
	})

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, ViewDetail, m.currentView)
	assert.Len(t, h.backend.RequestsTo(http.MethodGet, "/todos/"+itoa(seeded.ID)), 1)
	assert.Contains(t, m.View(), "water plants")
	assert.Contains(t, m.View(), "No description")

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.currentView)
}

func TestApp_DetailEditStartsUpdateSession(t *testing.T) {
	var seeded model.Todo
	m, _ := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "a")
	})

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, "e")

	require.Equal(t, ViewForm, m.currentView)
	id, editing := m.session.EditingID()
	require.True(t, editing)
	assert.Equal(t, seeded.ID, id)
}

func TestApp_DetailLoadFailureReturnsToList(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "a")
	})
	h.backend.Fail(http.MethodGet, "/todos/"+itoa(seeded.ID), http.StatusNotFound, "Todo not found")

	listGets := len(h.backend.RequestsTo(http.MethodGet, "/todos"))

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, "Failed to load todo: Todo not found", m.notice.text)
	assert.True(t, m.notice.isError)
	assert.Len(t, h.backend.RequestsTo(http.MethodGet, "/todos"), listGets+1, "a missing todo reloads the list")
}

func TestApp_DetailServerErrorKeepsList(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "a")
	})
	h.backend.Fail(http.MethodGet, "/todos/"+itoa(seeded.ID), http.StatusInternalServerError, "boom")
	listGets := len(h.backend.RequestsTo(http.MethodGet, "/todos"))

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewList, m.currentView)
	assert.Equal(t, "Failed to load todo: boom", m.notice.text)
	assert.Len(t, h.backend.RequestsTo(http.MethodGet, "/todos"), listGets)
}

func TestApp_RefreshRereadsUser(t *testing.T) {
	var me model.User
	m, h := newTestApp(t, func(b *testutil.Backend) {
		me = b.AddUser("me", "me@example.com")
	})
	require.True(t, m.store.User().EmailNotificationsEnabled)

	h.backend.EditUser(me.ID, func(u *model.User) {
		u.Username = "renamed"
		u.EmailNotificationsEnabled = false
	})
	m = press(t, m, "r")

	assert.NotEmpty(t, h.backend.RequestsTo(http.MethodGet, "/users/"+itoa(me.ID)))
	assert.Equal(t, "renamed", m.store.User().Username)
	assert.False(t, m.store.User().EmailNotificationsEnabled)
	assert.Contains(t, m.View(), "renamed")
}

func TestApp_RefreshUserFailureKeepsUser(t *testing.T) {
	var me model.User
	m, h := newTestApp(t, func(b *testutil.Backend) {
		me = b.AddUser("me", "me@example.com")
	})
	h.backend.Fail(http.MethodGet, "/users/"+itoa(me.ID), http.StatusInternalServerError, "db down")

	m = press(t, m, "r")

	assert.Equal(t, "me", m.store.User().Username)
	assert.Equal(t, "Failed to load user: db down", m.notice.text)
	assert.True(t, m.notice.isError)
}

func TestApp_StaleDetailResponseIsDropped(t *testing.T) {
	m, _ := newTestApp(t, func(b *testutil.Backend) {
		addOwnedTodo(b, "a")
	})

	next, _ := m.Update(todoLoadedMsg{todoID: 99, todo: &model.Todo{ID: 99, Title: "late"}})
	m = next.(Model)

	assert.Equal(t, ViewList, m.currentView)
	assert.NotContains(t, m.View(), "late")
}

func TestApp_FailedMutationIsLoggedAndNotReloaded(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "a")
	})
	h.backend.Fail(http.MethodPost, "/todos/"+itoa(seeded.ID)+"/complete", http.StatusInternalServerError, "boom")
	loads := len(h.backend.RequestsTo(http.MethodGet, "/todos"))

	m = press(t, m, "x")

	assert.Equal(t, "Failed to update todo: boom", m.notice.text)
	assert.Len(t, h.backend.RequestsTo(http.MethodGet, "/todos"), loads)

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "todo mutation failed" && e.Level == log.ErrorLevel {
			found = true
			assert.Equal(t, actionToggle, e.Data["action"])
		}
	}
	assert.True(t, found, "failure should be logged")
}

func TestApp_DeleteAsksForConfirmation(t *testing.T) {
	var seeded model.Todo
	m, h := newTestApp(t, func(b *testutil.Backend) {
		seeded = addOwnedTodo(b, "a")
	})

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.currentView)
	assert.Contains(t, m.View(), "Are you sure you want to delete this todo?")

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.currentView)
	assert.Len(t, h.backend.Todos(), 1)

	m = settleCmd(t, m, m.deleteTodo(seeded.ID))
	assert.Empty(t, h.backend.Todos())
	assert.Equal(t, "Todo deleted!", m.notice.text)
	assert.Empty(t, m.store.Todos())
	assert.Contains(t, m.View(), "No todos found")
}

func TestApp_FilterKeysReload(t *testing.T) {
	m, h := newTestApp(t, nil)

	m = press(t, m, "3", "4")

	gets := h.backend.RequestsTo(http.MethodGet, "/todos")
	last := gets[len(gets)-1]
	assert.Equal(t, []string{"false"}, last.Query["completed"])
	assert.Equal(t, []string{"high"}, last.Query["priority"])

	m = press(t, m, "0")
	gets = h.backend.RequestsTo(http.MethodGet, "/todos")
	last = gets[len(gets)-1]
	assert.NotContains(t, last.Query, "completed")
	assert.NotContains(t, last.Query, "priority")
	assert.True(t, m.store.Filters().IsZero())
}

func TestApp_SearchReloadsOnEveryKeystroke(t *testing.T) {
	m, h := newTestApp(t, nil)

	m = press(t, m, "/", "q", "x")
	assert.Equal(t, "qx", m.store.Filters().Search)
	assert.True(t, m.polling, "typing q in the search box must not quit")

	var searches []string
	for _, r := range h.backend.RequestsTo(http.MethodGet, "/todos") {
		if s := r.Query["search"]; len(s) > 0 {
			searches = append(searches, s[0])
		}
	}
	assert.Equal(t, []string{"q", "qx"}, searches)
}

func TestApp_NotificationsBadgeAndMarkRead(t *testing.T) {
	var first model.Notification
	m, h := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		first = b.AddNotification(u.ID, "Todo due soon", false)
		b.AddNotification(u.ID, "Todo overdue", false)
	})

	res, ok := m.poller.Refresh(t.Context())
	require.True(t, ok)
	m = settle(t, m, res)

	require.Len(t, m.store.Notifications(), 2)
	assert.Equal(t, 2, notify.BadgeFor(m.store.Notifications()).Count)

	m = press(t, m, "N")
	require.Equal(t, ViewNotifications, m.currentView)
	assert.Contains(t, m.View(), "Todo due soon")

	m = settle(t, m, notifications.MarkReadMsg{ID: first.ID})
	assert.True(t, h.backend.Notifications()[0].Sent)
	require.Len(t, m.store.Notifications(), 1)
	assert.Equal(t, "Todo overdue", m.store.Notifications()[0].Message)
}

func TestApp_MarkReadFailureShowsNotice(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		b.AddNotification(u.ID, "due soon", false)
	})

	m = settle(t, m, notifications.MarkReadMsg{ID: 9999})

	assert.Equal(t, "Failed to mark notification as read: Notification not found", m.notice.text)
	assert.True(t, m.notice.isError)
	assert.Len(t, h.backend.RequestsTo(http.MethodPost, "/notifications/9999/mark-read"), 1)
	assert.Len(t, m.store.Notifications(), 1)
}

func TestApp_RaisesDesktopNotificationsOnce(t *testing.T) {
	m, h := newTestApp(t, nil)
	h.backend.AddNotification(m.store.User().ID, "Todo created: milk", false)

	for i := 0; i < 2; i++ {
		res, ok := m.poller.Refresh(t.Context())
		require.True(t, ok)
		m = settle(t, m, res)
	}

	assert.Equal(t, []string{"Todo created: milk"}, h.notifier.Bodies())
	assert.Equal(t, []string{"Todo App"}, h.notifier.titles)
}

func TestApp_PrintCommand(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		addOwnedTodo(b, "a")
	})

	m = settle(t, m, command.CommandMsg("print"))
	assert.Equal(t, "Print view opened", m.notice.text)
	require.Len(t, h.opener.paths, 1)

	h.opener.err = errors.New("no display")
	m = press(t, m, "P")
	assert.True(t, m.notice.isError)
	assert.Contains(t, m.notice.text, "Could not open print view; saved to ")
}

func TestApp_HistoryListsPrintJobs(t *testing.T) {
	m, h := newTestApp(t, func(b *testutil.Backend) {
		addOwnedTodo(b, "a")
	})

	m = settle(t, m, command.CommandMsg("history"))
	require.Equal(t, ViewHistory, m.currentView)
	assert.Contains(t, m.View(), "No print jobs yet")

	m = settle(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.currentView)

	m = press(t, m, "P")
	require.Len(t, h.opener.paths, 1)

	m = settle(t, m, command.CommandMsg("history"))
	require.Equal(t, ViewHistory, m.currentView)
	assert.Contains(t, m.View(), "1 todo")
	assert.Contains(t, m.View(), "All todos")
}

func TestApp_ToggleSettingSendsPartialUpdate(t *testing.T) {
	m, h := newTestApp(t, nil)
	userID := m.store.User().ID

	m = settle(t, m, command.CommandMsg("toggle email"))

	puts := h.backend.RequestsTo(http.MethodPut, "/users/"+itoa(userID))
	require.Len(t, puts, 1)
	assert.Equal(t, map[string]interface{}{"email_notifications_enabled": false}, puts[0].Body)
	assert.False(t, m.store.User().EmailNotificationsEnabled)
	assert.True(t, m.store.User().BrowserNotificationsEnabled)
}

func TestApp_SaveSettingsSendsEveryField(t *testing.T) {
	m, h := newTestApp(t, nil)
	userID := m.store.User().ID

	m = press(t, m, "S")
	require.Equal(t, ViewSettings, m.currentView)

	name, email, on, off := "renamed", "new@example.com", true, false
	m = settle(t, m, settings.SaveMsg{Update: model.UserUpdate{
		Username:                    &name,
		Email:                       &email,
		EmailNotificationsEnabled:   &off,
		BrowserNotificationsEnabled: &on,
	}})

	puts := h.backend.RequestsTo(http.MethodPut, "/users/"+itoa(userID))
	require.Len(t, puts, 1)
	assert.Len(t, puts[0].Body, 4)
	assert.Equal(t, "Settings saved successfully!", m.notice.text)
	assert.Equal(t, "renamed", m.store.User().Username)
	assert.Equal(t, ViewList, m.currentView)
}

func TestApp_CheckDueCommand(t *testing.T) {
	m, h := newTestApp(t, nil)

	m = settle(t, m, command.CommandMsg("check due"))
	assert.Len(t, h.backend.RequestsTo(http.MethodPost, "/notifications/check-due"), 1)
	assert.Equal(t, "Checked due todos, 0 notifications sent", m.notice.text)
}

func TestApp_UnknownCommand(t *testing.T) {
	m, _ := newTestApp(t, nil)
	m = settle(t, m, command.CommandMsg("frobnicate"))
	assert.Equal(t, "Unknown command: frobnicate", m.notice.text)
	assert.True(t, m.notice.isError)
}

func TestApp_NoticeExpires(t *testing.T) {
	m, _ := newTestApp(t, nil)

	m.showNotice("first", false)
	stale := m.notice.seq
	m.showNotice("second", false)

	m = settle(t, m, noticeExpiredMsg{seq: stale})
	assert.Equal(t, "second", m.notice.text)

	m = settle(t, m, noticeExpiredMsg{seq: m.notice.seq})
	assert.Equal(t, "", m.notice.text)
}

func TestApp_QuitStopsPolling(t *testing.T) {
	m, _ := newTestApp(t, nil)
	require.True(t, m.polling)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, next.(Model).polling)
}

func TestApp_ViewShowsStatsAndCards(t *testing.T) {
	m, _ := newTestApp(t, func(b *testutil.Backend) {
		u := b.AddUser("me", "me@example.com")
		b.AddTodo(model.Todo{Title: "write report", Priority: model.PriorityHigh, UserID: int64Ptr(u.ID)})
	})

	view := m.View()
	for _, want := range []string{"Todo App", "Total 1", "High 1", "write report", "All todos"} {
		assert.Contains(t, view, want)
	}
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		action  action
		err     error
		want    string
		isError bool
	}{
		{actionCreate, nil, "Todo created successfully!", false},
		{actionUpdate, nil, "Todo updated successfully!", false},
		{actionToggle, nil, "Todo updated!", false},
		{actionDelete, nil, "Todo deleted!", false},
		{actionDelete, &api.RequestError{Status: 404, Message: "Todo not found"}, "Failed to delete todo: Todo not found", true},
		{actionLoad, nil, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, isError := noticeFor(tt.action, tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isError, isError)
		})
	}
}

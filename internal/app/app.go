package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/filter"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
	"github.com/nhle/todo-client/internal/printer"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/internal/state"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/internal/ui"
	"github.com/nhle/todo-client/internal/ui/command"
	"github.com/nhle/todo-client/internal/ui/detail"
	helpview "github.com/nhle/todo-client/internal/ui/help"
	"github.com/nhle/todo-client/internal/ui/history"
	"github.com/nhle/todo-client/internal/ui/notifications"
	"github.com/nhle/todo-client/internal/ui/settings"
	"github.com/nhle/todo-client/internal/ui/todoform"
	"github.com/nhle/todo-client/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewForm
	ViewSettings
	ViewNotifications
	ViewConfirmDelete
	ViewDetail
	ViewHistory
)

// Backend is the REST API surface the application uses.
type Backend interface {
	filter.TodoSource
	session.TodoWriter
	notify.Source
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u model.NewUser) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, u model.UserUpdate) (*model.User, error)
	GetTodo(ctx context.Context, id int64) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (*model.Todo, error)
	CheckDue(ctx context.Context) (*api.CheckDueResult, error)
}

// Deps are the collaborators of the root model. Ledger and Notifier are
// optional; without a ledger no desktop notifications are raised and there
// is no print history.
type Deps struct {
	Backend  Backend
	Ledger   store.Ledger
	Notifier notify.Notifier
	Printer  *printer.Composer
	Config   *model.AppConfig
}

// Model is the root Bubble Tea model that manages view routing, layout and
// the todo client's state.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	backend     Backend
	store       *state.Store
	engine      *filter.Engine
	session     *session.Controller
	poller      *notify.Poller
	announcer   *notify.Announcer
	printer     *printer.Composer
	ledger      store.Ledger
	defaultUser model.UserConfig

	todoList         todolist.Model
	detailView       detail.Model
	historyView      history.Model
	todoForm         todoform.Model
	settingsView     settings.Model
	notificationView notifications.Model
	helpView         helpview.Model
	commandView      command.Model
	confirm          *deleteConfirm
	detailID         int64

	notice    notice
	noticeSeq int
	noticeTTL time.Duration

	ready   bool
	polling bool
}

// New creates the root application model.
func New(d Deps) Model {
	cfg := d.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	k := keys.DefaultKeyMap()
	s := state.New()

	notifier := d.Notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	var announcer *notify.Announcer
	if d.Ledger != nil {
		announcer = notify.NewAnnouncer(notifier, d.Ledger)
	}

	p := d.Printer
	if p == nil {
		var opts []printer.Option
		if d.Ledger != nil {
			opts = append(opts, printer.WithRecorder(d.Ledger))
		}
		p = printer.New(cfg.Print.Title, cfg.Print.Dir, opts...)
	}

	ttl := time.Duration(cfg.Display.NoticeSec) * time.Second
	if ttl <= 0 {
		ttl = 3 * time.Second
	}

	return Model{
		currentView:      ViewList,
		keys:             k,
		backend:          d.Backend,
		store:            s,
		engine:           filter.New(s, d.Backend),
		session:          session.New(d.Backend, s),
		poller:           notify.New(d.Backend, time.Duration(cfg.Poll.IntervalSec)*time.Second),
		announcer:        announcer,
		printer:          p,
		ledger:           d.Ledger,
		defaultUser:      cfg.User,
		todoList:         todolist.New(k, 80, 24),
		detailView:       detail.New(k, 80, 24),
		historyView:      history.New(80, 24),
		todoForm:         todoform.New(80, 24),
		settingsView:     settings.New(80, 24),
		notificationView: notifications.New(k, 80, 24),
		helpView:         helpview.New(k, 80, 24),
		commandView:      command.New(80, 24),
		noticeTTL:        ttl,
	}
}

// Init provisions the current user; todos and notifications load once it
// is known.
func (m Model) Init() tea.Cmd {
	return m.provisionUser()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.todoList.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.historyView.SetSize(w, h)
		m.todoForm.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.notificationView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case userReadyMsg:
		return m.handleUserReady(msg)

	case userUpdatedMsg:
		return m.handleUserUpdated(msg)

	case userRefreshedMsg:
		return m.handleUserRefreshed(msg)

	case filter.LoadedMsg:
		m.engine.Apply(msg)
		if msg.Err != nil {
			return m, m.showNotice(noticeFor(actionLoad, msg.Err))
		}
		return m, m.todoList.SetCards(render.Cards(m.store.Todos()))

	case notify.ResultMsg:
		var cmds []tea.Cmd
		if m.polling {
			cmds = append(cmds, m.poller.WaitForNextResult())
		}
		if notify.Apply(m.store, msg) {
			cmds = append(cmds, m.notificationsChanged())
		}
		return m, tea.Batch(cmds...)

	case notify.MarkedReadMsg:
		var cmds []tea.Cmd
		if msg.Err != nil {
			cmds = append(cmds, m.showNotice(noticeFor(actionMarkRead, msg.Err)))
		}
		if notify.Apply(m.store, msg.Result) {
			cmds = append(cmds, m.notificationsChanged())
		}
		return m, tea.Batch(cmds...)

	case notifications.MarkReadMsg:
		return m, m.poller.MarkReadCmd(msg.ID)

	case todolist.SearchMsg:
		m.engine.SetSearch(msg.Query)
		return m, m.engine.Reload()

	case todolist.ActionMsg:
		return m.handleAction(msg.Action)

	case todolist.OpenMsg:
		return m, m.openDetail(msg.TodoID)

	case todoLoadedMsg:
		return m.handleTodoLoaded(msg)

	case detail.BackMsg:
		m.detailView.Clear()
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		m.currentView = ViewList
		return m.handleAction(msg.Action)

	case todoform.SubmitMsg:
		return m, m.session.SubmitCmd()

	case todoform.CancelMsg:
		m.session.Cancel()
		m.currentView = ViewList
		return m, nil

	case session.SubmittedMsg:
		return m.handleSubmitted(msg)

	case todoMutatedMsg:
		return m.handleMutated(msg)

	case settings.SaveMsg:
		m.currentView = ViewList
		return m, m.updateUser(actionSaveSettings, msg.Update)

	case settings.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case printedMsg:
		return m, m.showNotice(printNotice(msg))

	case historyLoadedMsg:
		if msg.err != nil {
			return m, m.showNotice(noticeFor(actionHistory, msg.err))
		}
		m.historyView.SetJobs(msg.jobs)
		m.currentView = ViewHistory
		return m, nil

	case checkDueMsg:
		if msg.err != nil {
			return m, m.showNotice(noticeFor(actionCheckDue, msg.err))
		}
		m.poller.RefreshNow()
		return m, m.showNotice(msg.message, false)

	case noticeExpiredMsg:
		if msg.seq == m.notice.seq {
			m.notice = notice{}
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleKey processes keys the root model owns. It reports whether the key
// was consumed.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewForm:
		if key.Matches(msg, m.keys.Back) {
			m.session.Cancel()
			m.todoForm.Hide()
			m.currentView = ViewList
			return m, nil, true
		}
		return m, nil, false

	case ViewSettings, ViewConfirmDelete:
		if key.Matches(msg, m.keys.Back) {
			m.confirm = nil
			m.currentView = ViewList
			return m, nil, true
		}
		return m, nil, false

	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewNotifications:
		if key.Matches(msg, m.keys.Back, m.keys.Notifications) {
			m.currentView = ViewList
			return m, nil, true
		}
		return m, nil, false

	case ViewDetail:
		return m, nil, false

	case ViewHistory:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewList
			return m, nil, true
		}
		return m, nil, false
	}

	// List view. The search box owns every key while focused.
	if m.todoList.Searching() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit(), true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.New):
		m.session.Open()
		return m, m.showForm(), true

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.reload(), m.refreshUser()), true

	case key.Matches(msg, m.keys.FilterAll):
		m.engine.SetCompletion(model.CompletionAny)
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.FilterCompleted):
		m.engine.SetCompletion(model.CompletionCompleted)
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.FilterPending):
		m.engine.SetCompletion(model.CompletionPending)
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.FilterHigh):
		m.engine.QuickHigh()
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.CyclePriority):
		m.engine.CyclePriority()
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.CycleCategory):
		m.engine.CycleCategory()
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.ClearFilters):
		m.engine.Clear()
		return m, m.engine.Reload(), true

	case key.Matches(msg, m.keys.Notifications):
		return m, m.openNotifications(), true

	case key.Matches(msg, m.keys.Settings):
		return m, m.openSettings(), true

	case key.Matches(msg, m.keys.Print):
		return m, m.print(), true
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewNotifications:
		m.notificationView, cmd = m.notificationView.Update(msg)
	case ViewConfirmDelete:
		return m.updateConfirm(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	username := ""
	if u := m.store.User(); u != nil {
		username = u.Username
	}
	header := m.layout.RenderHeader("Todo App", username, notify.BadgeFor(m.store.Notifications()))
	stats := m.layout.RenderStats(m.store.Stats(), m.store.Filters())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice.text, m.notice.isError)

	return m.layout.RenderWithFrame(header, stats, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.todoList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		if !m.todoForm.Active() {
			return "Saving..."
		}
		return m.todoForm.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewNotifications:
		return m.notificationView.View()
	case ViewConfirmDelete:
		return m.confirm.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHistory:
		return m.historyView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewForm:
		return "enter next | esc cancel"
	case ViewSettings:
		return "enter next | esc cancel"
	case ViewNotifications:
		return "enter mark read | esc back"
	case ViewConfirmDelete:
		return "y delete | n cancel | esc back"
	case ViewDetail:
		return "x toggle | e edit | d delete | j/k scroll | esc back"
	case ViewHistory:
		return "j/k scroll | esc back"
	default:
		if m.todoList.Searching() {
			return "type to search | enter done | esc clear"
		}
		return "q quit | ? help | n new | enter view | x toggle | e edit | d delete | / search | 1-4 filter | P print"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "all":
		m.engine.SetCompletion(model.CompletionAny)
		return m.engine.Reload()
	case "completed":
		m.engine.SetCompletion(model.CompletionCompleted)
		return m.engine.Reload()
	case "pending":
		m.engine.SetCompletion(model.CompletionPending)
		return m.engine.Reload()
	case "high":
		m.engine.QuickHigh()
		return m.engine.Reload()
	case "clear", "clear filters":
		m.engine.Clear()
		return m.engine.Reload()
	case "print":
		return m.print()
	case "history":
		return m.printHistory()
	case "settings":
		return m.openSettings()
	case "notifications":
		return m.openNotifications()
	case "refresh":
		return tea.Batch(m.reload(), m.refreshUser())
	case "check due":
		return m.checkDue()
	case "toggle email":
		return m.toggleSetting(settingEmail)
	case "toggle desktop":
		return m.toggleSetting(settingDesktop)
	case "quit", "q":
		return m.quit()
	default:
		return m.showNotice("Unknown command: "+cmd, true)
	}
}

// reload refreshes the todo snapshot and asks the poller for an immediate
// notification poll. Every successful mutation goes through here.
func (m *Model) reload() tea.Cmd {
	m.poller.RefreshNow()
	return m.engine.Reload()
}

// quit stops polling and exits.
func (m *Model) quit() tea.Cmd {
	m.poller.Stop()
	m.polling = false
	return tea.Quit
}

// showForm displays the todo form bound to the session's values.
func (m *Model) showForm() tea.Cmd {
	m.currentView = ViewForm
	return m.todoForm.Show(m.session.Values(), m.session.Mode())
}

// openNotifications shows the notification panel.
func (m *Model) openNotifications() tea.Cmd {
	m.currentView = ViewNotifications
	return m.notificationView.SetNotifications(m.store.Notifications())
}

// openSettings shows the settings form for the current user.
func (m *Model) openSettings() tea.Cmd {
	u := m.store.User()
	if u == nil {
		return m.showNotice("No user loaded yet", true)
	}
	m.currentView = ViewSettings
	return m.settingsView.Show(*u)
}

// notificationsChanged refreshes the notification panel and raises desktop
// notifications for new entries.
func (m *Model) notificationsChanged() tea.Cmd {
	ns := m.store.Notifications()
	cmd := m.notificationView.SetNotifications(ns)
	if m.announcer == nil {
		return cmd
	}
	a := m.announcer
	user := m.store.User()
	return tea.Batch(cmd, func() tea.Msg {
		a.Announce(context.Background(), user, ns)
		return nil
	})
}

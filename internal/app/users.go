package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
)

// UserSource is the part of the backend needed to provision a user.
type UserSource interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u model.NewUser) (*model.User, error)
}

// userReadyMsg is sent once the current user is known.
type userReadyMsg struct {
	user *model.User
	err  error
}

// userUpdatedMsg is sent after a settings update completes.
type userUpdatedMsg struct {
	action action
	user   *model.User
	err    error
}

// userRefreshedMsg carries a fresh copy of the current user.
type userRefreshedMsg struct {
	user *model.User
	err  error
}

// setting names a notification preference toggled from the palette.
type setting int

const (
	settingEmail setting = iota
	settingDesktop
)

// ProvisionUser returns the first existing user, creating def (with both
// notification channels enabled) when there is none.
func ProvisionUser(ctx context.Context, src UserSource, def model.UserConfig) (*model.User, error) {
	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if len(users) > 0 {
		u := users[0]
		return &u, nil
	}

	u, err := src.CreateUser(ctx, model.NewUser{
		Username:                    def.Username,
		Email:                       def.Email,
		EmailNotificationsEnabled:   true,
		BrowserNotificationsEnabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating default user: %w", err)
	}
	log.WithField("user_id", u.ID).Info("created default user")
	return u, nil
}

// provisionUser returns a command that resolves the current user.
func (m Model) provisionUser() tea.Cmd {
	b := m.backend
	def := m.defaultUser
	return func() tea.Msg {
		u, err := ProvisionUser(context.Background(), b, def)
		return userReadyMsg{user: u, err: err}
	}
}

// handleUserReady stores the user, starts notification polling and loads
// the todos. Without a user the todos still load, unscoped.
func (m Model) handleUserReady(msg userReadyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.WithError(msg.err).Error("provisioning user")
		return m, tea.Batch(m.showNotice(noticeFor(actionLoadUser, msg.err)), m.engine.Reload())
	}

	m.store.SetUser(msg.user)
	m.poller.SetUser(msg.user.ID)
	cmds := []tea.Cmd{m.engine.Reload()}
	if wait := m.poller.Start(); wait != nil {
		m.polling = true
		cmds = append(cmds, wait)
	}
	m.poller.RefreshNow()
	return m, tea.Batch(cmds...)
}

// refreshUser re-reads the current user so settings changed elsewhere show
// up. Without a user there is nothing to refresh.
func (m Model) refreshUser() tea.Cmd {
	id := m.store.UserID()
	if id == nil {
		return nil
	}
	b := m.backend
	userID := *id
	return func() tea.Msg {
		u, err := b.GetUser(context.Background(), userID)
		return userRefreshedMsg{user: u, err: err}
	}
}

// handleUserRefreshed replaces the current user with the server's copy.
func (m Model) handleUserRefreshed(msg userRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.WithError(msg.err).Error("refreshing user")
		return m, m.showNotice(noticeFor(actionLoadUser, msg.err))
	}
	if msg.user != nil {
		m.store.SetUser(msg.user)
	}
	return m, nil
}

// updateUser sends a settings update for the current user.
func (m Model) updateUser(a action, update model.UserUpdate) tea.Cmd {
	id := m.store.UserID()
	if id == nil {
		return nil
	}
	b := m.backend
	userID := *id
	return func() tea.Msg {
		u, err := b.UpdateUser(context.Background(), userID, update)
		return userUpdatedMsg{action: a, user: u, err: err}
	}
}

// toggleSetting flips one notification preference with a partial update.
func (m *Model) toggleSetting(s setting) tea.Cmd {
	u := m.store.User()
	if u == nil {
		return m.showNotice("No user loaded yet", true)
	}

	var update model.UserUpdate
	switch s {
	case settingEmail:
		v := !u.EmailNotificationsEnabled
		update.EmailNotificationsEnabled = &v
	case settingDesktop:
		v := !u.BrowserNotificationsEnabled
		update.BrowserNotificationsEnabled = &v
	}
	return m.updateUser(actionToggleSetting, update)
}

// handleUserUpdated replaces the current user with the server's copy.
func (m Model) handleUserUpdated(msg userUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.WithError(msg.err).WithField("action", msg.action).Error("updating user")
		return m, m.showNotice(noticeFor(msg.action, msg.err))
	}
	if msg.user != nil {
		m.store.SetUser(msg.user)
	}
	return m, m.showNotice(noticeFor(msg.action, nil))
}

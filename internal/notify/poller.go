// Package notify keeps the pending-notification snapshot fresh, derives the
// unread badge from it and raises desktop notifications for new entries.
package notify

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/state"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 30 * time.Second

// fetchTimeout bounds a single poll.
const fetchTimeout = 30 * time.Second

// Source is the part of the API client the poller depends on.
type Source interface {
	ListNotifications(ctx context.Context, userID int64, pendingOnly bool) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

// ResultMsg is a tea.Msg carrying the outcome of a poll.
type ResultMsg struct {
	UserID        int64
	Notifications []model.Notification
	Err           error
}

// MarkedReadMsg is a tea.Msg sent after a mark-read request and the reload
// that always follows it.
type MarkedReadMsg struct {
	ID     int64
	Err    error
	Result ResultMsg
}

// Poller fetches the pending notifications of the current user on a fixed
// interval and whenever RefreshNow is called.
type Poller struct {
	source    Source
	interval  time.Duration
	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	userID  *int64
	running bool
}

// New creates a poller. A non-positive interval selects DefaultInterval.
func New(src Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:    src,
		interval:  interval,
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// SetUser sets the user whose notifications are polled. Polls are skipped
// until a user is set.
func (p *Poller) SetUser(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userID = &id
}

func (p *Poller) currentUser() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userID == nil {
		return 0, false
	}
	return *p.userID, true
}

// Start launches the polling goroutine and returns a command that waits for
// the first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine. Requests already in flight complete but
// their results are dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// RefreshNow asks the polling goroutine for an immediate poll. Repeated
// calls before the poll starts coalesce into one.
func (p *Poller) RefreshNow() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Refresh polls synchronously.
func (p *Poller) Refresh(ctx context.Context) (ResultMsg, bool) {
	userID, ok := p.currentUser()
	if !ok {
		return ResultMsg{}, false
	}
	return p.fetch(ctx, userID), true
}

// RefreshCmd returns a command that polls once outside the polling loop.
func (p *Poller) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := p.Refresh(context.Background())
		if !ok {
			return nil
		}
		return msg
	}
}

// MarkRead marks notification id as read and then reloads the snapshot. The
// reload happens whether or not the mark-read request succeeded.
func (p *Poller) MarkRead(ctx context.Context, id int64) MarkedReadMsg {
	err := p.source.MarkNotificationRead(ctx, id)
	if err != nil {
		log.WithError(err).WithField("notification_id", id).Warn("marking notification read")
	}
	msg := MarkedReadMsg{ID: id, Err: err}
	msg.Result, _ = p.Refresh(ctx)
	return msg
}

// MarkReadCmd is the asynchronous form of MarkRead.
func (p *Poller) MarkReadCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return p.MarkRead(context.Background(), id)
	}
}

// WaitForNextResult returns a command that waits for the next poll result.
// Call it after handling each ResultMsg from the polling loop.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	userID, ok := p.currentUser()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	p.sendResult(p.fetch(ctx, userID))
}

func (p *Poller) fetch(ctx context.Context, userID int64) ResultMsg {
	ns, err := p.source.ListNotifications(ctx, userID, true)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("polling notifications")
		return ResultMsg{UserID: userID, Err: err}
	}
	return ResultMsg{UserID: userID, Notifications: ns}
}

// sendResult hands a result to the UI without blocking the poller.
func (p *Poller) sendResult(msg ResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		log.Debug("notification result dropped, consumer is behind")
	}
}

// Apply replaces the notification snapshot with a successful poll for the
// current user. Failed polls and polls for another user leave the snapshot
// as it was. It reports whether the snapshot was replaced.
func Apply(s *state.Store, msg ResultMsg) bool {
	if msg.Err != nil {
		return false
	}
	if id := s.UserID(); id == nil || *id != msg.UserID {
		return false
	}
	s.SetNotifications(msg.Notifications)
	return true
}

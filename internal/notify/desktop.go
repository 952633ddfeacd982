package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
)

// Notifier raises a notification outside the terminal.
type Notifier interface {
	Notify(title, body string) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string, string) error { return nil }

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = "/org/freedesktop/Notifications"
	notificationsIface = "org.freedesktop.Notifications.Notify"
	appName            = "todo"
	expireTimeoutMs    = int32(5000)
)

// DesktopNotifier posts notifications to the freedesktop notification
// service on the session bus.
type DesktopNotifier struct {
	conn *dbus.Conn
}

// NewDesktopNotifier connects to the session bus. When no bus is available
// it logs the reason and returns a NopNotifier.
func NewDesktopNotifier() Notifier {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.WithError(err).Info("desktop notifications unavailable")
		return NopNotifier{}
	}
	return &DesktopNotifier{conn: conn}
}

// Notify implements Notifier.
func (d *DesktopNotifier) Notify(title, body string) error {
	obj := d.conn.Object(notificationsDest, notificationsPath)
	call := obj.Call(notificationsIface, 0,
		appName,
		uint32(0),
		"",
		title,
		body,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeoutMs,
	)
	if call.Err != nil {
		return fmt.Errorf("posting desktop notification: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (d *DesktopNotifier) Close() error {
	return d.conn.Close()
}

// Ledger remembers which notifications were already raised on this machine.
type Ledger interface {
	IsDelivered(ctx context.Context, notificationID int64) (bool, error)
	MarkDelivered(ctx context.Context, notificationID, userID int64) error
}

// Announcer raises each unsent notification at most once.
type Announcer struct {
	notifier Notifier
	ledger   Ledger
	mu       sync.Mutex
}

// NewAnnouncer creates an announcer.
func NewAnnouncer(n Notifier, l Ledger) *Announcer {
	return &Announcer{notifier: n, ledger: l}
}

// Announce raises the unsent notifications in ns that were not raised
// before, provided the user has desktop notifications enabled. It returns
// the number raised.
func (a *Announcer) Announce(ctx context.Context, user *model.User, ns []model.Notification) int {
	if user == nil || !user.BrowserNotificationsEnabled {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	raised := 0
	for _, n := range ns {
		if n.Sent {
			continue
		}
		seen, err := a.ledger.IsDelivered(ctx, n.ID)
		if err != nil {
			log.WithError(err).WithField("notification_id", n.ID).Warn("reading notification ledger")
			continue
		}
		if seen {
			continue
		}
		if err := a.notifier.Notify("Todo App", n.Message); err != nil {
			log.WithError(err).WithField("notification_id", n.ID).Warn("raising desktop notification")
			continue
		}
		if err := a.ledger.MarkDelivered(ctx, n.ID, user.ID); err != nil {
			log.WithError(err).WithField("notification_id", n.ID).Warn("recording raised notification")
		}
		raised++
	}
	return raised
}

package notifications

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
)

// EmptyText is shown when there are no pending notifications.
const EmptyText = "No notifications"

// timeLayout formats notification creation times.
const timeLayout = "Jan 2, 3:04 PM"

// MarkReadMsg is sent when the user marks the selected notification read.
type MarkReadMsg struct {
	ID int64
}

// item wraps a model.Notification for a bubbles/list.
type item struct {
	n model.Notification
}

func (i item) FilterValue() string { return i.n.Message }

type delegate struct{}

func (d delegate) Height() int                             { return 1 }
func (d delegate) Spacing() int                            { return 0 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}

	marker := " "
	if !it.n.Sent {
		marker = theme.BadgeStyle.Render("•")
	}
	when := theme.MetaStyle.Render(it.n.CreatedAt.Local().Format(timeLayout))
	line := fmt.Sprintf("%s %s  %s", marker, render.Sanitize(it.n.Message), when)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

// Model is the notification list panel.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	badge  notify.Badge
	width  int
	height int
}

// New creates a new notification panel.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, delegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, keys: k, width: width, height: height}
}

// SetNotifications replaces the displayed notifications.
func (m *Model) SetNotifications(ns []model.Notification) tea.Cmd {
	items := make([]list.Item, len(ns))
	for i, n := range ns {
		items[i] = item{n: n}
	}
	m.badge = notify.BadgeFor(ns)
	m.list.Title = "Notifications"
	if m.badge.Visible {
		m.list.Title += " (" + m.badge.String() + " unread)"
	}
	return m.list.SetItems(items)
}

// Selected returns the notification under the cursor.
func (m Model) Selected() (model.Notification, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return model.Notification{}, false
	}
	return it.n, true
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.MarkRead) {
		n, ok := m.Selected()
		if !ok {
			return m, nil
		}
		id := n.ID
		return m, func() tea.Msg { return MarkReadMsg{ID: id} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification panel.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return theme.PanelStyle.
			Width(m.width - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left,
				theme.HeaderStyle.Render("Notifications"),
				"",
				lipgloss.NewStyle().Foreground(theme.ColorGray).Render(EmptyText),
			))
	}
	return m.list.View()
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
)

// Layout manages the terminal layout dimensions: header, stats strip,
// content area and status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatsHeight     int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// The header, stats strip and status bar take one line each.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatsHeight:     1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, stats strip and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatsHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title on the left and the
// user name and unread badge on the right.
func (l Layout) RenderHeader(title, user string, badge notify.Badge) string {
	titleRendered := theme.HeaderStyle.Render(title)

	right := theme.HeaderStyle.Render(render.Sanitize(user))
	if badge.Visible {
		right = lipgloss.JoinHorizontal(lipgloss.Top, right, theme.BadgeStyle.Render(badge.String()))
	}
	statusRendered := right

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStats renders the counters strip followed by the active filter
// summary.
func (l Layout) RenderStats(stats *model.Stats, filters model.FilterSet) string {
	var parts []string
	if stats != nil {
		parts = append(parts,
			theme.StatStyle.Render(fmt.Sprintf("Total %d", stats.Total)),
			theme.StatStyle.Render(fmt.Sprintf("Completed %d", stats.Completed)),
			theme.StatStyle.Render(fmt.Sprintf("Pending %d", stats.Pending)),
			theme.PriorityStyle(model.PriorityHigh).PaddingRight(2).Render(fmt.Sprintf("High %d", stats.HighPriority)),
		)
	}
	parts = append(parts, theme.HelpStyle.Render(render.Sanitize(filters.Summary())))
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(strings.Join(parts, ""))
}

// RenderStatusBar renders the bottom status bar with keyboard hints on the
// left and, when notice is non-empty, the notice on the right.
func (l Layout) RenderStatusBar(hints, notice string, isError bool) string {
	rendered := theme.StatusBarStyle.Render(hints)

	noticeRendered := ""
	if notice != "" {
		noticeRendered = theme.NoticeStyle(isError).Render(render.Sanitize(notice))
	}

	gap := l.Width - lipgloss.Width(rendered) - lipgloss.Width(noticeRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler, noticeRendered)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, stats strip, content area and status bar.
func (l Layout) RenderWithFrame(
	header string,
	stats string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		stats,
		content,
		statusBar,
	)
}

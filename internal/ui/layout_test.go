package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/notify"
)

func TestLayout_ContentHeight(t *testing.T) {
	l := NewLayout(100, 40)
	assert.Equal(t, 37, l.ContentHeight())
	assert.Equal(t, 100, l.ContentWidth())
}

func TestLayout_RenderHeader(t *testing.T) {
	l := NewLayout(60, 20)

	header := l.RenderHeader("Todo App", "me", notify.Badge{})
	assert.Contains(t, header, "Todo App")
	assert.Contains(t, header, "me")
	assert.Equal(t, 60, lipgloss.Width(header))

	header = l.RenderHeader("Todo App", "me", notify.Badge{Count: 4, Visible: true})
	assert.Contains(t, header, "4")
}

func TestLayout_RenderStats(t *testing.T) {
	l := NewLayout(120, 20)
	out := l.RenderStats(&model.Stats{Total: 5, Completed: 2, Pending: 3, HighPriority: 1},
		model.FilterSet{Completion: model.CompletionPending})

	for _, want := range []string{"Total 5", "Completed 2", "Pending 3", "High 1", "Pending"} {
		assert.Contains(t, out, want)
	}

	out = l.RenderStats(nil, model.FilterSet{})
	assert.Contains(t, out, "All todos")
}

func TestLayout_RenderStatusBar(t *testing.T) {
	l := NewLayout(80, 20)

	bar := l.RenderStatusBar("q quit", "", false)
	assert.Contains(t, bar, "q quit")
	assert.Equal(t, 80, lipgloss.Width(bar))

	bar = l.RenderStatusBar("q quit", "Todo deleted!", false)
	assert.Contains(t, bar, "Todo deleted!")
	assert.Equal(t, 80, lipgloss.Width(bar))
}

package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/todo-client/internal/model"
)

func TestModel_Empty(t *testing.T) {
	m := New(80, 24)
	m.SetJobs(nil)
	assert.Contains(t, m.View(), EmptyText)
}

func TestModel_ListsJobs(t *testing.T) {
	m := New(100, 24)
	m.SetJobs([]model.PrintJob{
		{ID: "b", Path: "/tmp/b.html", Summary: "Pending", TodoCount: 1, CreatedAt: time.Now()},
		{ID: "a", Path: "/tmp/a.html", Summary: "All todos", TodoCount: 3, CreatedAt: time.Now().Add(-time.Hour)},
	})

	view := m.View()
	assert.Contains(t, view, "Print History")
	assert.Contains(t, view, "1 todo ")
	assert.Contains(t, view, "3 todos")
	assert.Contains(t, view, "/tmp/b.html")
	assert.Contains(t, view, "All todos")
}

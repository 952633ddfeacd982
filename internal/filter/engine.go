// Package filter turns the active filter set into backend queries and
// reloads the todo snapshot from their results.
package filter

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/state"
)

// TodoSource is the part of the API client the engine depends on.
type TodoSource interface {
	ListTodos(ctx context.Context, q api.TodoQuery) ([]model.Todo, error)
	TodoStats(ctx context.Context, userID *int64) (*model.Stats, error)
}

// LoadedMsg is a tea.Msg carrying the outcome of a reload.
type LoadedMsg struct {
	Query    api.TodoQuery
	Todos    []model.Todo
	Stats    *model.Stats
	Err      error
	StatsErr error
}

// Engine owns todo reloading. Every mutation and every filter change must
// be followed by a reload; filtering is never done client-side.
type Engine struct {
	store  *state.Store
	source TodoSource
}

// New creates an engine reading filters from and writing snapshots to s.
func New(s *state.Store, src TodoSource) *Engine {
	return &Engine{store: s, source: src}
}

// Query builds the backend query for the current filter set. Default
// values are left out; the user ID is attached once known.
func (e *Engine) Query() api.TodoQuery {
	f := e.store.Filters()
	return api.TodoQuery{
		Completed: f.Completion.Bool(),
		Priority:  string(f.Priority),
		Category:  f.Category,
		Search:    f.Search,
		UserID:    e.store.UserID(),
	}
}

// Fetch lists the todos matching q, then the stats for q's user. A stats
// failure does not fail the reload.
func (e *Engine) Fetch(ctx context.Context, q api.TodoQuery) LoadedMsg {
	msg := LoadedMsg{Query: q}

	todos, err := e.source.ListTodos(ctx, q)
	if err != nil {
		msg.Err = err
		return msg
	}
	msg.Todos = todos

	stats, err := e.source.TodoStats(ctx, q.UserID)
	if err != nil {
		log.WithError(err).Warn("loading stats")
		msg.StatsErr = err
	}
	msg.Stats = stats

	return msg
}

// Apply replaces the todo snapshot (and stats) with a successful reload.
// A failed reload leaves the store untouched.
func (e *Engine) Apply(msg LoadedMsg) {
	if msg.Err != nil {
		log.WithError(msg.Err).Error("loading todos")
		return
	}
	e.store.SetTodos(msg.Todos)
	if msg.StatsErr == nil {
		e.store.SetStats(msg.Stats)
	}
}

// ApplyFilters fetches the todos for the current filter set and replaces
// the snapshot.
func (e *Engine) ApplyFilters(ctx context.Context) error {
	msg := e.Fetch(ctx, e.Query())
	e.Apply(msg)
	return msg.Err
}

// Reload returns a tea.Cmd that fetches with the query as it is now.
// The query is captured on the caller's goroutine; the result is applied
// later by passing the LoadedMsg to Apply.
func (e *Engine) Reload() tea.Cmd {
	q := e.Query()
	return func() tea.Msg {
		return e.Fetch(context.Background(), q)
	}
}

// === Filter-set mutators ===

// SetCompletion sets the completion tri-state.
func (e *Engine) SetCompletion(c model.Completion) {
	f := e.store.Filters()
	f.Completion = c
	e.store.SetFilters(f)
}

// SetPriority sets (or clears, with "") the priority filter.
func (e *Engine) SetPriority(p model.Priority) {
	f := e.store.Filters()
	f.Priority = p
	e.store.SetFilters(f)
}

// SetCategory sets (or clears, with "") the category filter.
func (e *Engine) SetCategory(c string) {
	f := e.store.Filters()
	f.Category = c
	e.store.SetFilters(f)
}

// SetSearch sets (or clears, with "") the free-text search filter.
func (e *Engine) SetSearch(s string) {
	f := e.store.Filters()
	f.Search = s
	e.store.SetFilters(f)
}

// QuickHigh is the "high priority" quick filter. It only sets the priority
// and leaves the completion state as it was.
func (e *Engine) QuickHigh() {
	e.SetPriority(model.PriorityHigh)
}

// CyclePriority advances the priority filter through
// any → low → medium → high → any.
func (e *Engine) CyclePriority() {
	current := e.store.Filters().Priority
	if current == "" {
		e.SetPriority(model.Priorities[0])
		return
	}
	for i, p := range model.Priorities {
		if p == current && i+1 < len(model.Priorities) {
			e.SetPriority(model.Priorities[i+1])
			return
		}
	}
	e.SetPriority("")
}

// CycleCategory advances the category filter through the options derived
// from the current snapshot.
func (e *Engine) CycleCategory() {
	opts := NewCategoryOptions(e.store.Todos(), e.store.Filters().Category)
	e.SetCategory(opts.Next())
}

// Clear resets every filter.
func (e *Engine) Clear() {
	e.store.SetFilters(model.FilterSet{})
}

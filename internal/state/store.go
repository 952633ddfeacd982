// Package state holds the client's in-memory application state.
//
// The store is owned by the UI goroutine: it is only mutated from the Bubble
// Tea Update loop (or from a test), so it carries no locks. List snapshots are
// copied on the way in and on the way out, which guarantees they are only
// ever replaced wholesale and never patched in place.
package state

import "github.com/nhle/todo-client/internal/model"

// Store is the application state: current user, todo and notification
// snapshots, the latest stats and the active filter set.
type Store struct {
	user          *model.User
	todos         []model.Todo
	notifications []model.Notification
	stats         *model.Stats
	filters       model.FilterSet
}

// New returns an empty store with no user and no active filters.
func New() *Store {
	return &Store{}
}

// User returns a copy of the current user, or nil before provisioning.
func (s *Store) User() *model.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the current user's ID, or nil before provisioning.
func (s *Store) UserID() *int64 {
	if s.user == nil {
		return nil
	}
	id := s.user.ID
	return &id
}

// SetUser replaces the current user.
func (s *Store) SetUser(u *model.User) {
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// Todos returns a copy of the current todo snapshot in server order.
func (s *Store) Todos() []model.Todo {
	return cloneTodos(s.todos)
}

// SetTodos replaces the todo snapshot.
func (s *Store) SetTodos(todos []model.Todo) {
	s.todos = cloneTodos(todos)
}

// Notifications returns a copy of the current notification snapshot.
func (s *Store) Notifications() []model.Notification {
	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// SetNotifications replaces the notification snapshot.
func (s *Store) SetNotifications(notifications []model.Notification) {
	s.notifications = make([]model.Notification, len(notifications))
	copy(s.notifications, notifications)
}

// Stats returns the latest stats, or nil if none were loaded.
func (s *Store) Stats() *model.Stats {
	if s.stats == nil {
		return nil
	}
	st := *s.stats
	return &st
}

// SetStats replaces the stats.
func (s *Store) SetStats(st *model.Stats) {
	if st == nil {
		s.stats = nil
		return
	}
	cp := *st
	s.stats = &cp
}

// Filters returns the active filter set.
func (s *Store) Filters() model.FilterSet {
	return s.filters
}

// SetFilters replaces the active filter set.
func (s *Store) SetFilters(f model.FilterSet) {
	s.filters = f
}

// cloneTodos deep-copies the slice-typed fields so callers cannot reach
// into the stored snapshot through a tag list.
func cloneTodos(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		if t.Tags != nil {
			t.Tags = append([]string(nil), t.Tags...)
		}
		out[i] = t
	}
	return out
}

package model

import "strings"

// Priority is the urgency level of a todo.
type Priority string

// Priority levels understood by the backend.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priority levels from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts s (case-insensitive) into a Priority.
// It returns false if s is not a known level.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Todo is a task item owned by a user. Its ID is assigned by the backend.
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *Timestamp `json:"due_date"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	Completed   bool       `json:"completed"`
	UserID      *int64     `json:"user_id"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

// CategoryName returns the todo's category or "" when it has none.
func (t Todo) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return *t.Category
}

// TodoInput is the request body for creating or updating a todo.
type TodoInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Category    *string    `json:"category" validate:"omitempty,max=50"`
	Tags        []string   `json:"tags"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	UserID      *int64     `json:"user_id,omitempty"`
}

// Stats summarizes a user's todos as reported by the backend.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
}

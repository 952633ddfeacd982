// Package render projects the todo snapshot into view cards. Cards carry the
// raw field values; escaping happens at the output boundary (Sanitize for the
// terminal, WriteHTML for documents).
package render

import (
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// ActionKind identifies a per-card action.
type ActionKind int

const (
	ActionToggle ActionKind = iota
	ActionEdit
	ActionDelete
)

// Action is a control offered on a card. TodoID is the target of the action.
type Action struct {
	Kind   ActionKind
	Label  string
	TodoID int64
}

// Card is the view projection of a single todo.
type Card struct {
	ID          int64
	Title       string
	Description string
	Priority    model.Priority
	Completed   bool
	DueLabel    string
	Category    string
	Tags        []string
	Actions     []Action
}

// ActionLabels returns the labels of the card's actions in display order.
func (c Card) ActionLabels() []string {
	out := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		out[i] = a.Label
	}
	return out
}

// EmptyState is shown instead of cards when the snapshot is empty. Filtered
// and unfiltered empty snapshots look the same.
type EmptyState struct {
	Title string
	Hint  string
}

// Empty is the empty-state placeholder.
var Empty = EmptyState{
	Title: "No todos found",
	Hint:  "Create your first todo to get started!",
}

// DueDateLayout is the display format for due dates, in local time.
const DueDateLayout = "Jan 2, 2006"

// NoDueDate is shown when a todo has no due date.
const NoDueDate = "No due date"

// ToggleLabel returns "Undo" for completed todos and "Complete" otherwise.
func ToggleLabel(completed bool) string {
	if completed {
		return "Undo"
	}
	return "Complete"
}

// DueLabel formats an optional due date for display.
func DueLabel(due *model.Timestamp) string {
	if due == nil || due.IsZero() {
		return NoDueDate
	}
	return due.In(time.Local).Format(DueDateLayout)
}

// NewCard projects a todo.
func NewCard(t model.Todo) Card {
	c := Card{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		DueLabel:    DueLabel(t.DueDate),
		Category:    t.CategoryName(),
		Actions: []Action{
			{Kind: ActionToggle, Label: ToggleLabel(t.Completed), TodoID: t.ID},
			{Kind: ActionEdit, Label: "Edit", TodoID: t.ID},
			{Kind: ActionDelete, Label: "Delete", TodoID: t.ID},
		},
	}
	if len(t.Tags) > 0 {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return c
}

// Cards projects the snapshot in server order. An empty snapshot yields no
// cards; callers show Empty instead.
func Cards(todos []model.Todo) []Card {
	if len(todos) == 0 {
		return nil
	}
	out := make([]Card, len(todos))
	for i, t := range todos {
		out[i] = NewCard(t)
	}
	return out
}

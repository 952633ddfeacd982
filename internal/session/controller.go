// Package session implements the create/update edit session behind the todo
// form. At most one session exists; it is either creating a new todo or
// updating the todo it was started from.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/state"
)

// Mode is the edit-session state.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// DateLayout is the form's due-date format.
const DateLayout = "2006-01-02"

// TodoWriter is the part of the API client the controller depends on.
type TodoWriter interface {
	CreateTodo(ctx context.Context, in model.TodoInput) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id int64, in model.TodoInput) (*model.Todo, error)
}

// FormValues holds the raw form fields. It lives on the heap so form
// widgets can bind to its fields across Bubble Tea model copies.
type FormValues struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
	Category    string
	Tags        string
}

func (v *FormValues) reset() {
	*v = FormValues{Priority: string(model.PriorityMedium)}
}

// SubmittedMsg is a tea.Msg carrying the outcome of a submission.
type SubmittedMsg struct {
	Submission Submission
	Todo       *model.Todo
	Err        error
}

// Controller owns the edit session.
type Controller struct {
	writer  TodoWriter
	store   *state.Store
	values  *FormValues
	mode    Mode
	todoID  int64
	visible bool
}

// New creates a controller in create mode with the form hidden.
func New(w TodoWriter, s *state.Store) *Controller {
	c := &Controller{writer: w, store: s, values: &FormValues{}}
	c.values.reset()
	return c
}

// Mode returns the current session mode.
func (c *Controller) Mode() Mode { return c.mode }

// EditingID returns the id of the todo being updated.
func (c *Controller) EditingID() (int64, bool) {
	return c.todoID, c.mode == ModeUpdate
}

// Visible reports whether the form is shown.
func (c *Controller) Visible() bool { return c.visible }

// Values returns the bound form fields.
func (c *Controller) Values() *FormValues { return c.values }

// Open shows the form. The session mode is left as it is.
func (c *Controller) Open() {
	c.visible = true
}

// Cancel hides the form. An update session stays in update mode, so the
// next submission still targets the todo that was being edited.
func (c *Controller) Cancel() {
	c.visible = false
}

// StartEdit populates the form from t, switches to update mode for t.ID and
// shows the form. The due date is the local calendar day, as on the card.
func (c *Controller) StartEdit(t model.Todo) {
	v := c.values
	v.Title = t.Title
	v.Description = t.Description
	v.Priority = string(t.Priority)
	v.DueDate = ""
	if t.DueDate != nil && !t.DueDate.IsZero() {
		v.DueDate = t.DueDate.In(time.Local).Format(DateLayout)
	}
	v.Category = t.CategoryName()
	v.Tags = strings.Join(t.Tags, ", ")

	c.mode = ModeUpdate
	c.todoID = t.ID
	c.visible = true
}

// Submission is a validated request ready to be sent.
type Submission struct {
	Mode   Mode
	TodoID int64
	Input  model.TodoInput
}

// Prepare validates the form and builds the request for the current mode.
// Create requests carry the current user id.
func (c *Controller) Prepare() (Submission, error) {
	in, err := c.values.input()
	if err != nil {
		return Submission{}, err
	}
	sub := Submission{Mode: c.mode, Input: in}
	if c.mode == ModeUpdate {
		sub.TodoID = c.todoID
	} else {
		sub.Input.UserID = c.store.UserID()
	}
	return sub, nil
}

// Do sends sub to the backend.
func (s Submission) Do(ctx context.Context, w TodoWriter) (*model.Todo, error) {
	if s.Mode == ModeUpdate {
		return w.UpdateTodo(ctx, s.TodoID, s.Input)
	}
	return w.CreateTodo(ctx, s.Input)
}

// Complete applies the outcome of a submission. On success the form is
// cleared and hidden and the session returns to create mode; on failure
// nothing changes so the user can retry.
func (c *Controller) Complete(err error) {
	if err != nil {
		return
	}
	c.values.reset()
	c.visible = false
	c.mode = ModeCreate
	c.todoID = 0
}

// Submit validates, sends and completes the session synchronously.
func (c *Controller) Submit(ctx context.Context) (*model.Todo, error) {
	sub, err := c.Prepare()
	if err != nil {
		return nil, err
	}
	todo, err := sub.Do(ctx, c.writer)
	if err != nil {
		log.WithError(err).WithField("mode", sub.Mode).Error("submitting todo")
	}
	c.Complete(err)
	return todo, err
}

// SubmitCmd validates on the caller's goroutine and returns a command that
// sends the request. The SubmittedMsg it yields must be passed to Complete.
// A validation failure is reported through the message without a request;
// its Submission still names the session's mode and target.
func (c *Controller) SubmitCmd() tea.Cmd {
	sub, err := c.Prepare()
	if err != nil {
		failed := Submission{Mode: c.mode}
		if c.mode == ModeUpdate {
			failed.TodoID = c.todoID
		}
		return func() tea.Msg { return SubmittedMsg{Submission: failed, Err: err} }
	}
	w := c.writer
	return func() tea.Msg {
		todo, err := sub.Do(context.Background(), w)
		return SubmittedMsg{Submission: sub, Todo: todo, Err: err}
	}
}

// input converts the raw fields into a request body.
func (v *FormValues) input() (model.TodoInput, error) {
	in := model.TodoInput{
		Title:       strings.TrimSpace(v.Title),
		Description: v.Description,
		Priority:    model.Priority(v.Priority),
		Tags:        ParseTags(v.Tags),
	}
	if cat := strings.TrimSpace(v.Category); cat != "" {
		in.Category = &cat
	}
	due, err := ParseDueDate(v.DueDate)
	if err != nil {
		return model.TodoInput{}, err
	}
	in.DueDate = due

	if err := Validate(in); err != nil {
		return model.TodoInput{}, err
	}
	return in, nil
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries. It never returns nil.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseDueDate converts a YYYY-MM-DD date into the UTC midnight timestamp
// of that day. An empty value means no due date.
func ParseDueDate(s string) (*model.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, &ValidationError{Field: "due_date", Message: fmt.Sprintf("Due date %q must be YYYY-MM-DD", s)}
	}
	ts := model.NewTimestamp(d)
	return &ts, nil
}

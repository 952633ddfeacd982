package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nhle/todo-client/internal/model"
)

// TodoQuery is the set of optional filters for GET /todos.
// Zero values are omitted from the query string.
type TodoQuery struct {
	Completed *bool
	Priority  string
	Category  string
	Search    string
	UserID    *int64
}

// Values encodes the non-default fields of q.
func (q TodoQuery) Values() url.Values {
	v := url.Values{}
	if q.Completed != nil {
		v.Set("completed", strconv.FormatBool(*q.Completed))
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.UserID != nil {
		v.Set("user_id", strconv.FormatInt(*q.UserID, 10))
	}
	return v
}

// withQuery appends v to path when it is non-empty.
func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// === Users ===

// ListUsers returns every user profile.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.Call(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single user profile.
func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user profile.
func (c *Client) CreateUser(ctx context.Context, u model.NewUser) (*model.User, error) {
	var user model.User
	if err := c.Call(ctx, http.MethodPost, "/users", u, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a (possibly partial) update to a user profile.
func (c *Client) UpdateUser(ctx context.Context, id int64, u model.UserUpdate) (*model.User, error) {
	var user model.User
	if err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), u, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// === Todos ===

// ListTodos returns the todos matching q, in server order.
func (c *Client) ListTodos(ctx context.Context, q TodoQuery) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.Call(ctx, http.MethodGet, withQuery("/todos", q.Values()), nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo returns a single todo.
func (c *Client) GetTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/todos/%d", id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateTodo creates a todo and returns it with its backend-assigned ID.
func (c *Client) CreateTodo(ctx context.Context, in model.TodoInput) (*model.Todo, error) {
	var todo model.Todo
	if err := c.Call(ctx, http.MethodPost, "/todos", in, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo replaces the editable fields of todo id.
func (c *Client) UpdateTodo(ctx context.Context, id int64, in model.TodoInput) (*model.Todo, error) {
	var todo model.Todo
	if err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/todos/%d", id), in, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo deletes todo id.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.Call(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}

// ToggleComplete flips the completion state of todo id server-side.
func (c *Client) ToggleComplete(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/todos/%d/complete", id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// TodoStats returns aggregate counts, scoped to userID when non-nil.
func (c *Client) TodoStats(ctx context.Context, userID *int64) (*model.Stats, error) {
	v := url.Values{}
	if userID != nil {
		v.Set("user_id", strconv.FormatInt(*userID, 10))
	}
	var stats model.Stats
	if err := c.Call(ctx, http.MethodGet, withQuery("/todos/stats", v), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// === Notifications ===

// ListNotifications returns the notifications of userID. With pendingOnly
// the backend filters to notifications not yet sent.
func (c *Client) ListNotifications(ctx context.Context, userID int64, pendingOnly bool) ([]model.Notification, error) {
	v := url.Values{}
	v.Set("user_id", strconv.FormatInt(userID, 10))
	v.Set("pending_only", strconv.FormatBool(pendingOnly))

	var notifications []model.Notification
	if err := c.Call(ctx, http.MethodGet, withQuery("/notifications", v), nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks notification id as sent.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.Call(ctx, http.MethodPost, fmt.Sprintf("/notifications/%d/mark-read", id), nil, nil)
}

// CheckDueResult is the response of POST /notifications/check-due.
type CheckDueResult struct {
	Message string `json:"message"`
}

// CheckDue asks the backend to scan for due todos and queue reminders.
func (c *Client) CheckDue(ctx context.Context) (*CheckDueResult, error) {
	var res CheckDueResult
	if err := c.Call(ctx, http.MethodPost, "/notifications/check-due", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

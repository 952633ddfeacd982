package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// Request is a request observed by the fake backend.
type Request struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]interface{}
}

// failure is a canned error response for a method+path pair.
type failure struct {
	status  int
	message string
}

// Backend is an in-memory stand-in for the todo REST API. It implements the
// subset of endpoint semantics the client depends on: filtering with AND
// semantics, newest-first ordering, toggle-complete and notification
// generation on every mutation.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	nextID        int64
	users         []model.User
	todos         []model.Todo
	notifications []model.Notification
	requests      []Request
	failures      map[string]failure
}

// NewBackend starts a fake backend and closes it when the test completes.
// Its API root is Backend.URL().
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{nextID: 1, failures: make(map[string]failure)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API root of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Fail makes every subsequent request to method+path answer with status
// and an {"error": message} body until Recover is called.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover clears all injected failures.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// Requests returns a copy of the requests observed so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsTo returns the observed requests matching method and path.
func (b *Backend) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// AddUser seeds a user and returns it.
func (b *Backend) AddUser(username, email string) model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := model.User{
		ID:                          b.id(),
		Username:                    username,
		Email:                       email,
		EmailNotificationsEnabled:   true,
		BrowserNotificationsEnabled: true,
		CreatedAt:                   model.NewTimestamp(time.Now().UTC()),
	}
	b.users = append(b.users, u)
	return u
}

// AddTodo seeds a todo and returns it with its assigned ID.
func (b *Backend) AddTodo(t model.Todo) model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.id()
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t.CreatedAt = model.NewTimestamp(time.Now().UTC().Add(time.Duration(t.ID) * time.Millisecond))
	t.UpdatedAt = t.CreatedAt
	b.todos = append(b.todos, t)
	return t
}

// AddNotification seeds a notification and returns it.
func (b *Backend) AddNotification(userID int64, message string, sent bool) model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := model.Notification{
		ID:        b.id(),
		UserID:    userID,
		Message:   message,
		Type:      "both",
		Sent:      sent,
		CreatedAt: model.NewTimestamp(time.Now().UTC()),
	}
	b.notifications = append(b.notifications, n)
	return n
}

// Todos returns a copy of the stored todos.
func (b *Backend) Todos() []model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Todo, len(b.todos))
	copy(out, b.todos)
	return out
}

// Users returns a copy of the stored users.
func (b *Backend) Users() []model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.User, len(b.users))
	copy(out, b.users)
	return out
}

// EditUser changes a stored user in place, as another client would.
func (b *Backend) EditUser(id int64, edit func(u *model.User)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			edit(&b.users[i])
		}
	}
}

// Notifications returns a copy of the stored notifications.
func (b *Backend) Notifications() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Notification, len(b.notifications))
	copy(out, b.notifications)
	return out
}

func (b *Backend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	rec := Request{Method: r.Method, Path: path, Query: r.URL.Query()}
	if r.Body != nil {
		var body map[string]interface{}
		if json.NewDecoder(r.Body).Decode(&body) == nil {
			rec.Body = body
		}
	}
	b.requests = append(b.requests, rec)

	if f, ok := b.failures[r.Method+" "+path]; ok {
		writeJSON(w, f.status, map[string]string{"error": f.message})
		return
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case parts[0] == "users":
		b.serveUsers(w, r.Method, parts, rec.Body)
	case parts[0] == "todos":
		b.serveTodos(w, r, parts, rec.Body)
	case parts[0] == "notifications":
		b.serveNotifications(w, r, parts)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (b *Backend) serveUsers(w http.ResponseWriter, method string, parts []string, body map[string]interface{}) {
	switch {
	case len(parts) == 1 && method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.users)
	case len(parts) == 1 && method == http.MethodPost:
		username, _ := body["username"].(string)
		email, _ := body["email"].(string)
		if username == "" || email == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and email are required"})
			return
		}
		u := model.User{
			ID:                          b.id(),
			Username:                    username,
			Email:                       email,
			EmailNotificationsEnabled:   boolOr(body, "email_notifications_enabled", true),
			BrowserNotificationsEnabled: boolOr(body, "browser_notifications_enabled", true),
			CreatedAt:                   model.NewTimestamp(time.Now().UTC()),
		}
		b.users = append(b.users, u)
		writeJSON(w, http.StatusCreated, u)
	case len(parts) == 2:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		for i := range b.users {
			if b.users[i].ID != id {
				continue
			}
			if method == http.MethodPut {
				u := &b.users[i]
				if v, ok := body["username"].(string); ok {
					u.Username = v
				}
				if v, ok := body["email"].(string); ok {
					u.Email = v
				}
				u.EmailNotificationsEnabled = boolOr(body, "email_notifications_enabled", u.EmailNotificationsEnabled)
				u.BrowserNotificationsEnabled = boolOr(body, "browser_notifications_enabled", u.BrowserNotificationsEnabled)
			}
			writeJSON(w, http.StatusOK, b.users[i])
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func (b *Backend) serveTodos(w http.ResponseWriter, r *http.Request, parts []string, body map[string]interface{}) {
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.filterTodos(r.URL.Query()))
	case len(parts) == 2 && parts[1] == "stats":
		writeJSON(w, http.StatusOK, b.stats(r.URL.Query()))
	case len(parts) == 1 && r.Method == http.MethodPost:
		title, ok := body["title"].(string)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title is required"})
			return
		}
		t := model.Todo{ID: b.id(), Title: title, Priority: model.PriorityMedium, Tags: []string{}}
		applyTodoBody(&t, body)
		t.CreatedAt = model.NewTimestamp(time.Now().UTC().Add(time.Duration(t.ID) * time.Millisecond))
		t.UpdatedAt = t.CreatedAt
		b.todos = append(b.todos, t)
		b.notify(t, "created")
		writeJSON(w, http.StatusCreated, t)
	case len(parts) >= 2:
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		idx := -1
		for i := range b.todos {
			if b.todos[i].ID == id {
				idx = i
			}
		}
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Todo not found"})
			return
		}
		switch {
		case len(parts) == 3 && parts[2] == "complete" && r.Method == http.MethodPost:
			b.todos[idx].Completed = !b.todos[idx].Completed
			b.notify(b.todos[idx], "completed")
			writeJSON(w, http.StatusOK, b.todos[idx])
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, b.todos[idx])
		case r.Method == http.MethodPut:
			applyTodoBody(&b.todos[idx], body)
			b.notify(b.todos[idx], "updated")
			writeJSON(w, http.StatusOK, b.todos[idx])
		case r.Method == http.MethodDelete:
			t := b.todos[idx]
			b.todos = append(b.todos[:idx], b.todos[idx+1:]...)
			t.Title = "Deleted Todo"
			b.notify(t, "deleted")
			writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		}
	}
}

func (b *Backend) serveNotifications(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		q := r.URL.Query()
		userID, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
		if err != nil || userID == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
			return
		}
		pendingOnly := strings.EqualFold(q.Get("pending_only"), "true")
		out := []model.Notification{}
		for _, n := range b.notifications {
			if n.UserID != userID || (pendingOnly && n.Sent) {
				continue
			}
			out = append(out, n)
		}
		writeJSON(w, http.StatusOK, out)
	case len(parts) == 2 && parts[1] == "check-due":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":            "Checked due todos, 0 notifications sent",
			"notifications_sent": []interface{}{},
		})
	case len(parts) == 3 && parts[2] == "mark-read":
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		for i := range b.notifications {
			if b.notifications[i].ID == id {
				b.notifications[i].Sent = true
				now := model.NewTimestamp(time.Now().UTC())
				b.notifications[i].SentAt = &now
				writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Notification not found"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (b *Backend) filterTodos(q map[string][]string) []model.Todo {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	out := []model.Todo{}
	for _, t := range b.todos {
		if c := get("completed"); c != "" && t.Completed != strings.EqualFold(c, "true") {
			continue
		}
		if p := get("priority"); p != "" && string(t.Priority) != p {
			continue
		}
		if c := get("category"); c != "" && t.CategoryName() != c {
			continue
		}
		if s := get("search"); s != "" && !strings.Contains(t.Title, s) && !strings.Contains(t.Description, s) {
			continue
		}
		if u := get("user_id"); u != "" {
			id, _ := strconv.ParseInt(u, 10, 64)
			if t.UserID == nil || *t.UserID != id {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

func (b *Backend) stats(q map[string][]string) model.Stats {
	var s model.Stats
	for _, t := range b.filterTodos(map[string][]string{"user_id": q["user_id"]}) {
		s.Total++
		if t.Completed {
			s.Completed++
			continue
		}
		switch t.Priority {
		case model.PriorityHigh:
			s.HighPriority++
		case model.PriorityMedium:
			s.MediumPriority++
		case model.PriorityLow:
			s.LowPriority++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// notify mirrors the backend's notification service: every mutation of an
// owned todo queues a pending notification for the owner.
func (b *Backend) notify(t model.Todo, kind string) {
	if t.UserID == nil {
		return
	}
	id := t.ID
	b.notifications = append(b.notifications, model.Notification{
		ID:        b.id(),
		TodoID:    &id,
		UserID:    *t.UserID,
		Message:   fmt.Sprintf("Todo %s: %s", kind, t.Title),
		Type:      "both",
		CreatedAt: model.NewTimestamp(time.Now().UTC()),
	})
}

func applyTodoBody(t *model.Todo, body map[string]interface{}) {
	if v, ok := body["title"].(string); ok {
		t.Title = v
	}
	if v, ok := body["description"].(string); ok {
		t.Description = v
	}
	if v, ok := body["priority"].(string); ok {
		t.Priority = model.Priority(v)
	}
	if v, ok := body["category"]; ok {
		if s, isStr := v.(string); isStr {
			t.Category = &s
		} else {
			t.Category = nil
		}
	}
	if v, ok := body["tags"].([]interface{}); ok {
		tags := make([]string, 0, len(v))
		for _, tag := range v {
			if s, isStr := tag.(string); isStr {
				tags = append(tags, s)
			}
		}
		t.Tags = tags
	}
	if v, ok := body["due_date"]; ok {
		if s, isStr := v.(string); isStr {
			if ts, err := model.ParseTimestamp(s); err == nil {
				// The backend stores the UTC wall clock without a zone and
				// hands it back naive, so clients read it as local time.
				u := ts.UTC()
				naive := model.NewTimestamp(time.Date(u.Year(), u.Month(), u.Day(),
					u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.Local))
				t.DueDate = &naive
			}
		} else {
			t.DueDate = nil
		}
	}
	if v, ok := body["user_id"].(float64); ok {
		id := int64(v)
		t.UserID = &id
	}
}

func boolOr(body map[string]interface{}, key string, fallback bool) bool {
	if v, ok := body[key].(bool); ok {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

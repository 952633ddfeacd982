package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_DecodesBackendFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-01-02T03:04:05"`, want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)},
		{in: `"2024-01-02T03:04:05.123456"`, want: time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.Local)},
		{in: `"2024-01-02T03:04:05Z"`, want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: `"2024-01-02"`, want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestTimestamp_NaiveValuesAreLocalWallClock(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("EST", -5*60*60)
	t.Cleanup(func() { time.Local = saved })

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T00:00:00"`), &ts))
	y, m, d := ts.In(time.Local).Date()
	assert.Equal(t, []int{2024, 6, 1}, []int{y, int(m), d})
	assert.Equal(t, 0, ts.In(time.Local).Hour())

	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T00:00:00Z"`), &ts))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), ts.UTC())
}

func TestTodo_NullableFields(t *testing.T) {
	var todo Todo
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 3, "title": "t", "description": null, "priority": "high",
		"due_date": null, "category": null, "tags": ["a"], "completed": false,
		"user_id": null, "created_at": "2024-01-02T03:04:05", "updated_at": "2024-01-02T03:04:05"
	}`), &todo))

	assert.Equal(t, int64(3), todo.ID)
	assert.Nil(t, todo.DueDate)
	assert.Equal(t, "", todo.CategoryName())
	assert.Nil(t, todo.UserID)
	assert.Equal(t, []string{"a"}, todo.Tags)
}

func TestTodoInput_DueDateEncodesAsUTC(t *testing.T) {
	due := NewTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	data, err := json.Marshal(TodoInput{Title: "t", Priority: PriorityLow, Tags: []string{}, DueDate: &due})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"due_date":"2024-06-01T00:00:00Z"`)
	assert.Contains(t, string(data), `"category":null`)
	assert.NotContains(t, string(data), "user_id")
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority(" HIGH ")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	assert.False(t, ok)
}

func TestFilterSet_Summary(t *testing.T) {
	tests := []struct {
		name string
		f    FilterSet
		want string
	}{
		{name: "none", f: FilterSet{}, want: "All todos"},
		{name: "completed", f: FilterSet{Completion: CompletionCompleted}, want: "Completed"},
		{
			name: "all fields",
			f:    FilterSet{Completion: CompletionPending, Priority: PriorityHigh, Category: "work", Search: "milk"},
			want: `Pending · Priority: high · Category: work · Search: "milk"`,
		},
		{name: "category only", f: FilterSet{Category: "home"}, want: "Category: home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Summary())
			assert.Equal(t, tt.name == "none", tt.f.IsZero())
		})
	}
}

func TestCompletion_Bool(t *testing.T) {
	assert.Nil(t, CompletionAny.Bool())
	assert.True(t, *CompletionCompleted.Bool())
	assert.False(t, *CompletionPending.Bool())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.Poll.IntervalSec)
	assert.Equal(t, 3, cfg.Display.NoticeSec)
	assert.Equal(t, "workshop_user", cfg.User.Username)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://example.test/api/\npoll:\n  interval_sec: 0\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.Poll.IntervalSec)

	t.Setenv("TODO_API_BASE_URL", "http://env.test/api")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.test/api", cfg.API.BaseURL)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.API.BaseURL = "http://saved.test/api"
	cfg.User.Username = "alice"

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.test/api", loaded.API.BaseURL)
	assert.Equal(t, "alice", loaded.User.Username)
}

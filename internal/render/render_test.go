package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/model"
)

func TestCards_PendingTodosOfferComplete(t *testing.T) {
	todos := []model.Todo{
		{ID: 1, Title: "a", Priority: model.PriorityHigh},
		{ID: 2, Title: "b", Priority: model.PriorityHigh},
	}

	cards := Cards(todos)
	require.Len(t, cards, 2)
	for i, c := range cards {
		assert.Equal(t, todos[i].ID, c.ID)
		assert.Equal(t, []string{"Complete", "Edit", "Delete"}, c.ActionLabels())
		for _, a := range c.Actions {
			assert.Equal(t, c.ID, a.TodoID)
		}
	}
}

func TestCards_CompletedTodoOffersUndo(t *testing.T) {
	cards := Cards([]model.Todo{{ID: 3, Completed: true}})
	require.Len(t, cards, 1)
	assert.Equal(t, "Undo", cards[0].Actions[0].Label)
	assert.Equal(t, ActionToggle, cards[0].Actions[0].Kind)
}

func TestCards_EmptySnapshot(t *testing.T) {
	assert.Empty(t, Cards(nil))
	assert.Empty(t, Cards([]model.Todo{}))
	assert.Equal(t, "No todos found", Empty.Title)
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, NoDueDate, DueLabel(nil))

	local := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local)
	ts := model.NewTimestamp(local.UTC())
	assert.Equal(t, "Mar 5, 2024", DueLabel(&ts))
}

func TestDueLabel_NaiveDateWestOfUTC(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("EST", -5*60*60)
	t.Cleanup(func() { time.Local = saved })

	var todo model.Todo
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"t","priority":"low","due_date":"2024-06-01T00:00:00"}`), &todo))
	assert.Equal(t, "Jun 1, 2024", DueLabel(todo.DueDate))
}

func TestNewCard_CategoryAndTags(t *testing.T) {
	cat := "work"
	tags := []string{"x", "y"}
	c := NewCard(model.Todo{ID: 1, Category: &cat, Tags: tags})
	assert.Equal(t, "work", c.Category)
	assert.Equal(t, []string{"x", "y"}, c.Tags)

	tags[0] = "changed"
	assert.Equal(t, "x", c.Tags[0])

	assert.Equal(t, "", NewCard(model.Todo{}).Category)
}

func TestWriteHTML_EscapesUserText(t *testing.T) {
	cat := `"><img src=x onerror=alert(1)>`
	cards := Cards([]model.Todo{{
		ID:          1,
		Title:       "<script>alert(1)</script>",
		Description: "a & b",
		Priority:    model.PriorityLow,
		Category:    &cat,
		Tags:        []string{"<b>bold</b>"},
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, cards))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, out, "a &amp; b")
}

func TestWriteHTML_CompletedMarker(t *testing.T) {
	out, err := HTML(Cards([]model.Todo{{ID: 1, Title: "done", Completed: true}}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "(Completed)")
	assert.Contains(t, string(out), NoDueDate)
	assert.NotContains(t, string(out), "todo-tags")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Buy milk", want: "Buy milk"},
		{name: "color escape", in: "\x1b[31mred\x1b[0m", want: "red"},
		{name: "newline", in: "a\nb", want: "a b"},
		{name: "bell", in: "a\x07b", want: "ab"},
		{name: "markup untouched", in: "<script>", want: "<script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
	assert.Equal(t, []string{"x y"}, SanitizeAll([]string{"x\ty"}))
	assert.Nil(t, SanitizeAll(nil))
}

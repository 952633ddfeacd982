package todolist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/render"
	"github.com/nhle/todo-client/internal/theme"
)

// maxTags is how many tags a row shows before eliding the rest.
const maxTags = 3

// CardItem wraps a render.Card so it can be used in a bubbles/list.
type CardItem struct {
	Card render.Card
}

// FilterValue returns the string used for fuzzy filtering.
func (i CardItem) FilterValue() string { return i.Card.Title }

// Title returns the sanitized card title.
func (i CardItem) Title() string { return render.Sanitize(i.Card.Title) }

// Description returns the sanitized meta line: due date, category and tags.
func (i CardItem) Description() string {
	parts := []string{i.Card.DueLabel}
	if i.Card.Category != "" {
		parts = append(parts, render.Sanitize(i.Card.Category))
	}
	if tags := tagLine(i.Card.Tags); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for todo cards.
type ItemDelegate struct {
	keys *keys.KeyMap
}

// Height returns the number of lines each card takes.
func (d ItemDelegate) Height() int { return 3 }

// Spacing returns the number of blank lines between cards.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single card.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CardItem)
	if !ok {
		return
	}
	c := ci.Card

	prefix := "○"
	if c.Completed {
		prefix = "✓"
	}

	priority := theme.PriorityStyle(c.Priority).Render(strings.ToUpper(render.Sanitize(string(c.Priority))))

	title := ci.Title()
	if c.Completed {
		title = theme.DimmedStyle.Render(title)
	}

	meta := theme.DueDateStyle.Render(c.DueLabel)
	if c.Category != "" {
		meta += " " + theme.CategoryStyle.Render(render.Sanitize(c.Category))
	}
	if tags := tagLine(c.Tags); tags != "" {
		meta += " " + theme.TagStyle.Render(tags)
	}
	if desc := render.Sanitize(c.Description); desc != "" {
		meta += " " + theme.MetaStyle.Render(truncate(desc, 60))
	}

	actions := theme.HelpStyle.Render(ActionLine(d.keys, c))

	line := fmt.Sprintf("%s %s %s\n  %s\n  %s", prefix, priority, title, meta, actions)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// ActionLine lists the card's actions with the key that triggers each, e.g.
// "[x] Complete  [e] Edit  [d] Delete".
func ActionLine(k *keys.KeyMap, c render.Card) string {
	if k == nil {
		k = keys.DefaultKeyMap()
	}
	parts := make([]string, 0, len(c.Actions))
	for _, a := range c.Actions {
		var hint string
		switch a.Kind {
		case render.ActionToggle:
			hint = k.Toggle.Help().Key
		case render.ActionEdit:
			hint = k.Edit.Help().Key
		case render.ActionDelete:
			hint = k.Delete.Help().Key
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", hint, a.Label))
	}
	return strings.Join(parts, "  ")
}

// tagLine renders tags as "#a #b", keeping at most maxTags of them.
func tagLine(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	display := render.SanitizeAll(tags)
	more := false
	if len(display) > maxTags {
		display = display[:maxTags]
		more = true
	}
	out := "#" + strings.Join(display, " #")
	if more {
		out += " …"
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

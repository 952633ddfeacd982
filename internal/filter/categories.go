package filter

import "github.com/nhle/todo-client/internal/model"

// Categories returns the unique non-empty categories present in todos, in
// order of first appearance. It reflects only the current (filtered)
// snapshot, not every category the backend knows.
func Categories(todos []model.Todo) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range todos {
		c := t.CategoryName()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// CategoryOptions is the category selector rebuilt from a snapshot.
// Options[0] is always "" (all categories).
type CategoryOptions struct {
	Options  []string
	Selected string
}

// NewCategoryOptions derives the options from todos and keeps selected,
// even when the selected category is absent from the snapshot.
func NewCategoryOptions(todos []model.Todo, selected string) CategoryOptions {
	return CategoryOptions{
		Options:  append([]string{""}, Categories(todos)...),
		Selected: selected,
	}
}

// Next returns the option after the selected one, wrapping around to "".
// A selected value missing from the options advances to "".
func (o CategoryOptions) Next() string {
	for i, opt := range o.Options {
		if opt == o.Selected {
			return o.Options[(i+1)%len(o.Options)]
		}
	}
	return ""
}

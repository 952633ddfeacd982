package model

import (
	"fmt"
	"strings"
)

// Completion is the tri-state completion filter.
type Completion int

const (
	CompletionAny Completion = iota
	CompletionCompleted
	CompletionPending
)

// String returns the label used in filter summaries.
func (c Completion) String() string {
	switch c {
	case CompletionCompleted:
		return "Completed"
	case CompletionPending:
		return "Pending"
	default:
		return "All"
	}
}

// Bool maps the completion filter to the optional "completed" query value.
// It returns nil for CompletionAny.
func (c Completion) Bool() *bool {
	var v bool
	switch c {
	case CompletionCompleted:
		v = true
	case CompletionPending:
		v = false
	default:
		return nil
	}
	return &v
}

// FilterSet is the set of criteria applied to every todo fetch.
// Empty strings mean "no filter" for Priority, Category and Search.
type FilterSet struct {
	Completion Completion
	Priority   Priority
	Category   string
	Search     string
}

// IsZero reports whether no filter is active.
func (f FilterSet) IsZero() bool {
	return f.Completion == CompletionAny &&
		f.Priority == "" &&
		f.Category == "" &&
		f.Search == ""
}

// summarySeparator joins the parts of a filter summary.
const summarySeparator = " · "

// Summary returns a one-line, human-readable description of the active
// filters, or "All todos" when none is active.
func (f FilterSet) Summary() string {
	var parts []string
	if f.Completion != CompletionAny {
		parts = append(parts, f.Completion.String())
	}
	if f.Priority != "" {
		parts = append(parts, fmt.Sprintf("Priority: %s", f.Priority))
	}
	if f.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", f.Category))
	}
	if f.Search != "" {
		parts = append(parts, `Search: "`+f.Search+`"`)
	}
	if len(parts) == 0 {
		return "All todos"
	}
	return strings.Join(parts, summarySeparator)
}

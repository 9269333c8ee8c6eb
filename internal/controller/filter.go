package controller

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterComplete Filter = "complete"
	FilterPending  Filter = "pending"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterComplete, FilterPending}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterComplete, FilterPending:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter: %s", s)
	}
}

// Label is the human-readable filter name.
func (f Filter) Label() string {
	switch f {
	case FilterComplete:
		return "Complete"
	case FilterPending:
		return "Pending"
	default:
		return "All"
	}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterComplete:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Apply returns the tasks visible under f, preserving order.
func Apply(tasks []Task, f Filter) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

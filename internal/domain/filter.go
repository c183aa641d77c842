package domain

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible. It never changes task data.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter normalizes a filter name. Blank input means FilterAll.
func ParseFilter(raw string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
}

// Matches reports whether a task is visible under the filter.
func (f Filter) Matches(task Task) bool {
	switch f {
	case FilterActive:
		return !task.Completed
	case FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for idx, candidate := range Filters {
		if candidate == f {
			return Filters[(idx+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Label returns the button caption.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// EmptyMessage returns the placeholder shown when nothing matches.
func (f Filter) EmptyMessage() string {
	switch f {
	case FilterActive:
		return "No active tasks"
	case FilterCompleted:
		return "No completed tasks"
	default:
		return "No tasks"
	}
}

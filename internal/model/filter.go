package model

import (
	"fmt"
	"strings"
)

// Filter is a view-level predicate over status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Match reports whether t belongs to the filtered subset.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterPending:
		return t.Status == StatusPending
	case FilterCompleted:
		return t.Status == StatusCompleted
	default:
		return true
	}
}

// Statuses is the server-side form of the filter. "all" asks for both
// statuses explicitly instead of sending an empty list.
func (f Filter) Statuses() []Status {
	switch f {
	case FilterPending:
		return []Status{StatusPending}
	case FilterCompleted:
		return []Status{StatusCompleted}
	default:
		return []Status{StatusCompleted, StatusPending}
	}
}

// Next cycles all -> pending -> completed -> all.
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Apply returns the subset of snapshot matched by f, keeping relative order.
// FilterAll returns the snapshot itself.
func Apply(f Filter, snapshot []Todo) []Todo {
	if f == FilterAll || f == "" {
		return snapshot
	}
	out := make([]Todo, 0, len(snapshot))
	for _, t := range snapshot {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

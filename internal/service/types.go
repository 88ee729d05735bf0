// Package service defines the task model and the interface the presentation
// layers use to drive the task store.
package service

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	ID          string
	Title       string
	Description string // empty means no description
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields is a partial update. Nil fields are left unchanged.
// ID and CreatedAt are immutable and have no counterpart here.
type Fields struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Completed == nil
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid filter: %s", s)
	}
	return f, nil
}

// Stats summarizes the whole collection, independent of the active filter.
type Stats struct {
	Total     int
	Completed int
	Active    int
}

// Count returns the number of tasks matching f.
func (s Stats) Count(f Filter) int {
	switch f {
	case FilterActive:
		return s.Active
	case FilterCompleted:
		return s.Completed
	default:
		return s.Total
	}
}

// Package filter narrows an in-memory todo collection by status and free-text search.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"gtodo/internal/service"
)

// Status selects todos by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Statuses lists every status in selector order.
var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

// ErrInvalidStatus is returned by ParseStatus for unknown values.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus parses a status name. Empty input means StatusAll.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StatusAll):
		return StatusAll, nil
	case string(StatusActive):
		return StatusActive, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: %s (expected all|active|completed)", ErrInvalidStatus, s)
	}
}

// Next returns the status after s in selector order, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusAll
}

// Match reports whether a todo passes the status predicate.
func (s Status) Match(t service.Todo) bool {
	switch s {
	case StatusActive:
		return t.IsActive
	case StatusCompleted:
		return !t.IsActive
	default:
		return true
	}
}

// State is the per-view filter state.
type State struct {
	Search string
	Status Status
}

// Apply filters items with the state's search and status.
func (st State) Apply(items []service.Todo) []service.Todo {
	return Apply(items, st.Search, st.Status)
}

// Apply narrows items by status first, then by case-insensitive title search.
// The result is always a new, non-nil slice.
func Apply(items []service.Todo, search string, status Status) []service.Todo {
	out := make([]service.Todo, 0, len(items))
	for _, t := range items {
		if status.Match(t) {
			out = append(out, t)
		}
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return out
	}

	n := 0
	for _, t := range out {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out[n] = t
			n++
		}
	}
	return out[:n]
}

package task

import (
	"errors"
	"fmt"
	"strings"
)

// FilterMode names a view restricting which tasks are visible.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// ErrInvalidFilterMode is returned for any mode other than all/active/completed.
var ErrInvalidFilterMode = errors.New("invalid filter mode")

// FilterModes returns the recognized modes in display order.
func FilterModes() []FilterMode {
	return []FilterMode{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilterMode validates a mode name. An empty name means FilterAll.
// Unrecognized names are rejected rather than defaulted.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("%w %q (want all, active, or completed)", ErrInvalidFilterMode, s)
}

// Completable is anything that carries a completion flag.
type Completable interface {
	IsCompleted() bool
}

// Includes reports whether a task with the given completion flag is visible in this mode.
func (m FilterMode) Includes(completed bool) bool {
	switch m {
	case FilterActive:
		return !completed
	case FilterCompleted:
		return completed
	default:
		return true
	}
}

// VisibleTasks returns the subset of tasks visible under mode, in the original order.
// The input slice is never modified.
func VisibleTasks[T Completable](tasks []T, mode FilterMode) []T {
	visible := make([]T, 0, len(tasks))
	for _, t := range tasks {
		if mode.Includes(t.IsCompleted()) {
			visible = append(visible, t)
		}
	}
	return visible
}

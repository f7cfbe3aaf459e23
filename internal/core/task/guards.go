// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	Text string // raw input, before trimming
}

// EditTaskContext provides context for task edit guards.
type EditTaskContext struct {
	TaskID int64
	Text   string // raw replacement text, before trimming
}

// NormalizeText trims surrounding whitespace from task text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Text must not be blank after trimming
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if NormalizeText(ctx.Text) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "task text must not be blank",
		}
	}

	return GuardResult{Allowed: true}
}

// CanEditTask evaluates whether a task's text can be replaced.
// Rules:
// - Replacement text must not be blank after trimming (same rule as create)
func CanEditTask(ctx EditTaskContext) GuardResult {
	if NormalizeText(ctx.Text) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot set blank text on task %d", ctx.TaskID),
		}
	}

	return GuardResult{Allowed: true}
}

// NextID allocates a task ID from the current wall-clock milliseconds and the
// highest ID already in the collection. IDs stay time-derived but are strictly
// increasing, so two creates within the same millisecond never collide.
func NextID(nowMillis, maxID int64) int64 {
	if nowMillis > maxID {
		return nowMillis
	}
	return maxID + 1
}

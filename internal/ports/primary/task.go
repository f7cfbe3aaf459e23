package primary

import (
	"context"
	"time"
)

// TaskService defines the primary port for task operations.
// Mutating operations return the snapshot of the collection after the change.
type TaskService interface {
	// Load reads the persisted collection into memory.
	Load(ctx context.Context) (*Snapshot, error)

	// CreateTask appends a new task. Blank text is a silent no-op.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID int64) (*Task, error)

	// ListTasks lists tasks visible under the given filters.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// ToggleTask flips a task's completed flag.
	ToggleTask(ctx context.Context, taskID int64) (*Snapshot, error)

	// EditTask replaces a task's text.
	EditTask(ctx context.Context, req EditTaskRequest) (*Snapshot, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID int64) (*Snapshot, error)

	// ClearCompleted removes every completed task.
	ClearCompleted(ctx context.Context) (*Snapshot, error)

	// Stats returns counts derived from the current collection.
	Stats(ctx context.Context) TaskStats

	// Snapshot returns the collection and its counts from a single read.
	Snapshot(ctx context.Context) Snapshot

	// SetFilter changes the current filter mode.
	SetFilter(mode string) error

	// Filter returns the current filter mode.
	Filter() string

	// VisibleTasks returns the tasks visible under the current filter mode.
	VisibleTasks(ctx context.Context) []*Task

	// Subscribe registers fn to receive the snapshot after every mutation.
	// Snapshots arrive in commit order; one already superseded by a newer
	// delivered snapshot is skipped. The returned function cancels the subscription.
	Subscribe(fn func(Snapshot)) (cancel func())
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	Text string
}

// CreateTaskResponse contains the result of creating a task.
// Created is false when the text was blank and nothing was added.
type CreateTaskResponse struct {
	Created  bool
	Task     *Task
	Snapshot Snapshot
}

// EditTaskRequest contains parameters for editing a task.
type EditTaskRequest struct {
	TaskID int64
	Text   string
}

// Task represents a task entity at the port boundary.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
}

// IsCompleted reports the completion flag.
func (t *Task) IsCompleted() bool {
	return t.Completed
}

// TaskStats holds derived counts.
type TaskStats struct {
	Total     int
	Active    int
	Completed int
}

// Snapshot is the full collection plus derived counts at a point in time.
// Version increases with every committed change, so a later snapshot always
// carries a higher Version.
type Snapshot struct {
	Version uint64
	Tasks   []*Task
	Stats   TaskStats
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Mode string // all, active, completed; empty uses the current mode
}

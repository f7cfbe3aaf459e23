package secondary

import (
	"context"
	"time"
)

// ActivityLog stores the history of changes made to individual tasks.
type ActivityLog interface {
	// Append persists records in order, assigning each an ID.
	Append(ctx context.Context, records []*ActivityRecord) error

	// List returns records matching filters, newest first.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)

	// PruneOlderThan deletes records created before cutoff and returns how many went.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ActivityRecord is one change to one task.
type ActivityRecord struct {
	ID        int64
	TaskID    int64
	Action    string // create, complete, reopen, edit, delete
	OldValue  string
	NewValue  string
	TraceID   string // correlation or request ID of the command that made the change
	CreatedAt time.Time
}

// ActivityFilters contains filter options for listing activity.
type ActivityFilters struct {
	TaskID int64 // 0 means all tasks
	Limit  int   // 0 means no limit
}

package primary

import (
	"context"
	"time"
)

// ActivityService defines the primary port for reading the task change history.
type ActivityService interface {
	// ListActivity retrieves entries matching the given filters, newest first.
	ListActivity(ctx context.Context, filters ActivityFilters) ([]*ActivityEntry, error)

	// PruneActivity deletes entries older than the specified number of days.
	PruneActivity(ctx context.Context, olderThanDays int) (int, error)
}

// ActivityEntry represents one task change at the port boundary.
type ActivityEntry struct {
	ID        int64
	TaskID    int64
	Action    string
	OldValue  string
	NewValue  string
	TraceID   string
	CreatedAt time.Time
}

// ActivityFilters contains filter options for querying activity.
type ActivityFilters struct {
	TaskID int64
	Limit  int
}

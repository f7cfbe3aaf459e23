package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/ports/secondary"
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	log secondary.ActivityLog
	now func() time.Time
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(log secondary.ActivityLog) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		log: log,
		now: time.Now,
	}
}

// ListActivity retrieves entries matching the given filters.
func (s *ActivityServiceImpl) ListActivity(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error) {
	records, err := s.log.List(ctx, secondary.ActivityFilters{
		TaskID: filters.TaskID,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	entries := make([]*primary.ActivityEntry, len(records))
	for i, r := range records {
		entries[i] = recordToActivityEntry(r)
	}
	return entries, nil
}

// PruneActivity deletes entries older than the specified number of days.
func (s *ActivityServiceImpl) PruneActivity(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 0 {
		return 0, fmt.Errorf("days must not be negative, got %d", olderThanDays)
	}
	cutoff := s.now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.log.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}
	return n, nil
}

func recordToActivityEntry(r *secondary.ActivityRecord) *primary.ActivityEntry {
	return &primary.ActivityEntry{
		ID:        r.ID,
		TaskID:    r.TaskID,
		Action:    r.Action,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		TraceID:   r.TraceID,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure ActivityServiceImpl implements the interface
var _ primary.ActivityService = (*ActivityServiceImpl)(nil)

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// ActivityLog implements secondary.ActivityLog with a slice.
type ActivityLog struct {
	mu      sync.RWMutex
	records []secondary.ActivityRecord
	nextID  int64
}

// NewActivityLog creates an empty in-memory activity log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{nextID: 1}
}

// Append stores copies of records, assigning IDs.
func (l *ActivityLog) Append(ctx context.Context, records []*secondary.ActivityRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range records {
		r.ID = l.nextID
		l.nextID++
		l.records = append(l.records, *r)
	}
	return nil
}

// List returns matching records, newest first.
func (l *ActivityLog) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*secondary.ActivityRecord
	for i := len(l.records) - 1; i >= 0; i-- {
		r := l.records[i]
		if filters.TaskID != 0 && r.TaskID != filters.TaskID {
			continue
		}
		out = append(out, &r)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

// PruneOlderThan drops records created before cutoff.
func (l *ActivityLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.records[:0]
	for _, r := range l.records {
		if !r.CreatedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	pruned := len(l.records) - len(kept)
	l.records = kept
	return pruned, nil
}

var _ secondary.ActivityLog = (*ActivityLog)(nil)

package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// Ensure mockKeyValueStore implements the interface
var _ secondary.KeyValueStore = (*mockKeyValueStore)(nil)

// mockKeyValueStore implements secondary.KeyValueStore for testing.
type mockKeyValueStore struct {
	values map[string]string
	getErr error
	setErr error

	// Track writes for verification
	setCalls []string
}

func newMockKeyValueStore() *mockKeyValueStore {
	return &mockKeyValueStore{
		values: make(map[string]string),
	}
}

func (m *mockKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", secondary.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKeyValueStore) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.setCalls = append(m.setCalls, value)
	return nil
}

func (m *mockKeyValueStore) Close() error {
	return nil
}

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepClock returns a clock that starts at base and advances by step on every call.
func stepClock(base time.Time, step time.Duration) func() time.Time {
	current := base
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

var testBaseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// newTestTaskService creates a TaskServiceImpl over a mock store with a deterministic clock.
func newTestTaskService() (*TaskServiceImpl, *mockKeyValueStore) {
	store := newMockKeyValueStore()
	svc := NewTaskService(store, "", discardLogger(), WithClock(stepClock(testBaseTime, time.Second)))
	return svc, store
}

// mockActivityLog implements secondary.ActivityLog for testing.
type mockActivityLog struct {
	appended  []*secondary.ActivityRecord
	appendErr error
	listed    []*secondary.ActivityRecord
	lastList  secondary.ActivityFilters
	cutoff    time.Time
}

func (m *mockActivityLog) Append(ctx context.Context, records []*secondary.ActivityRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, records...)
	return nil
}

func (m *mockActivityLog) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	m.lastList = filters
	return m.listed, nil
}

func (m *mockActivityLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.cutoff = cutoff
	return 2, nil
}

var _ secondary.ActivityLog = (*mockActivityLog)(nil)

// blockingActivityLog holds its first Append until release is closed.
type blockingActivityLog struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingActivityLog() *blockingActivityLog {
	return &blockingActivityLog{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingActivityLog) Append(ctx context.Context, records []*secondary.ActivityRecord) error {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-b.release
	}
	return nil
}

func (b *blockingActivityLog) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	return nil, nil
}

func (b *blockingActivityLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

var _ secondary.ActivityLog = (*blockingActivityLog)(nil)

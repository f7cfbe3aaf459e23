package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/ports/secondary"
)

// isoMillis matches the ISO-8601 form produced by browsers (2024-05-01T09:30:00.000Z).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// taskRecord is the persisted shape of a task.
type taskRecord struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// encodeTasks serializes the full collection as a JSON array.
func encodeTasks(tasks []*primary.Task) (string, error) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = taskRecord{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(isoMillis),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(data), nil
}

// storedRecord is taskRecord as read back. createdAt is kept raw so one bad
// timestamp cannot fail the whole collection.
type storedRecord struct {
	ID        int64           `json:"id"`
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// decodeTasks parses a persisted JSON array. A value that is not a task array
// fails as a whole. A record whose createdAt is missing or not an RFC 3339
// string is kept with a zero CreatedAt and counted in unreadable.
func decodeTasks(raw string) (tasks []*primary.Task, unreadable int, err error) {
	var records []storedRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks = make([]*primary.Task, 0, len(records))
	for _, r := range records {
		createdAt, ok := parseCreatedAt(r.CreatedAt)
		if !ok {
			unreadable++
		}
		tasks = append(tasks, &primary.Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			CreatedAt: createdAt,
		})
	}
	return tasks, unreadable, nil
}

func parseCreatedAt(raw json.RawMessage) (time.Time, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// InspectStoredTasks reports how many tasks are saved under key without
// loading them into a service. A missing key counts as zero; unreadable data
// is returned as an error instead of being discarded.
func InspectStoredTasks(ctx context.Context, store secondary.KeyValueStore, key string) (int, error) {
	if key == "" {
		key = DefaultStorageKey
	}
	raw, err := store.Get(ctx, key)
	if errors.Is(err, secondary.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read tasks: %w", err)
	}
	tasks, _, err := decodeTasks(raw)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasktracker/internal/ports/primary"
)

func TestEncodeTasks_BrowserCompatibleFormat(t *testing.T) {
	tasks := []*primary.Task{
		{ID: 1710408600000, Text: "Buy milk", Completed: false, CreatedAt: time.Date(2024, 3, 14, 9, 30, 0, 123000000, time.UTC)},
	}

	raw, err := encodeTasks(tasks)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1710408600000,"text":"Buy milk","completed":false,"createdAt":"2024-03-14T09:30:00.123Z"}]`, raw)
}

func TestEncodeTasks_EmptyIsArray(t *testing.T) {
	raw, err := encodeTasks(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodeTasks_NonUTCOffset(t *testing.T) {
	tasks, unreadable, err := decodeTasks(`[{"id":7,"text":"x","completed":true,"createdAt":"2024-03-14T10:30:00.000+01:00"}]`)

	require.NoError(t, err)
	assert.Zero(t, unreadable)
	require.Len(t, tasks, 1)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), tasks[0].CreatedAt)
}

func TestDecodeTasks_BadCreatedAtKeepsRecord(t *testing.T) {
	raw := `[
		{"id":1,"text":"kept","completed":false,"createdAt":"2024-03-14T09:30:00.000Z"},
		{"id":2,"text":"no timestamp","completed":true},
		{"id":3,"text":"bad timestamp","completed":false,"createdAt":"yesterday"},
		{"id":4,"text":"numeric timestamp","completed":false,"createdAt":1710408600000}
	]`

	tasks, unreadable, err := decodeTasks(raw)

	require.NoError(t, err)
	assert.Equal(t, 3, unreadable)
	require.Len(t, tasks, 4)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), tasks[0].CreatedAt)
	for _, tk := range tasks[1:] {
		assert.True(t, tk.CreatedAt.IsZero(), "task %d", tk.ID)
	}
	assert.Equal(t, "no timestamp", tasks[1].Text)
	assert.True(t, tasks[1].Completed)
}

func TestDecodeTasks_NotAnArrayFails(t *testing.T) {
	for _, raw := range []string{"not json", `{"id":1}`, `[{"id":"x"}]`} {
		_, _, err := decodeTasks(raw)
		assert.Error(t, err, raw)
	}
}

func TestInspectStoredTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		n, err := InspectStoredTasks(ctx, newMockKeyValueStore(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("valid collection", func(t *testing.T) {
		store := newMockKeyValueStore()
		store.values[DefaultStorageKey] = `[{"id":1,"text":"a","completed":false,"createdAt":"2024-03-14T09:30:00.000Z"}]`
		n, err := InspectStoredTasks(ctx, store, DefaultStorageKey)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := newMockKeyValueStore()
		store.values["custom"] = `{"not":"an array"}`
		_, err := InspectStoredTasks(ctx, store, "custom")
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMockKeyValueStore()
		store.getErr = errors.New("connection refused")
		_, err := InspectStoredTasks(ctx, store, "")
		assert.ErrorContains(t, err, "connection refused")
	})
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasktracker/internal/ports/secondary"
)

func TestActivityLog_AppendAssignsIDsAndListsNewestFirst(t *testing.T) {
	log := NewActivityLog()
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	records := []*secondary.ActivityRecord{
		{TaskID: 1, Action: "create", NewValue: "A", CreatedAt: at},
		{TaskID: 2, Action: "create", NewValue: "B", CreatedAt: at},
		{TaskID: 1, Action: "complete", OldValue: "false", NewValue: "true", CreatedAt: at.Add(time.Second)},
	}
	require.NoError(t, log.Append(ctx, records))
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(3), records[2].ID)

	all, err := log.List(ctx, secondary.ActivityFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "complete", all[0].Action)
	assert.Equal(t, "B", all[1].NewValue)

	forTask, err := log.List(ctx, secondary.ActivityFilters{TaskID: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, forTask, 1)
	assert.Equal(t, int64(3), forTask[0].ID)
}

func TestActivityLog_ListReturnsCopies(t *testing.T) {
	log := NewActivityLog()
	ctx := context.Background()
	require.NoError(t, log.Append(ctx, []*secondary.ActivityRecord{{TaskID: 1, Action: "create", NewValue: "A"}}))

	first, err := log.List(ctx, secondary.ActivityFilters{})
	require.NoError(t, err)
	first[0].NewValue = "changed"

	second, err := log.List(ctx, secondary.ActivityFilters{})
	require.NoError(t, err)
	assert.Equal(t, "A", second[0].NewValue)
}

func TestActivityLog_PruneOlderThan(t *testing.T) {
	log := NewActivityLog()
	ctx := context.Background()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, log.Append(ctx, []*secondary.ActivityRecord{
		{TaskID: 1, Action: "create", CreatedAt: old},
		{TaskID: 2, Action: "create", CreatedAt: recent},
	}))

	n, err := log.PruneOlderThan(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := log.List(ctx, secondary.ActivityFilters{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].TaskID)
}

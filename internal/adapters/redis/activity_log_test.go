package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasktracker/internal/ports/secondary"
)

func TestActivityLog_Keys(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	l := NewActivityLog(client, "", DefaultBreakerConfig(), quietLogger())
	assert.Equal(t, "tasktracker:activity", l.setKey)
	assert.Equal(t, "tasktracker:activity:seq", l.seqKey)
}

func TestActivityLog_AppendEmptyIsNoOp(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	l := NewActivityLog(client, "", DefaultBreakerConfig(), quietLogger())

	assert.NoError(t, l.Append(context.Background(), nil))
}

func TestActivityLog_UnreachableServer(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	l := NewActivityLog(client, "", DefaultBreakerConfig(), quietLogger())
	ctx := context.Background()

	rec := &secondary.ActivityRecord{TaskID: 1, Action: "create"}
	err := l.Append(ctx, []*secondary.ActivityRecord{rec})
	assert.ErrorContains(t, err, "failed to append activity")
	assert.Zero(t, rec.ID)

	_, err = l.List(ctx, secondary.ActivityFilters{})
	assert.ErrorContains(t, err, "failed to list activity")
}

// TestActivityLog_LiveRedis runs only when TASKTRACKER_TEST_REDIS_URL points at a server.
func TestActivityLog_LiveRedis(t *testing.T) {
	url := os.Getenv("TASKTRACKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKTRACKER_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	kv, err := Dial(ctx, url, "", quietLogger())
	require.NoError(t, err)
	defer kv.Close()

	prefix := "tasktracker-test-" + time.Now().Format("150405.000000")
	l := NewActivityLog(kv.Client(), prefix, DefaultBreakerConfig(), quietLogger())
	defer kv.Client().Del(ctx, l.setKey, l.seqKey)

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	records := []*secondary.ActivityRecord{
		{TaskID: 1, Action: "create", NewValue: "A", CreatedAt: at},
		{TaskID: 2, Action: "create", NewValue: "B", CreatedAt: at},
		{TaskID: 1, Action: "delete", OldValue: "A", CreatedAt: at.Add(48 * time.Hour)},
	}
	require.NoError(t, l.Append(ctx, records))
	assert.Equal(t, []int64{1, 2, 3}, []int64{records[0].ID, records[1].ID, records[2].ID})

	all, err := l.List(ctx, secondary.ActivityFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID})

	forTask, err := l.List(ctx, secondary.ActivityFilters{TaskID: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, forTask, 2)

	n, err := l.PruneOlderThan(ctx, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestActivityLog_LiveRedisLimitWithTies runs only when TASKTRACKER_TEST_REDIS_URL points at a server.
func TestActivityLog_LiveRedisLimitWithTies(t *testing.T) {
	url := os.Getenv("TASKTRACKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKTRACKER_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	kv, err := Dial(ctx, url, "", quietLogger())
	require.NoError(t, err)
	defer kv.Close()

	prefix := "tasktracker-test-ties-" + time.Now().Format("150405.000000")
	l := NewActivityLog(kv.Client(), prefix, DefaultBreakerConfig(), quietLogger())
	defer kv.Client().Del(ctx, l.setKey, l.seqKey)

	// IDs 9 and 10 share a score; lexically {"id":9 sorts after {"id":10.
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	records := make([]*secondary.ActivityRecord, 10)
	for i := range records {
		records[i] = &secondary.ActivityRecord{TaskID: int64(i + 1), Action: "create", CreatedAt: at}
	}
	require.NoError(t, l.Append(ctx, records))

	newest, err := l.List(ctx, secondary.ActivityFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, int64(10), newest[0].ID)

	three, err := l.List(ctx, secondary.ActivityFilters{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 9, 8}, []int64{three[0].ID, three[1].ID, three[2].ID})
}

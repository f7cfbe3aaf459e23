package redis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasktracker/internal/ports/secondary"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableClient points at a port nothing listens on, with retries disabled.
func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNamespaceKey(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	s := NewKeyValueStore(client, "", DefaultBreakerConfig(), quietLogger())
	assert.Equal(t, "tasktracker:tasks", s.NamespaceKey("tasks"))

	custom := NewKeyValueStore(client, "site-a", DefaultBreakerConfig(), quietLogger())
	assert.Equal(t, "site-a:tasks", custom.NamespaceKey("tasks"))
}

func TestDial_InvalidURL(t *testing.T) {
	_, err := Dial(context.Background(), "not-a-url", "", quietLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	s := NewKeyValueStore(client, "", BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, quietLogger())
	ctx := context.Background()

	_, err := s.Get(ctx, "tasks")
	require.Error(t, err)
	assert.NotErrorIs(t, err, secondary.ErrKeyNotFound)

	err = s.Set(ctx, "tasks", "[]")
	require.Error(t, err)

	assert.Equal(t, gobreaker.StateOpen, s.BreakerState())

	_, err = s.Get(ctx, "tasks")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

// TestAgainstLiveRedis runs only when TASKTRACKER_TEST_REDIS_URL points at a server.
func TestAgainstLiveRedis(t *testing.T) {
	url := os.Getenv("TASKTRACKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKTRACKER_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	s, err := Dial(ctx, url, "tasktracker-test-"+time.Now().Format("150405.000000"), quietLogger())
	require.NoError(t, err)
	defer s.Close()
	defer s.client.Del(ctx, s.NamespaceKey("tasks"))

	_, err = s.Get(ctx, "tasks")
	assert.ErrorIs(t, err, secondary.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "tasks", `[]`))
	val, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, val)
	assert.Equal(t, gobreaker.StateClosed, s.BreakerState())
}

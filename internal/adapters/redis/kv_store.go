// Package redis provides a Redis implementation of the persistence ports.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// DefaultPrefix namespaces every key written by this store.
const DefaultPrefix = "tasktracker"

// BreakerConfig configures the circuit breaker in front of Redis.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the breaker settings used by Dial.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// KeyValueStore implements secondary.KeyValueStore on Redis strings.
// Keys are namespaced as {prefix}:{key}.
type KeyValueStore struct {
	client  *goredis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewKeyValueStore wraps an existing client.
func NewKeyValueStore(client *goredis.Client, prefix string, cfg BreakerConfig, logger *slog.Logger) *KeyValueStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &KeyValueStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}

	s.breaker = newBreaker[string]("redis-kv", cfg, logger)

	return s
}

// Dial parses a redis:// URL, connects, and verifies the server with PING.
func Dial(ctx context.Context, url, prefix string, logger *slog.Logger) (*KeyValueStore, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewKeyValueStore(client, prefix, DefaultBreakerConfig(), logger), nil
}

// Client returns the underlying client, for adapters that share the connection.
func (s *KeyValueStore) Client() *goredis.Client {
	return s.client
}

// NamespaceKey returns the fully-qualified Redis key for key.
func (s *KeyValueStore) NamespaceKey(key string) string {
	return s.prefix + ":" + key
}

// Get retrieves the value stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.breaker.Execute(func() (string, error) {
		v, err := s.client.Get(ctx, s.NamespaceKey(key)).Result()
		if errors.Is(err, goredis.Nil) {
			return "", secondary.ErrKeyNotFound
		}
		return v, err
	})
	if errors.Is(err, secondary.ErrKeyNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set overwrites the value stored under key, without expiration.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	_, err := s.breaker.Execute(func() (string, error) {
		return "", s.client.Set(ctx, s.NamespaceKey(key), value, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// BreakerState reports the current circuit breaker state.
func (s *KeyValueStore) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// Close closes the Redis client.
func (s *KeyValueStore) Close() error {
	return s.client.Close()
}

// newBreaker builds a breaker that trips after cfg.FailureThreshold consecutive
// failures. A missing key is a normal answer, not a failure.
func newBreaker[T any](name string, cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:    name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, secondary.ErrKeyNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

var _ secondary.KeyValueStore = (*KeyValueStore)(nil)

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/example/tasktracker/internal/ports/secondary"
)

// ActivityLog implements secondary.ActivityLog on a Redis sorted set scored
// by creation time in unix milliseconds. IDs come from a counter key.
type ActivityLog struct {
	client  *goredis.Client
	setKey  string
	seqKey  string
	breaker *gobreaker.CircuitBreaker[[]string]
}

type activityMember struct {
	ID        int64  `json:"id"`
	TaskID    int64  `json:"taskId"`
	Action    string `json:"action"`
	OldValue  string `json:"old,omitempty"`
	NewValue  string `json:"new,omitempty"`
	TraceID   string `json:"trace,omitempty"`
	CreatedAt int64  `json:"at"`
}

// NewActivityLog stores activity under {prefix}:activity using client.
func NewActivityLog(client *goredis.Client, prefix string, cfg BreakerConfig, logger *slog.Logger) *ActivityLog {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{
		client:  client,
		setKey:  prefix + ":activity",
		seqKey:  prefix + ":activity:seq",
		breaker: newBreaker[[]string]("redis-activity", cfg, logger),
	}
}

// Append reserves a block of IDs, then adds every record in one ZADD.
func (l *ActivityLog) Append(ctx context.Context, records []*secondary.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, err := l.breaker.Execute(func() ([]string, error) {
		last, err := l.client.IncrBy(ctx, l.seqKey, int64(len(records))).Result()
		if err != nil {
			return nil, err
		}
		first := last - int64(len(records)) + 1

		members := make([]goredis.Z, len(records))
		for i, r := range records {
			m := activityMember{
				ID:        first + int64(i),
				TaskID:    r.TaskID,
				Action:    r.Action,
				OldValue:  r.OldValue,
				NewValue:  r.NewValue,
				TraceID:   r.TraceID,
				CreatedAt: r.CreatedAt.UnixMilli(),
			}
			data, err := json.Marshal(m)
			if err != nil {
				return nil, err
			}
			members[i] = goredis.Z{Score: float64(m.CreatedAt), Member: string(data)}
		}
		if err := l.client.ZAdd(ctx, l.setKey, members...).Err(); err != nil {
			return nil, err
		}

		for i, r := range records {
			r.ID = first + int64(i)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// List returns matching records, newest first.
func (l *ActivityLog) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	raw, err := l.breaker.Execute(func() ([]string, error) {
		return l.fetch(ctx, filters)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	records := make([]*secondary.ActivityRecord, 0, len(raw))
	for _, item := range raw {
		var m activityMember
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}
		if filters.TaskID != 0 && m.TaskID != filters.TaskID {
			continue
		}
		records = append(records, &secondary.ActivityRecord{
			ID:        m.ID,
			TaskID:    m.TaskID,
			Action:    m.Action,
			OldValue:  m.OldValue,
			NewValue:  m.NewValue,
			TraceID:   m.TraceID,
			CreatedAt: time.UnixMilli(m.CreatedAt).UTC(),
		})
	}

	// Members sharing a score come back in lexical order; settle ties by ID.
	slices.SortStableFunc(records, func(a, b *secondary.ActivityRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	if filters.Limit > 0 && len(records) > filters.Limit {
		records = records[:filters.Limit]
	}
	return records, nil
}

// fetch reads the members List needs. Without a task filter only the newest
// Limit members are read, plus any sharing the oldest one's score, since ties
// come back in lexical order and are settled by ID afterwards.
func (l *ActivityLog) fetch(ctx context.Context, filters secondary.ActivityFilters) ([]string, error) {
	if filters.TaskID != 0 || filters.Limit <= 0 {
		return l.client.ZRevRange(ctx, l.setKey, 0, -1).Result()
	}

	top, err := l.client.ZRevRangeWithScores(ctx, l.setKey, 0, int64(filters.Limit-1)).Result()
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(top))
	seen := make(map[string]bool, len(top))
	for _, z := range top {
		m, _ := z.Member.(string)
		members = append(members, m)
		seen[m] = true
	}
	if len(top) < filters.Limit {
		return members, nil
	}

	edge := strconv.FormatFloat(top[len(top)-1].Score, 'f', -1, 64)
	tied, err := l.client.ZRangeByScore(ctx, l.setKey, &goredis.ZRangeBy{Min: edge, Max: edge}).Result()
	if err != nil {
		return nil, err
	}
	for _, m := range tied {
		if !seen[m] {
			members = append(members, m)
		}
	}
	return members, nil
}

// PruneOlderThan removes members scored before cutoff.
func (l *ActivityLog) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var removed int64
	_, err := l.breaker.Execute(func() ([]string, error) {
		n, err := l.client.ZRemRangeByScore(ctx, l.setKey, "-inf", "("+strconv.FormatInt(cutoff.UnixMilli(), 10)).Result()
		removed = n
		return nil, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}
	return int(removed), nil
}

var _ secondary.ActivityLog = (*ActivityLog)(nil)

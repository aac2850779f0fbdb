package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rickchristie/tasksolver"
)

// DefaultTTL is how long a session list lives after its last append.
const DefaultTTL = 7 * 24 * time.Hour

// RedisStore appends events as JSON to the list tasksolver:events:<session>.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a store on rdb. A non-positive ttl uses DefaultTTL.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return NewRedisStore(rdb, ttl), nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("tasksolver:events:%s", sessionID)
}

// Append pushes e to its session list and refreshes the list's TTL.
func (s *RedisStore) Append(ctx context.Context, e tasksolver.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	key := s.key(e.SessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append %s: %w", key, err)
	}
	return nil
}

// Load reads the session list.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*tasksolver.EventCollection, error) {
	key := s.key(sessionID)
	vals, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	events := make([]tasksolver.Event, 0, len(vals))
	for i, v := range vals {
		var e tasksolver.Event
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("load %s[%d]: %w", key, i, err)
		}
		events = append(events, e)
	}
	return collect(events)
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

var _ Store = (*RedisStore)(nil)

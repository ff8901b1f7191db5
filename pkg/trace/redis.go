package trace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "popover:trace:"
	redisIndexKey  = "popover:traces"
	redisIndexCap  = 1000
)

// RedisConfig configures the Redis-backed trace store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // zero means DefaultTTL
}

// RedisStore stores traces in Redis with TTL, sharing them across server
// instances. An index list keeps insertion order for List.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Put stores the trace and prepends its ID to the index list.
func (s *RedisStore) Put(ctx context.Context, tr *Trace) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+tr.ID, data, s.ttl)
	pipe.LPush(ctx, redisIndexKey, tr.ID)
	pipe.LTrim(ctx, redisIndexKey, 0, redisIndexCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store trace: %w", err)
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Trace, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trace: %w", err)
	}

	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	return &tr, nil
}

// List walks the index list newest first, skipping IDs whose trace has
// already expired.
func (s *RedisStore) List(ctx context.Context, limit int) ([]*Trace, error) {
	ids, err := s.client.LRange(ctx, redisIndexKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}

	traces := make([]*Trace, 0, len(ids))
	for _, id := range ids {
		tr, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		traces = append(traces, tr)
	}
	return traces, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)

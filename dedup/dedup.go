// Package dedup provides idempotency reservations for task launches.
//
// S3 and SQS both deliver at least once, so the same upload can reach the
// dispatcher more than once. A Store lets the dispatcher claim a launch key
// before starting a task and give it back when the launch fails.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a reservation is held when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Store reserves launch keys.
type Store interface {
	// Reserve claims key. It reports false when key is already held.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release frees key so a later delivery can launch again.
	Release(ctx context.Context, key string) error
}

// Noop reserves every key. It is the default when deduplication is disabled.
type Noop struct{}

// Reserve always succeeds.
func (Noop) Reserve(context.Context, string) (bool, error) { return true, nil }

// Release does nothing.
func (Noop) Release(context.Context, string) error { return nil }

// RedisStore keeps reservations in Redis with SET NX and an expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore returns a store backed by client. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

// Connect parses redisURL, verifies the server answers and returns a store.
func Connect(ctx context.Context, redisURL string, ttl time.Duration, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStore(client, ttl, prefix), nil
}

// Reserve implements Store.
func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve %q: %w", key, err)
	}
	return ok, nil
}

// Release implements Store.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

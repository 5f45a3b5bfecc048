package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when a key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Store is a key-expiry store. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns a Redis-backed store when redisURL is set and an in-memory one otherwise
func Open(ctx context.Context, redisURL string) (Store, error) {
	if redisURL == "" {
		return NewMemoryStore(DefaultMaxEntries, DefaultSweepInterval), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return NewRedisStore(client, DefaultPrefix), nil
}

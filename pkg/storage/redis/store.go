// Package redis implements storage.Backend on a Redis client. Records are
// plain string keys; Clear issues FLUSHDB, which wipes the whole logical
// database; point the client at a dedicated DB index when sharing a server.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	backend := redisstore.New(client)
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-persist/pkg/storage"
)

var _ storage.Backend = (*Backend)(nil)

// Option configures the Backend.
type Option func(*Backend)

// WithTTL applies an expiration to every record written. Zero keeps records
// until removed.
func WithTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.ttl = ttl }
}

// Backend implements storage.Backend backed by Redis.
type Backend struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New creates a Redis-backed storage backend. The caller owns the client
// lifecycle.
func New(client redis.Cmdable, opts ...Option) *Backend {
	b := &Backend{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: get %q: %w", key, err)
	}
	return value, true, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, key, value, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) SetAsync(ctx context.Context, key, value string, done func(error)) {
	go func() {
		err := b.Set(ctx, key, value)
		if done != nil {
			done(err)
		}
	}()
}

func (b *Backend) Remove(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: del %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context) error {
	if err := b.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("redis: flushdb: %w", err)
	}
	return nil
}

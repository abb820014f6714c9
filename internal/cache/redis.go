package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freema/daysync/internal/logger"
	"github.com/freema/daysync/internal/redisclient"
)

// Redis is a Cache shared between instances through Redis.
type Redis struct {
	redis *redisclient.Client
	ttl   time.Duration
}

// NewRedis creates a Redis-backed cache. Entries expire after ttl.
func NewRedis(rdb *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{redis: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.redis.Unwrap().Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache entry: %w", err)
	}
	if err := decode(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any) error {
	b, err := encode(value)
	if err != nil {
		return err
	}
	if err := r.redis.Unwrap().Set(ctx, r.key(key), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear deletes every cache entry under the client prefix.
func (r *Redis) Clear(ctx context.Context) error {
	n, err := r.redis.DeleteMatching(ctx, r.key("*"))
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	logger.FromContext(ctx).Debug("redis cache cleared", "entries", n)
	return nil
}

func (r *Redis) key(k string) string {
	return r.redis.Key("cache", k)
}

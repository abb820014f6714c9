package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/freema/daysync/internal/logger"
	"github.com/freema/daysync/internal/metrics"
)

// Cache stores API responses for a fixed TTL. Values are JSON-encoded so
// every backend hands back the same shapes.
type Cache interface {
	// Get decodes the entry for key into dst. It reports false when the
	// entry is missing or stale.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Clear(ctx context.Context) error
}

// Fetch returns the cached value for key, or calls load and caches its
// result. A failing cache read or write is logged and never fails the call.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, error) {
	log := logger.FromContext(ctx)
	ns := namespace(key)

	var cached T
	hit, err := c.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(ns, "error").Inc()
		log.Warn("cache read failed", "key", key, "error", err)
	case hit:
		metrics.CacheLookups.WithLabelValues(ns, "hit").Inc()
		log.Debug("cache hit", "key", key)
		return cached, nil
	default:
		metrics.CacheLookups.WithLabelValues(ns, "miss").Inc()
		log.Debug("cache miss", "key", key)
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(ctx, key, v); err != nil {
		log.Warn("cache write failed", "key", key, "error", err)
	} else {
		log.Debug("cache set", "key", key)
	}
	return v, nil
}

// Key joins parts into a cache key, e.g. Key("weather", "sydney").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func namespace(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func encode(value any) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding cache value: %w", err)
	}
	return b, nil
}

func decode(b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decoding cache value: %w", err)
	}
	return nil
}

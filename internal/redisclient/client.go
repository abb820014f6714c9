// Package redisclient wraps go-redis with the key prefix shared by the
// response cache and the rate limiter.
package redisclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is both the SCAN count hint and the DEL batch size.
const scanBatch = 100

// Client is a prefixed Redis connection pool.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New creates a client from a redis:// or rediss:// URL. Every key the
// client builds starts with prefix.
func New(url, prefix string) (*Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.MaxRetries = 2

	return &Client{rdb: redis.NewClient(opt), prefix: prefix}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Addr is the host:port the pool dials.
func (c *Client) Addr() string {
	return c.rdb.Options().Addr
}

// Unwrap returns the underlying go-redis client.
func (c *Client) Unwrap() *redis.Client {
	return c.rdb
}

// Key joins parts with ':' under the client prefix.
func (c *Client) Key(parts ...string) string {
	return c.prefix + strings.Join(parts, ":")
}

// DeleteMatching removes every key matching pattern (a SCAN MATCH glob,
// already prefixed) and returns how many were deleted.
func (c *Client) DeleteMatching(ctx context.Context, pattern string) (int, error) {
	iter := c.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()

	deleted := 0
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("deleting keys: %w", err)
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning %s: %w", pattern, err)
	}
	return deleted, flush()
}

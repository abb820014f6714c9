package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freema/daysync/internal/redisclient"
)

// RateLimiter is a sliding-window limiter shared by all instances through
// Redis. Each client address gets limit requests per window.
type RateLimiter struct {
	redis  *redisclient.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(rdb *redisclient.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: rdb, limit: limit, window: window, now: time.Now}
}

// Middleware enforces the limit per client address. It expects chi's
// RealIP to have run first so proxies are unwrapped.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddr(r)
			if client == "" {
				next.ServeHTTP(w, r)
				return
			}

			used, err := rl.record(r.Context(), client)
			if err != nil {
				// Fail open when Redis is unreachable.
				slog.Warn("rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := rl.limit - int(used) - 1
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if used >= int64(rl.limit) {
				secs := int(rl.retryAfter().Seconds())
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				reject(w, http.StatusTooManyRequests, fmt.Sprintf("rate limit exceeded, retry after %ds", secs))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// record trims the client's window, counts what is left and logs this
// request. It returns the count from before this request.
func (rl *RateLimiter) record(ctx context.Context, client string) (int64, error) {
	key := rl.redis.Key("ratelimit", hashClient(client))
	now := rl.now()
	cutoff := now.Add(-rl.window).UnixMilli()

	pipe := rl.redis.Unwrap().TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return count.Val(), nil
}

func (rl *RateLimiter) retryAfter() time.Duration {
	d := rl.window / time.Duration(rl.limit)
	if d < time.Second {
		return time.Second
	}
	return d
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// hashClient keeps raw client addresses out of Redis keys.
func hashClient(addr string) string {
	h := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(h[:8])
}

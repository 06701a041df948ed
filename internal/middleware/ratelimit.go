package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// ErrNoRateLimitStore is returned by Allow when no Redis client is configured.
var ErrNoRateLimitStore = errors.New("rate limit store not configured")

// RateLimiter is a fixed-window counter kept in Redis.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	policy FailPolicy
}

// NewRateLimiter returns a limiter allowing limit requests per window.
// A non-positive limit disables limiting.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit, window: window, policy: policy}
}

// Allow counts one hit for resource/id and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, resource, id string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	if l.rdb == nil {
		return false, ErrNoRateLimitStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(l.limit), nil
}

// Handler returns a Fiber middleware counting requests under name.
// Authenticated requests are keyed by account id, anonymous ones by remote IP.
func (l *RateLimiter) Handler(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid, ok := c.Locals(LocalUserID).(string); ok && uid != "" {
			id = "user:" + uid
		}

		allowed, err := l.Allow(c.UserContext(), name, id)
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					slog.String("resource", name), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"message": "Rate limit unavailable",
				})
			}
			if !errors.Is(err, ErrNoRateLimitStore) {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing open",
					slog.String("resource", name), slog.String("error", err.Error()))
			}
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(l.window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
				"code":    "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}

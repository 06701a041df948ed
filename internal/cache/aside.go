package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bloghub/internal/middleware"
	"bloghub/internal/observability"

	"github.com/redis/go-redis/v9"
)

const usernameKeyPrefix = "account:username:"

// UsernameKey is the cache key mapping a username to its account id.
func UsernameKey(username string) string {
	return usernameKeyPrefix + username
}

// Cache is a JSON cache-aside layer over Redis. A nil *Cache, or one without
// a client, always falls through to the loader.
type Cache struct {
	rdb  *redis.Client
	ttl  time.Duration
	name string
}

// New returns a Cache named name (used as a metrics label) storing entries for ttl.
func New(rdb *redis.Client, name string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, name: name}
}

// GetJSON reads key into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate removes key.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidate failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Aside serves dest from the cache, or calls load to fill dest and caches
// the result. load reports false when there is nothing to cache. Cache
// failures are logged and never fail the call.
func (c *Cache) Aside(ctx context.Context, key string, dest any, load func() (bool, error)) (bool, error) {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		c.record("error")
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		c.record("hit")
		return true, nil
	default:
		c.record("miss")
	}

	ok, err := load()
	if err != nil || !ok {
		return ok, err
	}

	if err := c.SetJSON(ctx, key, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return true, nil
}

func (c *Cache) record(result string) {
	if c == nil || c.rdb == nil {
		return
	}
	observability.CacheLookups.WithLabelValues(c.name, result).Inc()
}

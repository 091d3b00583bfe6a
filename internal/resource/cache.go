package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
)

// Cache serves previously computed list responses per principal. A cache
// failure is never a request failure: every Redis error degrades to a miss
// and the wrapped loader runs.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewCache builds the response cache. A nil client disables caching
// entirely (permanent pass-through).
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

type cachedResponse struct {
	Status   int            `json:"status"`
	Envelope httpx.Envelope `json:"envelope"`
}

// Key composes a cache key from the resource, the principal and the
// canonical query signature. The principal id is part of the key because a
// hit bypasses authorization: an entry must only ever be replayed to the
// principal it was computed for.
func Key(resource, principalID, querySig string) string {
	if principalID == "" {
		principalID = "anon"
	}
	return fmt.Sprintf("res:%s:%s:%s", resource, principalID, querySig)
}

// CanonicalQuery serializes query parameters deterministically so that
// equivalent requests share one cache entry.
func CanonicalQuery(q url.Values) string {
	if len(q) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		values := append([]string(nil), q[k]...)
		sort.Strings(values)
		for _, v := range values {
			if i > 0 || b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// Fetch returns the cached response for key when fresh, otherwise runs the
// loader, storing its result when it is a success. Concurrent misses on the
// same key collapse to one loader run. Error envelopes are never cached.
func (c *Cache) Fetch(ctx context.Context, key string, load func(ctx context.Context) (httpx.Envelope, int)) (httpx.Envelope, int) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached.Envelope, cached.Status
		}
		c.logger.Warn("cache entry corrupt, discarding", slog.String("key", key))
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed, passing through", slog.String("key", key), slog.String("error", httpx.Sanitize(err.Error())))
		return load(ctx)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		env, status := load(ctx)
		if env.Success && status < 300 {
			raw, merr := json.Marshal(cachedResponse{Status: status, Envelope: env})
			if merr == nil {
				if serr := c.client.Set(ctx, key, raw, c.ttl).Err(); serr != nil {
					c.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", httpx.Sanitize(serr.Error())))
				}
			}
		}
		return cachedResponse{Status: status, Envelope: env}, nil
	})
	if err != nil {
		return load(ctx)
	}
	cached := result.(cachedResponse)
	return cached.Envelope, cached.Status
}

// Invalidate removes every entry for the resource, scoped to the principal
// when one is given and to the whole resource namespace otherwise. Callers
// invoke it synchronously after a durable write; a failure here is logged
// and must not fail the request.
func (c *Cache) Invalidate(ctx context.Context, resource, principalID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("res:%s:", resource)
	if principalID != "" {
		pattern += principalID + ":"
	}
	pattern += "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("cache invalidation failed", slog.String("pattern", pattern), slog.String("error", httpx.Sanitize(err.Error())))
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache invalidation failed", slog.String("pattern", pattern), slog.String("error", httpx.Sanitize(err.Error())))
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

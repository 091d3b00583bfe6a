package resource

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestCacheFetchMissThenHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	key := Key("properties", "p1", "-")

	loads := 0
	load := func(ctx context.Context) (httpx.Envelope, int) {
		loads++
		return httpx.OK([]string{"a"}), 200
	}

	env, status := cache.Fetch(ctx, key, load)
	require.Equal(t, 200, status)
	require.True(t, env.Success)
	require.Equal(t, 1, loads)

	env, status = cache.Fetch(ctx, key, load)
	require.Equal(t, 200, status)
	require.True(t, env.Success)
	require.Equal(t, 1, loads, "second fetch must be served from cache")
}

func TestCacheNeverStoresErrorEnvelopes(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	key := Key("loans", "p1", "-")

	loads := 0
	load := func(ctx context.Context) (httpx.Envelope, int) {
		loads++
		return httpx.NotFound("loans x not found"), 404
	}

	_, status := cache.Fetch(ctx, key, load)
	require.Equal(t, 404, status)
	require.Empty(t, mr.Keys(), "error envelope must not be written")

	_, _ = cache.Fetch(ctx, key, load)
	require.Equal(t, 2, loads, "errors are recomputed every time")
}

func TestCacheInvalidateScopedToPrincipal(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	loadsP, loadsQ := 0, 0
	keyP := Key("properties", "principal-p", CanonicalQuery(url.Values{"page": {"1"}}))
	keyQ := Key("properties", "principal-q", CanonicalQuery(url.Values{"page": {"1"}}))

	_, _ = cache.Fetch(ctx, keyP, func(ctx context.Context) (httpx.Envelope, int) {
		loadsP++
		return httpx.OK([]string{"p"}), 200
	})
	_, _ = cache.Fetch(ctx, keyQ, func(ctx context.Context) (httpx.Envelope, int) {
		loadsQ++
		return httpx.OK([]string{"q"}), 200
	})

	require.NoError(t, cache.Invalidate(ctx, "properties", "principal-p"))

	_, _ = cache.Fetch(ctx, keyP, func(ctx context.Context) (httpx.Envelope, int) {
		loadsP++
		return httpx.OK([]string{"p2"}), 200
	})
	_, _ = cache.Fetch(ctx, keyQ, func(ctx context.Context) (httpx.Envelope, int) {
		loadsQ++
		return httpx.OK([]string{"q2"}), 200
	})

	require.Equal(t, 2, loadsP, "writer's entries must be evicted")
	require.Equal(t, 1, loadsQ, "other principals' entries stay until they expire")
}

func TestCacheInvalidateWholeResource(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for _, principal := range []string{"p1", "p2", "p3"} {
		key := Key("users", principal, "-")
		_, _ = cache.Fetch(ctx, key, func(ctx context.Context) (httpx.Envelope, int) {
			return httpx.OK(nil), 200
		})
	}
	otherKey := Key("loans", "p1", "-")
	_, _ = cache.Fetch(ctx, otherKey, func(ctx context.Context) (httpx.Envelope, int) {
		return httpx.OK(nil), 200
	})

	require.NoError(t, cache.Invalidate(ctx, "users", ""))

	require.Len(t, mr.Keys(), 1, "only the other resource survives")
	require.True(t, mr.Exists(otherKey))
}

func TestCachePassesThroughWhenRedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	loads := 0
	env, status := cache.Fetch(ctx, Key("properties", "p1", "-"), func(ctx context.Context) (httpx.Envelope, int) {
		loads++
		return httpx.OK([]string{"a"}), 200
	})
	require.Equal(t, 200, status)
	require.True(t, env.Success)
	require.Equal(t, 1, loads, "loader must run when the cache is unreachable")

	// Invalidation reports the failure so callers can log it, but callers
	// never fail the request on it.
	require.Error(t, cache.Invalidate(ctx, "properties", "p1"))
}

func TestCacheNilClientIsPassThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	loads := 0
	_, _ = cache.Fetch(context.Background(), "k", func(ctx context.Context) (httpx.Envelope, int) {
		loads++
		return httpx.OK(nil), 200
	})
	_, _ = cache.Fetch(context.Background(), "k", func(ctx context.Context) (httpx.Envelope, int) {
		loads++
		return httpx.OK(nil), 200
	})
	require.Equal(t, 2, loads)
	require.NoError(t, cache.Invalidate(context.Background(), "properties", "p1"))
}

func TestCanonicalQueryDeterministic(t *testing.T) {
	a := CanonicalQuery(url.Values{"b": {"2"}, "a": {"1"}})
	b := CanonicalQuery(url.Values{"a": {"1"}, "b": {"2"}})
	require.Equal(t, a, b)
	require.Equal(t, "a=1&b=2", a)
	require.Equal(t, "-", CanonicalQuery(url.Values{}))
}

func TestKeyAnonFallback(t *testing.T) {
	require.Equal(t, "res:properties:anon:-", Key("properties", "", "-"))
	require.Equal(t, "res:properties:p1:a=1", Key("properties", "p1", "a=1"))
}

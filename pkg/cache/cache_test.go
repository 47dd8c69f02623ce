package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "hotels"), mr
}

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	ok, err := c.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k1"))
	ok, err = c.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestRedisCache(t *testing.T) {
	c, mr := newRedisCache(t)
	exerciseCache(t, c)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("hotels:k"), "keys are prefixed")
}

func TestRedisCacheClearKeepsOtherPrefixes(t *testing.T) {
	c, mr := newRedisCache(t)
	require.NoError(t, mr.Set("other:k", "v"))
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))

	require.NoError(t, c.Clear(context.Background()))
	assert.False(t, mr.Exists("hotels:k"))
	assert.True(t, mr.Exists("other:k"))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache().WithClock(clock.Now)

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "long", []byte("y"), time.Hour))
	require.NoError(t, c.Set(ctx, "forever", []byte("z"), 0))

	clock.Advance(time.Minute)
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss, "expiry is checked on read")
	assert.Equal(t, 3, c.Len(), "expired entries stay until purged")

	n, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, c.Len())

	clock.Advance(24 * time.Hour)
	ok, _ := c.Exists(ctx, "long")
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestCacheManagerJSON(t *testing.T) {
	ctx := context.Background()
	m := NewCacheManager(NewMemoryCache())

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, m.SetJSON(ctx, "p", payload{Name: "MCO", Count: 2}, time.Minute))

	var got payload
	require.NoError(t, m.GetJSON(ctx, "p", &got))
	assert.Equal(t, payload{Name: "MCO", Count: 2}, got)

	assert.ErrorIs(t, m.GetJSON(ctx, "nope", &got), ErrCacheMiss)
}

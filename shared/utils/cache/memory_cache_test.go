package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestMemoryCacheTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "1", time.Minute))

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	clock.t = clock.t.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheDel(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "0", 0))
	require.NoError(t, c.Del(ctx, "a", "missing"))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheTryLock(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewMemoryCache(clock.Now)
	ctx := context.Background()

	ok, err := c.TryLock(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.TryLock(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.t = clock.t.Add(2 * time.Minute)
	ok, err = c.TryLock(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheInvalidateByPattern(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("t1", "ip", "10.0.0.0/8"), "1", 0))
	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("t1", "user", "u1"), "0", 0))
	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("t2", "user", "u1"), "1", 0))

	removed, err := c.InvalidateByPattern(ctx, GenerateTenantBlacklistPattern("t1"))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())
}

func TestGenerateBlacklistKey(t *testing.T) {
	assert.Equal(t, "blacklist:7:default:ip:1.2.3.4", GenerateBlacklistKey("default", "ip", "1.2.3.4"))
	assert.Equal(t, "blacklist:7:default:*", GenerateTenantBlacklistPattern("default"))
	assert.Equal(t, `blacklist:3:a\*b:*`, GenerateTenantBlacklistPattern("a*b"))
}

func TestGenerateBlacklistKeyKeepsTenantsApart(t *testing.T) {
	assert.NotEqual(t,
		GenerateBlacklistKey("a:ip", "ip", "x"),
		GenerateBlacklistKey("a", "ip", "ip:x"))
	assert.NotEqual(t,
		GenerateBlacklistKey("t1", "ip", "::1"),
		GenerateBlacklistKey("t1:ip:", "ip", "1"))
}

func TestMemoryCacheTenantPatternDoesNotMatchLongerTenant(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("a", "ip", "1.1.1.1"), "1", 0))
	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("a:ip", "ip", "1.1.1.1"), "1", 0))
	require.NoError(t, c.Set(ctx, GenerateBlacklistKey("a*", "ip", "1.1.1.1"), "1", 0))

	removed, err := c.InvalidateByPattern(ctx, GenerateTenantBlacklistPattern("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = c.InvalidateByPattern(ctx, GenerateTenantBlacklistPattern("a*"))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Dispose()

	c.Set("a", 1)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	defer c.Dispose()

	c.SetWithTTL("short", "v", 10*time.Millisecond)
	require.True(t, c.Has("short"))

	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok, "expired entry must be dropped on access")
	assert.False(t, c.Has("short"))
}

func TestGetWithTimestamp(t *testing.T) {
	c := New(time.Minute)
	defer c.Dispose()

	before := time.Now()
	c.Set("a", "v")

	got, storedAt, ok := c.GetWithTimestamp("a")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.False(t, storedAt.Before(before))
	assert.False(t, storedAt.After(time.Now()))
}

func TestRefreshTTL(t *testing.T) {
	c := New(50 * time.Millisecond)
	defer c.Dispose()

	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)
	require.True(t, c.RefreshTTL("a"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, c.Has("a"), "refreshed entry must outlive the original TTL")

	assert.False(t, c.RefreshTTL("missing"))
}

func TestRemoveClearKeysSize(t *testing.T) {
	c := New(time.Minute)
	defer c.Dispose()

	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Size())
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())

	c.Remove("a")
	assert.False(t, c.Has("a"))
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCleanup(t *testing.T) {
	c := New(time.Minute)
	defer c.Dispose()

	c.SetWithTTL("stale", 1, 5*time.Millisecond)
	c.Set("fresh", 2)
	time.Sleep(15 * time.Millisecond)

	c.Cleanup()
	assert.ElementsMatch(t, []string{"fresh"}, c.Keys())
}

func TestDisposeIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Dispose()
	c.Dispose()
	assert.Equal(t, 0, c.Size())
}

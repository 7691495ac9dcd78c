package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, 0)

	c.Set(ctx, "k", 42)
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	c.Set(ctx, "k", 43)
	v, _ = c.Get(ctx, "k")
	assert.Equal(t, 43, v)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewInMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", "v")
	now = now.Add(2 * time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Len(t, c.items, 1)

	c.deleteExpired()
	assert.Empty(t, c.items)
}

func TestStopCleanupIsIdempotent(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Millisecond)
	c.StartCleanup(context.Background())
	c.StopCleanup()
	c.StopCleanup()
}

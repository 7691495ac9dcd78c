package service_test

import (
	"context"
	"testing"

	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	cacheService := newCache(t)

	type entry struct {
		Name  string
		Count int
	}

	require.NoError(t, cacheService.Set(ctx, "k", entry{Name: "a", Count: 2}))

	var got entry
	require.NoError(t, cacheService.Get(ctx, "k", &got))
	assert.Equal(t, entry{Name: "a", Count: 2}, got)

	assert.ErrorIs(t, cacheService.Get(ctx, "missing", &got), domain.ErrNotFound)

	// The cache keeps a snapshot taken at Set time
	stored := &entry{Name: "b"}
	require.NoError(t, cacheService.Set(ctx, "p", stored))
	stored.Name = "changed"
	require.NoError(t, cacheService.Get(ctx, "p", &got))
	assert.Equal(t, "b", got.Name)
	assert.ErrorIs(t, cacheService.Set(ctx, "", 1), domain.ErrInvalidInput)
}

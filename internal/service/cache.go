package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dangerclosesec/siren/internal/cache"
	"github.com/dangerclosesec/siren/internal/domain"
)

// CacheService provides caching functionality with type safety and error handling
type CacheService struct {
	cache *cache.InMemoryCache
}

// CacheConfig holds configuration for the cache service
type CacheConfig struct {
	TTL         time.Duration
	CleanupFreq time.Duration
}

// NewCacheService creates a new cache service and starts its cleanup routine
func NewCacheService(ctx context.Context, config CacheConfig) *CacheService {
	cache := cache.NewInMemoryCache(config.TTL, config.CleanupFreq)
	cache.StartCleanup(ctx)

	return &CacheService{
		cache: cache,
	}
}

// Set stores an encoded snapshot of value, so later changes to value never
// reach the cache
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	// Validate inputs
	if key == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}

	s.cache.Set(ctx, key, data)
	return nil
}

// Get retrieves a value from the cache with type conversion
func (s *CacheService) Get(ctx context.Context, key string, result interface{}) error {
	// Validate inputs
	if key == "" {
		return domain.ErrInvalidInput
	}

	// Get from cache
	value, found := s.cache.Get(ctx, key)
	if !found {
		return domain.ErrNotFound
	}

	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cached value type %T", value)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshaling cached value: %w", err)
	}

	return nil
}

// Close stops the cleanup routine
func (s *CacheService) Close() {
	s.cache.StopCleanup()
}

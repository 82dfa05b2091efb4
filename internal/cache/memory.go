package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	memoryDefTTL        = 60 * time.Minute
	memoryCleanUpPeriod = 1 * time.Minute
)

type memory struct {
	c *gocache.Cache
}

// NewMemoryCache returns a basic in memory cache
func NewMemoryCache() Cache {
	return &memory{
		c: gocache.New(memoryDefTTL, memoryCleanUpPeriod),
	}
}

// Set sets an item in the in memory cache. Values are stored in their json
// form so Get behaves like the networked backends.
func (m *memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == ForEver {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, raw, ttl)
	return nil
}

// Get retrieves a cache entry and a boolean telling it is found or not
// value must be passed as reference as the cached value will be stored there
func (m *memory) Get(_ context.Context, key string, value any) bool {
	mVal, exists := m.c.Get(key)
	if !exists {
		return false
	}
	raw, ok := mVal.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, value) == nil
}

// Exists returns true if the key exists in the cache
func (m *memory) Exists(_ context.Context, key string) bool {
	_, found := m.c.Get(key)
	return found
}

// Delete removes an entry from the cache
func (m *memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

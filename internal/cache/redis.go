package cache

import (
	"context"
	"time"

	rediscache "github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

type redisCache struct {
	c *rediscache.Cache
}

// NewRedisCache returns a Cache backed by Redis. The local tier is skipped so
// that QR challenge deletions are visible to every node at once.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{c: rediscache.New(&rediscache.Options{Redis: client})}
}

// Set stores a value under key for at most ttl. ForEver keeps it until evicted.
func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return r.c.Set(&rediscache.Item{
		Ctx:            ctx,
		Key:            key,
		Value:          value,
		TTL:            ttl,
		SkipLocalCache: true,
	})
}

// Get retrieves a cache entry and a boolean telling it is found or not
// value must be passed as reference as the cached value will be stored there
func (r *redisCache) Get(ctx context.Context, key string, value any) bool {
	return r.c.Get(ctx, key, value) == nil
}

// Exists returns true if the key exists in redis
func (r *redisCache) Exists(ctx context.Context, key string) bool {
	return r.c.Exists(ctx, key)
}

// Delete removes an entry from redis
func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.c.Delete(ctx, key)
}

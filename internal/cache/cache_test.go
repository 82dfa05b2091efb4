package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passprove/verification-node/internal/cache"
	"github.com/passprove/verification-node/internal/redis"
)

func TestCacheBackends(t *testing.T) {
	ctx := context.Background()
	instance := miniredis.RunT(t)
	client, err := redis.Open(ctx, "redis://"+instance.Addr())
	require.NoError(t, err)
	defer func() { assert.NoError(t, client.Close()) }()

	backends := map[string]cache.Cache{
		"memory": cache.NewMemoryCache(),
		"redis":  cache.NewRedisCache(client),
	}

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("set and get", func(t *testing.T) {
				require.NoError(t, c.Set(ctx, "k1", "hello", time.Minute))
				var got string
				require.True(t, c.Get(ctx, "k1", &got))
				assert.Equal(t, "hello", got)
				assert.True(t, c.Exists(ctx, "k1"))
			})

			t.Run("structured values survive the round trip", func(t *testing.T) {
				type payload struct {
					SessionID string `json:"sessionId"`
					Count     int    `json:"count"`
				}
				in := payload{SessionID: "abc", Count: 3}
				require.NoError(t, c.Set(ctx, "k2", in, time.Minute))
				var out payload
				require.True(t, c.Get(ctx, "k2", &out))
				assert.Equal(t, in, out)
			})

			t.Run("miss", func(t *testing.T) {
				var got string
				assert.False(t, c.Get(ctx, "absent", &got))
				assert.False(t, c.Exists(ctx, "absent"))
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, c.Set(ctx, "k3", "bye", time.Minute))
				require.NoError(t, c.Delete(ctx, "k3"))
				assert.False(t, c.Exists(ctx, "k3"))
			})
		})
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	instance := miniredis.RunT(t)
	client, err := redis.Open(ctx, "redis://"+instance.Addr())
	require.NoError(t, err)
	defer func() { assert.NoError(t, client.Close()) }()
	c := cache.NewRedisCache(client)

	require.NoError(t, c.Set(ctx, "short", "lived", time.Second))
	assert.True(t, c.Exists(ctx, "short"))
	instance.FastForward(2 * time.Second)
	assert.False(t, c.Exists(ctx, "short"))
}

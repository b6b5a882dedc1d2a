package tiles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDiskCache(t *testing.T, ttl time.Duration) *DiskCache {
	t.Helper()
	cache, err := OpenDiskCache(t.TempDir(), ttl, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if cache.IsOpen() {
			_ = cache.Close()
		}
	})
	return cache
}

func TestDiskCacheGetSet(t *testing.T) {
	cache := openTestDiskCache(t, time.Minute)

	t.Run("miss on empty store", func(t *testing.T) {
		_, ok := cache.Get("osm/1/0/0")
		assert.False(t, ok)
	})

	t.Run("hit after set", func(t *testing.T) {
		cache.Set("osm/1/0/0", []byte("tile-bytes"))

		data, ok := cache.Get("osm/1/0/0")
		require.True(t, ok)
		assert.Equal(t, []byte("tile-bytes"), data)
	})
}

func TestDiskCacheTTLExpiry(t *testing.T) {
	cache := openTestDiskCache(t, 50*time.Millisecond)
	cache.Set("osm/1/0/0", []byte("tile"))

	_, ok := cache.Get("osm/1/0/0")
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	_, ok = cache.Get("osm/1/0/0")
	assert.False(t, ok)
}

func TestDiskCacheClose(t *testing.T) {
	cache := openTestDiskCache(t, time.Minute)

	assert.True(t, cache.IsOpen())
	require.NoError(t, cache.Close())
	assert.False(t, cache.IsOpen())
}

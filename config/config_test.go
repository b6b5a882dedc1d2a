package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())

		assert.Equal(t, 150*time.Millisecond, cfg.Tiles.SettleDelay)
		assert.Equal(t, 300*time.Millisecond, cfg.Tiles.RevertRedrawDelay)
		assert.Equal(t, 3500*time.Millisecond, cfg.Tiles.StatusClearDelay)
		assert.Equal(t, 2048, cfg.Tiles.MemCacheSize)
		assert.Empty(t, cfg.Tiles.DiskCacheDir)

		assert.InDelta(t, 37.7749, cfg.Map.DefaultLat, 1e-9)
		assert.Equal(t, 13, cfg.Map.DefaultZoom)
		assert.Empty(t, cfg.Geo.Endpoint)
		assert.Equal(t, "info", cfg.Observability.LogLevel)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9999")
		t.Setenv("TILES_SETTLE_DELAY", "25ms")
		t.Setenv("MAP_DEFAULT_ZOOM", "8")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, 25*time.Millisecond, cfg.Tiles.SettleDelay)
		assert.Equal(t, 8, cfg.Map.DefaultZoom)
		assert.Equal(t, "debug", cfg.Observability.LogLevel)
	})

	t.Run("PORT takes precedence over SERVER_PORT", func(t *testing.T) {
		t.Setenv("PORT", "7070")
		t.Setenv("SERVER_PORT", "9090")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("malformed env values fall back to defaults", func(t *testing.T) {
		t.Setenv("TILES_MEM_CACHE_SIZE", "not-a-number")
		t.Setenv("TILES_SETTLE_DELAY", "soon")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 2048, cfg.Tiles.MemCacheSize)
		assert.Equal(t, 150*time.Millisecond, cfg.Tiles.SettleDelay)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := New()
		require.NoError(t, err)
		return cfg
	}

	t.Run("port out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("default center out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Map.DefaultLat = 91
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Map.DefaultLon = -200
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive delay", func(t *testing.T) {
		cfg := valid()
		cfg.Tiles.StatusClearDelay = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing log level", func(t *testing.T) {
		cfg := valid()
		cfg.Observability.LogLevel = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{Environment: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.Environment = "dev"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

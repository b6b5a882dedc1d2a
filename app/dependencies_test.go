package app

import (
	"context"
	"testing"
	"time"

	"github.com/geoview/poimap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New()
	require.NoError(t, err)
	cfg.Tiles.SettleDelay = 5 * time.Millisecond
	cfg.Tiles.RevertRedrawDelay = 5 * time.Millisecond
	cfg.Tiles.StatusClearDelay = 30 * time.Millisecond
	return cfg
}

func TestNewDependencies(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := testConfig(t)

		deps, err := NewDependencies(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer deps.Close(context.Background())

		require.NotNil(t, deps.Catalog)
		assert.NotZero(t, deps.Catalog.Len())
		require.NotNil(t, deps.Controller)
		require.NotNil(t, deps.Proxy)
		require.NotNil(t, deps.POIs)
		require.NotNil(t, deps.Geo)

		// The baseline layer is mounted at startup.
		desc, baseline, err := deps.Proxy.ActiveLayer()
		require.NoError(t, err)
		assert.True(t, baseline)
		assert.Equal(t, deps.Catalog.Baseline().ID, desc.ID)

		// No disk cache configured; readiness still holds.
		assert.True(t, deps.DiskCacheOpen())
	})

	t.Run("with disk cache", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Tiles.DiskCacheDir = t.TempDir()

		deps, err := NewDependencies(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)

		assert.True(t, deps.DiskCacheOpen())
		require.NoError(t, deps.Close(context.Background()))
		assert.False(t, deps.DiskCacheOpen())
	})

	t.Run("missing catalog file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Map.CatalogPath = "/does/not/exist.yaml"

		_, err := NewDependencies(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("missing poi file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Map.POIPath = "/does/not/exist.json"

		_, err := NewDependencies(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

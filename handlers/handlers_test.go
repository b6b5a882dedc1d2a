package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testDependencies wires a full dependency graph with short delays. When
// tileBaseURL is non-empty, all catalog entries point at it so tile fetches
// stay local.
func testDependencies(t *testing.T, tileBaseURL string) *app.Dependencies {
	t.Helper()

	cfg, err := config.New()
	require.NoError(t, err)
	cfg.Tiles.SettleDelay = 5 * time.Millisecond
	cfg.Tiles.RevertRedrawDelay = 5 * time.Millisecond
	cfg.Tiles.StatusClearDelay = 30 * time.Millisecond

	if tileBaseURL != "" {
		catalog := fmt.Sprintf(`baseline:
  id: base
  url_template: "%[1]s/base/{z}/{x}/{y}.png"
  max_zoom: 19
fallbacks:
  - id: fb0
    url_template: "%[1]s/fb0/{z}/{x}/{y}.png"
    max_zoom: 19
  - id: fb1
    url_template: "%[1]s/fb1/{z}/{x}/{y}.png"
    max_zoom: 19
`, tileBaseURL)
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))
		cfg.Map.CatalogPath = path
	}

	deps, err := app.NewDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close(context.Background()) })
	return deps
}

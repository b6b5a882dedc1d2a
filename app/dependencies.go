package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/geoview/poimap/config"
	"github.com/geoview/poimap/services/geo"
	"github.com/geoview/poimap/services/poi"
	"github.com/geoview/poimap/services/tiles"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Tile pipeline
	Catalog    *tiles.Catalog
	Notifier   *tiles.MemoryNotifier
	Proxy      *tiles.Proxy
	Controller *tiles.Controller

	// Map data
	POIs *poi.Service
	Geo  *geo.Service

	diskCache *tiles.DiskCache
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		stopCh: make(chan struct{}),
	}

	if err := deps.initCatalog(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize provider catalog: %w", err)
	}

	if err := deps.initTilePipeline(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tile pipeline: %w", err)
	}

	if err := deps.initMapData(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize map data: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initCatalog loads the provider catalog from file or falls back to the
// built-in set.
func (d *Dependencies) initCatalog(cfg *config.Config) error {
	if cfg.Map.CatalogPath == "" {
		d.Catalog = tiles.DefaultCatalog()
		d.Logger.Info("using built-in provider catalog",
			zap.Int("fallback_providers", d.Catalog.Len()))
		return nil
	}

	catalog, err := tiles.LoadCatalog(cfg.Map.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog from %s: %w", cfg.Map.CatalogPath, err)
	}
	d.Catalog = catalog
	d.Logger.Info("provider catalog loaded",
		zap.String("path", cfg.Map.CatalogPath),
		zap.Int("fallback_providers", catalog.Len()))
	return nil
}

// initTilePipeline wires caches, fetcher, proxy, and fallback controller.
// The proxy is the controller's map surface and reports tile outcomes back
// to it, so the two are bound in both directions.
func (d *Dependencies) initTilePipeline(cfg *config.Config) error {
	memCache := tiles.NewTileCache(cfg.Tiles.MemCacheSize, cfg.Tiles.MemCacheTTL)
	go memCache.StartCleanupWorker(cfg.Tiles.MemCacheTTL, d.stopCh)

	if cfg.Tiles.DiskCacheDir != "" {
		disk, err := tiles.OpenDiskCache(cfg.Tiles.DiskCacheDir, cfg.Tiles.DiskCacheTTL, d.Logger)
		if err != nil {
			return fmt.Errorf("opening disk tile cache: %w", err)
		}
		d.diskCache = disk
		go disk.StartGC(10*time.Minute, d.stopCh)
	}

	fetcher := tiles.NewFetcher(tiles.FetcherConfig{
		Timeout:   cfg.Tiles.UpstreamTimeout,
		UserAgent: cfg.Tiles.UserAgent,
	})

	d.Notifier = tiles.NewMemoryNotifier()
	d.Proxy = tiles.NewProxy(fetcher, memCache, d.diskCache, d.Logger)

	d.Controller = tiles.NewController(d.Catalog, d.Proxy, d.Notifier, d.Logger, tiles.ControllerConfig{
		SettleDelay:       cfg.Tiles.SettleDelay,
		RevertRedrawDelay: cfg.Tiles.RevertRedrawDelay,
		StatusClearDelay:  cfg.Tiles.StatusClearDelay,
	})

	d.Proxy.SetReporter(d.Controller)

	// Mount the baseline layer so the proxy can serve tiles immediately.
	d.Controller.SelectBaseline()

	return nil
}

// initMapData loads the POI set and builds the geolocation service.
func (d *Dependencies) initMapData(cfg *config.Config) error {
	if cfg.Map.POIPath == "" {
		d.POIs = poi.DefaultService(d.Logger)
		d.Logger.Info("using built-in poi set", zap.Int("count", d.POIs.Count()))
	} else {
		svc, err := poi.LoadService(cfg.Map.POIPath, d.Logger)
		if err != nil {
			return fmt.Errorf("loading pois from %s: %w", cfg.Map.POIPath, err)
		}
		d.POIs = svc
		d.Logger.Info("poi set loaded",
			zap.String("path", cfg.Map.POIPath),
			zap.Int("count", svc.Count()))
	}

	geoCfg := geo.DefaultConfig()
	geoCfg.Endpoint = cfg.Geo.Endpoint
	geoCfg.Timeout = cfg.Geo.Timeout
	geoCfg.DefaultCenter = geo.Center{
		Lat:  cfg.Map.DefaultLat,
		Lon:  cfg.Map.DefaultLon,
		Zoom: cfg.Map.DefaultZoom,
	}
	d.Geo = geo.NewService(geoCfg, d.Logger)

	return nil
}

// DiskCacheOpen reports whether the persistent tile cache is configured
// and open. Used by the readiness endpoint.
func (d *Dependencies) DiskCacheOpen() bool {
	if d.diskCache == nil {
		return true // not configured, nothing to be ready
	}
	return d.diskCache.IsOpen()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	d.stopOnce.Do(func() { close(d.stopCh) })

	if d.diskCache != nil {
		if err := d.diskCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close disk tile cache: %w", err))
		} else {
			d.Logger.Info("disk tile cache closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}

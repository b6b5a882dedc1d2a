package tiles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/geoview/poimap/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoLayerMounted is returned when a tile is requested before any
	// layer has been mounted.
	ErrNoLayerMounted = errors.New("no tile layer mounted")

	// ErrTileOutOfRange is returned for tile addresses outside the mounted
	// provider's valid range.
	ErrTileOutOfRange = errors.New("tile address out of range")
)

// mountedLayer is the proxy's view of the active tile source. The
// generation is bumped on every mount; in-flight fetches from a previous
// generation must not report outcomes to the controller.
type mountedLayer struct {
	desc       models.ProviderDescriptor
	attempt    int
	baseline   bool
	generation uint64
	valid      bool
}

// Proxy serves map tiles from the currently mounted provider and reports
// per-tile outcomes back to the fallback controller. It is the production
// MapSurface: mounting a layer atomically tears down the previous one, and
// InvalidateSize is surfaced to clients as a monotonic redraw version.
type Proxy struct {
	mu        sync.Mutex
	mounted   mountedLayer
	fetcher   *Fetcher
	memCache  *TileCache
	diskCache *DiskCache // optional
	reporter  LoadReporter
	logger    *zap.Logger

	redrawVersion atomic.Uint64
}

var _ MapSurface = (*Proxy)(nil)

// NewProxy creates a tile proxy. diskCache may be nil.
func NewProxy(fetcher *Fetcher, memCache *TileCache, diskCache *DiskCache, logger *zap.Logger) *Proxy {
	return &Proxy{
		fetcher:   fetcher,
		memCache:  memCache,
		diskCache: diskCache,
		logger:    logger,
	}
}

// SetReporter binds the controller after construction. The proxy and the
// controller reference each other; the proxy is built first.
func (p *Proxy) SetReporter(r LoadReporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reporter = r
}

// MountFallback mounts a fallback provider, tearing down the previous
// source.
func (p *Proxy) MountFallback(desc models.ProviderDescriptor, attempt int) {
	p.mount(mountedLayer{desc: desc, attempt: attempt, valid: true})
	p.logger.Info("mounted fallback tile source",
		zap.String("provider", desc.ID),
		zap.Int("attempt", attempt))
}

// MountBaseline mounts the baseline provider, tearing down the previous
// source.
func (p *Proxy) MountBaseline(desc models.ProviderDescriptor) {
	p.mount(mountedLayer{desc: desc, attempt: -1, baseline: true, valid: true})
	p.logger.Info("mounted baseline tile source", zap.String("provider", desc.ID))
}

func (p *Proxy) mount(layer mountedLayer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	layer.generation = p.mounted.generation + 1
	p.mounted = layer
}

// InvalidateSize bumps the redraw version clients poll for.
func (p *Proxy) InvalidateSize() {
	p.redrawVersion.Add(1)
}

// RedrawVersion returns the current redraw version.
func (p *Proxy) RedrawVersion() uint64 {
	return p.redrawVersion.Load()
}

// ActiveLayer returns the mounted descriptor and whether it is the
// baseline.
func (p *Proxy) ActiveLayer() (models.ProviderDescriptor, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted.valid {
		return models.ProviderDescriptor{}, false, ErrNoLayerMounted
	}
	return p.mounted.desc, p.mounted.baseline, nil
}

// ServeTile returns the tile at z/x/y from the mounted layer, consulting
// the memory cache, then the disk cache, then the upstream provider. The
// outcome of fallback-layer requests is reported to the controller with the
// attempt index captured at mount time.
func (p *Proxy) ServeTile(ctx context.Context, z, x, y int) ([]byte, string, error) {
	p.mu.Lock()
	layer := p.mounted
	p.mu.Unlock()

	if !layer.valid {
		return nil, "", ErrNoLayerMounted
	}
	if err := checkTileAddress(layer.desc, z, x, y); err != nil {
		// A malformed request says nothing about provider health.
		return nil, "", err
	}

	key := fmt.Sprintf("%s/%d/%d/%d", layer.desc.ID, z, x, y)

	if data, contentType, ok := p.memCache.Get(key); ok {
		p.report(layer, true)
		return data, contentType, nil
	}

	if p.diskCache != nil {
		if data, ok := p.diskCache.Get(key); ok {
			contentType := http.DetectContentType(data)
			p.memCache.Set(key, data, contentType)
			p.report(layer, true)
			return data, contentType, nil
		}
	}

	requestID := uuid.NewString()
	data, contentType, err := p.fetcher.Fetch(ctx, layer.desc, z, x, y)
	if err != nil {
		p.logger.Warn("tile fetch failed",
			zap.String("request_id", requestID),
			zap.String("provider", layer.desc.ID),
			zap.Int("z", z), zap.Int("x", x), zap.Int("y", y),
			zap.Error(err))
		p.report(layer, false)
		return nil, "", err
	}

	p.memCache.Set(key, data, contentType)
	if p.diskCache != nil {
		p.diskCache.Set(key, data)
	}
	p.report(layer, true)
	return data, contentType, nil
}

// report forwards a tile outcome to the controller. Baseline outcomes are
// not part of the fallback sequence, and outcomes from a torn-down source
// (generation mismatch) are dropped.
func (p *Proxy) report(layer mountedLayer, ok bool) {
	if layer.baseline {
		return
	}

	p.mu.Lock()
	reporter := p.reporter
	current := p.mounted.generation
	p.mu.Unlock()

	if reporter == nil || layer.generation != current {
		return
	}

	if ok {
		reporter.OnTileLoadSuccess(layer.attempt)
	} else {
		reporter.OnTileLoadError(layer.attempt)
	}
}

// checkTileAddress validates a slippy-map tile address against the mounted
// provider.
func checkTileAddress(desc models.ProviderDescriptor, z, x, y int) error {
	if z < 0 || z > desc.MaxZoom {
		return fmt.Errorf("%w: zoom %d outside [0,%d]", ErrTileOutOfRange, z, desc.MaxZoom)
	}
	n := 1 << uint(z)
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("%w: %d/%d at zoom %d", ErrTileOutOfRange, x, y, z)
	}
	return nil
}

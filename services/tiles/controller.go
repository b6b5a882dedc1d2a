package tiles

import (
	"sync"
	"time"

	"github.com/geoview/poimap/models"
	"go.uber.org/zap"
)

// ControllerConfig holds the timing knobs of the fallback controller.
type ControllerConfig struct {
	// SettleDelay is how long to wait after a successful fallback tile load
	// before asking the surface to redraw.
	SettleDelay time.Duration

	// RevertRedrawDelay is how long to wait after a full-exhaustion revert
	// before asking the surface to redraw.
	RevertRedrawDelay time.Duration

	// StatusClearDelay is how long the revert status message stays visible
	// before it is cleared automatically.
	StatusClearDelay time.Duration
}

// DefaultControllerConfig returns the production timing configuration.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		SettleDelay:       150 * time.Millisecond,
		RevertRedrawDelay: 300 * time.Millisecond,
		StatusClearDelay:  3500 * time.Millisecond,
	}
}

// Controller owns the tile-provider fallback state machine. It reacts to
// user layer selections and tile load outcomes, drives the map surface and
// the status notifier, and guarantees convergence to the baseline layer
// within at most N error events.
//
// All transitions are serialized by a mutex; timer callbacks re-enter
// through the same mutex and are guarded against staleness before applying
// effects. A tile load error is never an error value here: it is input data
// to the transition table.
type Controller struct {
	mu       sync.Mutex
	state    FallbackState
	catalog  *Catalog
	surface  MapSurface
	notifier StatusNotifier
	logger   *zap.Logger
	cfg      ControllerConfig

	// clearGen invalidates a scheduled status clear when a new selection
	// happens before the timer fires.
	clearGen   uint64
	clearTimer *time.Timer
}

var _ LoadReporter = (*Controller)(nil)

// NewController creates a controller in the baseline state. The caller is
// expected to invoke SelectBaseline once wiring is complete to mount the
// baseline layer on the surface.
func NewController(catalog *Catalog, surface MapSurface, notifier StatusNotifier, logger *zap.Logger, cfg ControllerConfig) *Controller {
	return &Controller{
		state:    initialState(),
		catalog:  catalog,
		surface:  surface,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// State returns a copy of the current fallback state.
func (c *Controller) State() FallbackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveDescriptor returns the provider currently requested from the
// surface: the baseline descriptor, or the fallback candidate at the
// current attempt index.
func (c *Controller) ActiveDescriptor() models.ProviderDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Selection == SelectionFallback {
		if desc, ok := c.catalog.Provider(c.state.AttemptIndex); ok {
			return desc
		}
	}
	return c.catalog.Baseline()
}

// SelectBaseline forces the baseline layer unconditionally. Idempotent.
func (c *Controller) SelectBaseline() {
	c.apply(event{kind: eventSelectBaseline})
}

// SelectFallback starts a fresh fallback attempt sequence from provider 0.
// No-op while a sequence is already running.
func (c *Controller) SelectFallback() {
	c.apply(event{kind: eventSelectFallback})
}

// OnTileLoadSuccess records a successful tile load from the fallback source
// mounted at the given attempt index. No-op in baseline and for stale
// attempt indexes.
func (c *Controller) OnTileLoadSuccess(attempt int) {
	c.apply(event{kind: eventTileLoad, attempt: attempt})
}

// OnTileLoadError records a failed tile load from the fallback source
// mounted at the given attempt index. Advances to the next candidate, or
// reverts to baseline once the catalog is exhausted. No-op in baseline and
// for stale attempt indexes.
func (c *Controller) OnTileLoadError(attempt int) {
	c.apply(event{kind: eventTileError, attempt: attempt})
}

// apply runs one event through the transition function and executes the
// resulting effects. This is the only writer of c.state.
func (c *Controller) apply(ev event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(ev) {
		c.logger.Debug("discarding stale tile event",
			zap.String("event", ev.kind.String()),
			zap.Int("event_attempt", ev.attempt),
			zap.Int("current_attempt", c.state.AttemptIndex),
			zap.String("selection", c.state.Selection.String()))
		return
	}

	prev := c.state
	next, effects := transition(c.state, ev, c.catalog.Len())
	c.state = next

	if prev != next {
		c.logger.Info("fallback state transition",
			zap.String("event", ev.kind.String()),
			zap.String("selection", next.Selection.String()),
			zap.Int("attempt", next.AttemptIndex))
	}

	for _, ef := range effects {
		c.execute(ef)
	}
}

// stale reports whether a tile event no longer matches the mounted source.
// Selection events are never stale; tile events in baseline fall through to
// the transition table, which treats them as no-ops.
func (c *Controller) stale(ev event) bool {
	if ev.kind != eventTileLoad && ev.kind != eventTileError {
		return false
	}
	if c.state.Selection != SelectionFallback {
		return false
	}
	return ev.attempt != c.state.AttemptIndex
}

// execute performs a single effect. Called with the mutex held.
func (c *Controller) execute(ef effect) {
	switch ef.kind {
	case effectMountFallback:
		desc, ok := c.catalog.Provider(c.state.AttemptIndex)
		if !ok {
			// Catalog invariant violated; fall back to baseline rather than
			// mounting nothing.
			c.logger.Error("attempt index outside catalog", zap.Int("attempt", c.state.AttemptIndex))
			c.surface.MountBaseline(c.catalog.Baseline())
			return
		}
		c.surface.MountFallback(desc, c.state.AttemptIndex)

	case effectMountBaseline:
		c.surface.MountBaseline(c.catalog.Baseline())

	case effectShowStatus:
		c.notifier.Show(ef.message)

	case effectClearStatus:
		c.notifier.Clear()

	case effectCancelStatusClear:
		c.clearGen++
		if c.clearTimer != nil {
			c.clearTimer.Stop()
			c.clearTimer = nil
		}

	case effectScheduleStatusClear:
		c.clearGen++
		gen := c.clearGen
		c.clearTimer = time.AfterFunc(c.cfg.StatusClearDelay, func() {
			c.clearStatusIfCurrent(gen)
		})

	case effectSettleRedraw:
		time.AfterFunc(c.cfg.SettleDelay, c.surface.InvalidateSize)

	case effectRevertRedraw:
		time.AfterFunc(c.cfg.RevertRedrawDelay, c.surface.InvalidateSize)
	}
}

// clearStatusIfCurrent runs in the clear timer. A selection that happened
// after scheduling bumps clearGen, so a timer that lost the race to Stop is
// still discarded here instead of wiping a fresh status.
func (c *Controller) clearStatusIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.clearGen {
		return
	}
	c.clearTimer = nil
	c.state.StatusMessage = ""
	c.notifier.Clear()
}

package tiles

import "github.com/geoview/poimap/models"

// MapSurface is the rendering-surface collaborator the controller drives.
// Implementations guarantee at most one active fallback tile source at a
// time: mounting a layer fully tears down the previous one, and in-flight
// work from a torn-down source must not surface as controller events.
type MapSurface interface {
	// MountFallback mounts the given fallback provider. The attempt index is
	// the key the surface must attach to every tile outcome it reports back,
	// so the controller can discard stale events.
	MountFallback(desc models.ProviderDescriptor, attempt int)

	// MountBaseline mounts the baseline provider.
	MountBaseline(desc models.ProviderDescriptor)

	// InvalidateSize asks the surface to recompute its dimensions and
	// redraw. Called from deferred timers; late calls are harmless.
	InvalidateSize()
}

// LoadReporter receives tile outcomes from a surface. The attempt index is
// the one captured at mount time.
type LoadReporter interface {
	OnTileLoadSuccess(attempt int)
	OnTileLoadError(attempt int)
}

package viewer

import (
	"log/slog"
	"sync"
)

// Initializer hands a Config to the rendering library and returns whatever
// handle it produces. The handle is opaque to the bootstrapper.
type Initializer[H any] func(Config) (H, error)

// Bootstrapper runs an Initializer once, on the first Load, and keeps the
// handle it returned.
type Bootstrapper[H any] struct {
	cfg  Config
	init Initializer[H]

	once   sync.Once
	mu     sync.RWMutex
	loaded bool
	handle H
	err    error
}

// NewBootstrapper creates a bootstrapper in the unloaded state.
func NewBootstrapper[H any](cfg Config, init Initializer[H]) *Bootstrapper[H] {
	return &Bootstrapper[H]{cfg: cfg, init: init}
}

// Load fires the load event. Only the first call reaches the initializer;
// later calls return the result of that first call. Initializer errors are
// returned as they are and left to the caller to report.
func (b *Bootstrapper[H]) Load() (H, error) {
	b.once.Do(func() {
		h, err := b.init(b.cfg)

		b.mu.Lock()
		b.handle, b.err, b.loaded = h, err, true
		b.mu.Unlock()

		if err != nil {
			return
		}
		slog.Info("viewer initialized", "spec_url", b.cfg.SpecURL, "dom_id", b.cfg.MountTarget)
	})

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handle, b.err
}

// Handle returns the retained handle and whether Load has run.
func (b *Bootstrapper[H]) Handle() (H, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handle, b.loaded
}

// Config returns the configuration the bootstrapper was built with.
func (b *Bootstrapper[H]) Config() Config {
	return b.cfg
}

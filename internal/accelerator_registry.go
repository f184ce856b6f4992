package internal

import (
	"fmt"
	"sync"

	"github.com/lychee-technology/queryc"
)

// AcceleratorRegistry is the process-wide Engine -> Accelerator directory.
// Accelerator implementations register themselves once at boot; lookups
// happen on every accelerated-dataset creation, so reads are lock-free
// with respect to each other. Grounded on the EndpointStore's
// RWMutex-guarded map, itself grounded on the teacher's registry pattern.
type AcceleratorRegistry struct {
	mu      sync.RWMutex
	engines map[queryc.Engine]queryc.Accelerator
}

// NewAcceleratorRegistry returns an empty registry.
func NewAcceleratorRegistry() *AcceleratorRegistry {
	return &AcceleratorRegistry{engines: make(map[queryc.Engine]queryc.Accelerator)}
}

// Register binds an accelerator implementation to an engine tag,
// overwriting whatever was previously registered for that tag.
func (r *AcceleratorRegistry) Register(engine queryc.Engine, accelerator queryc.Accelerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[engine] = accelerator
}

// Get returns the accelerator registered for engine, if any.
func (r *AcceleratorRegistry) Get(engine queryc.Engine) (queryc.Accelerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.engines[engine]
	return a, ok
}

// closer is implemented by accelerators holding a live connection or
// file handle that must be released at shutdown.
type closer interface {
	Close() error
}

// Close releases every registered accelerator that holds a closeable
// resource, collecting (rather than short-circuiting on) the first
// error so a failure to close one engine doesn't strand the rest open.
func (r *AcceleratorRegistry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var firstErr error
	for engine, a := range r.engines {
		c, ok := a.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s accelerator: %w", engine, err)
		}
	}
	return firstErr
}

package datasource

import (
	"sync"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// Registry is a process-wide, concurrency-safe extension-to-FormatSpec
// catalog, mirroring expr.Registry's replace-on-register semantics: "A
// format is registered with the host engine under its extension();
// URL-based table access then matches on suffix" (spec.md §6).
type Registry struct {
	mu    sync.RWMutex
	specs map[string]FormatSpec
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]FormatSpec)}
}

// Register adds spec under spec.Extension(), replacing any existing spec
// registered for that extension.
func (r *Registry) Register(spec FormatSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.Extension()] = spec
}

// Unregister removes the spec registered for ext, if any.
func (r *Registry) Unregister(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, ext)
}

// Lookup resolves the FormatSpec registered for ext.
func (r *Registry) Lookup(ext string) (FormatSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[ext]
	if !ok {
		return nil, sedonaerrors.Planf("no file format registered for extension %q", ext)
	}
	return spec, nil
}

// DefaultRegistry is the process-wide registry file formats register
// into at init time, matched against the suffix of a URL-based table
// reference.
var DefaultRegistry = NewRegistry()

package expr

import (
	"sync"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// Registry is a process-wide, concurrency-safe name-to-ScalarUDF catalog.
// Registering a name that already exists replaces the prior UDF (matching
// the reference implementation's registry semantics); Unregister removes
// an entry if present and is a no-op otherwise.
type Registry struct {
	mu   sync.RWMutex
	udfs map[string]*ScalarUDF
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{udfs: make(map[string]*ScalarUDF)}
}

// Register adds udf under udf.Name, replacing any existing entry of the
// same name, and returns the entry it replaced (nil if there was none).
func (r *Registry) Register(udf *ScalarUDF) *ScalarUDF {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.udfs[udf.Name]
	r.udfs[udf.Name] = udf
	return prev
}

// Unregister removes the named UDF, returning it (nil if absent).
func (r *Registry) Unregister(name string) *ScalarUDF {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.udfs[name]
	if !ok {
		return nil
	}
	delete(r.udfs, name)
	return prev
}

// Lookup returns the named UDF, or a Plan error if no function of that
// name is registered.
func (r *Registry) Lookup(name string) (*ScalarUDF, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	udf, ok := r.udfs[name]
	if !ok {
		return nil, sedonaerrors.Planf("no function named %q is registered", name)
	}
	return udf, nil
}

// Names returns every currently-registered function name, in no
// particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.udfs))
	for n := range r.udfs {
		names = append(names, n)
	}
	return names
}

// DefaultRegistry is the process-wide registry the Functions packages
// register their UDFs into at init time, and query planning looks
// functions up from.
var DefaultRegistry = NewRegistry()

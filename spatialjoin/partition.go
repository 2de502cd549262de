package spatialjoin

import (
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// GeoStatistics summarizes the build side's geometry column for the
// join planner: how many rows were collected and the bounding box
// their geometries span, the two inputs a spatial join planner needs
// to decide things like index granularity. Bound uses paulmach/orb,
// already a dependency for WKB/WKT conversion elsewhere in this
// module, rather than inventing a parallel bounding-box type.
type GeoStatistics struct {
	RowCount int64
	Bound    orb.Bound
	boundSet bool
}

// NewGeoStatistics builds an empty GeoStatistics (no rows observed
// yet).
func NewGeoStatistics() *GeoStatistics {
	return &GeoStatistics{}
}

// Observe folds one geometry's bounding box into the running
// statistics.
func (s *GeoStatistics) Observe(g orb.Geometry) {
	s.RowCount++
	if g == nil {
		return
	}
	b := g.Bound()
	if !s.boundSet {
		s.Bound = b
		s.boundSet = true
		return
	}
	s.Bound = s.Bound.Union(b)
}

// MemoryPool is the minimal shared byte-budget accounting a
// MemoryReservation grows and shrinks against, standing in for
// datafusion's MemoryPool. tryGrow fails once Limit is exceeded so a
// build side that outgrows its budget gets a clear error instead of an
// unbounded allocation.
type MemoryPool struct {
	Limit int64
	used  int64
	mu    sync.Mutex
}

// NewMemoryPool builds a pool with the given byte limit. A limit of 0
// means unbounded.
func NewMemoryPool(limit int64) *MemoryPool {
	return &MemoryPool{Limit: limit}
}

func (p *MemoryPool) tryGrow(delta int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Limit > 0 && p.used+delta > p.Limit {
		return false
	}
	p.used += delta
	return true
}

func (p *MemoryPool) shrink(delta int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used -= delta
}

// Used reports the pool's currently reserved byte count.
func (p *MemoryPool) Used() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used
}

// MemoryReservation tracks one build partition's share of a
// MemoryPool's budget, released exactly once: Rust's
// `MemoryReservation`, freed on drop, becomes an explicit Release()
// guarded by sync.Once, the same idempotent-cleanup idiom used
// elsewhere in the retrieved pack's provider/session teardown paths.
type MemoryReservation struct {
	pool     *MemoryPool
	size     int64
	released sync.Once
}

// NewMemoryReservation reserves size bytes from pool, failing if doing
// so would exceed the pool's limit.
func NewMemoryReservation(pool *MemoryPool, size int64) (*MemoryReservation, error) {
	if !pool.tryGrow(size) {
		return nil, newOutOfMemoryError(pool.Limit, size)
	}
	return &MemoryReservation{pool: pool, size: size}, nil
}

// Grow reserves additional bytes against the same pool the
// reservation was created from.
func (r *MemoryReservation) Grow(delta int64) error {
	if !r.pool.tryGrow(delta) {
		return newOutOfMemoryError(r.pool.Limit, r.Size()+delta)
	}
	atomic.AddInt64(&r.size, delta)
	return nil
}

// Size reports the reservation's current byte count.
func (r *MemoryReservation) Size() int64 {
	return atomic.LoadInt64(&r.size)
}

// Release returns the reservation's bytes to its pool. Safe to call
// more than once; only the first call has any effect.
func (r *MemoryReservation) Release() {
	r.released.Do(func() {
		r.pool.shrink(r.Size())
	})
}

// BuildPartition bundles one build-side partition's batch stream with
// its geometry statistics and the memory reservation backing it,
// exactly the three fields collect.rs's BuildPartition struct names.
type BuildPartition struct {
	Stream        BuildSideBatchStream
	GeoStatistics *GeoStatistics
	Reservation   *MemoryReservation
}

// Close releases the partition's memory reservation. The batch
// stream itself holds no separate resource beyond what the
// reservation already accounts for.
func (p *BuildPartition) Close() {
	if p.Reservation != nil {
		p.Reservation.Release()
	}
}

func newOutOfMemoryError(limit, requested int64) error {
	return sedonaerrors.Execf("build partition out of memory: requested %d bytes against a %d byte limit", requested, limit)
}

package datasource

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// FilterPushdown reports whether a single filter expression was accepted
// into the scan itself or must still be re-evaluated by the engine.
type FilterPushdown int

const (
	// NotPushedDown means the engine must still evaluate this filter;
	// the file source only received it as a hint.
	NotPushedDown FilterPushdown = iota
	// Exact means the file source fully applied this filter and the
	// engine need not re-evaluate it. No FormatSpec in this module
	// reports Exact (see FileSource.TryPushdownFilters).
	Exact
)

// Metrics is a minimal per-scan counter set, standing in for the host
// engine's ExecutionPlanMetricsSet (out of scope per spec.md §1 beyond
// the handful of counters a FileSource is expected to expose).
type Metrics struct {
	BatchesProduced int64
	RowsProduced    int64
}

// FileSource is the cloneable, structurally-shared holder spec.md §4.5
// describes: a FormatSpec plus the overridable per-scan knobs (batch
// size, file schema, projection, filter hints) the planner assembles
// incrementally via the With* builders, each returning a new FileSource
// that shares the unmodified fields with its parent rather than deep
// copying them.
type FileSource struct {
	Spec       FormatSpec
	BatchSize  *int
	FileSchema *arrow.Schema
	Projection []int
	Filters    []Filter
	Metrics    *Metrics
	Stats      Statistics
}

// NewFileSource builds a FileSource over spec with unknown statistics and
// no overrides set.
func NewFileSource(spec FormatSpec) *FileSource {
	return &FileSource{Spec: spec, Metrics: &Metrics{}, Stats: UnknownStatistics()}
}

// clone shallow-copies the FileSource so a With* method can override a
// single field without mutating the receiver.
func (s *FileSource) clone() *FileSource {
	cp := *s
	return &cp
}

// WithBatchSize returns a new FileSource with batchSize overridden.
func (s *FileSource) WithBatchSize(batchSize int) *FileSource {
	cp := s.clone()
	cp.BatchSize = &batchSize
	return cp
}

// WithFileSchema returns a new FileSource with the file schema overridden.
func (s *FileSource) WithFileSchema(schema *arrow.Schema) *FileSource {
	cp := s.clone()
	cp.FileSchema = schema
	return cp
}

// WithProjection returns a new FileSource with the column projection
// overridden.
func (s *FileSource) WithProjection(projection []int) *FileSource {
	cp := s.clone()
	cp.Projection = projection
	return cp
}

// WithStatistics returns a new FileSource with Stats overridden.
func (s *FileSource) WithStatistics(stats Statistics) *FileSource {
	cp := s.clone()
	cp.Stats = stats
	return cp
}

// TryPushdownFilters stores filters on the returned FileSource for
// forwarding to the reader as hints, but reports NotPushedDown for every
// one of them: the engine must still evaluate every filter itself. This
// matches spec.md §4.5 exactly ("the engine still evaluates them, so
// filters are forwarded to the reader purely as hints") rather than
// implementing partial pushdown, which no kernel in this module needs.
func (s *FileSource) TryPushdownFilters(filters []Filter) (*FileSource, []FilterPushdown) {
	cp := s.clone()
	cp.Filters = append(append([]Filter{}, s.Filters...), filters...)

	results := make([]FilterPushdown, len(filters))
	for i := range results {
		results[i] = NotPushedDown
	}
	return cp, results
}

// Repartitioned always reports that no alternative partitioning exists
// for this scan, per spec.md §4.5 ("repartitioned always returns no
// alternative plan"); the pluggable format's scan is explicitly excluded
// from repartitioning support (spec.md §1 Non-goals).
func (s *FileSource) Repartitioned(targetPartitions int) (*FileSource, bool) {
	return nil, false
}

// FileType returns the format's registered extension.
func (s *FileSource) FileType() string {
	return s.Spec.Extension()
}

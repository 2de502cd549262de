// Package spatialjoin implements the build-side batch stream a spatial
// join's smaller input is collected into before being indexed: the
// stream abstraction itself, an in-memory implementation, and the
// build partition that bundles a stream with its geometry statistics
// and a memory reservation released on Close.
//
// Grounded on original_source/rust/sedona-spatial-join/src/collect.rs,
// collect/build_side_batch_stream.rs, and
// collect/build_side_batch_stream/in_mem.rs. The join algorithm itself
// (spatial index construction, probe-side matching) is squarely the
// "general geometry algebra / join execution" work out of scope per
// spec.md §1; only the narrow build-partition contract those three
// files describe is implemented here.
package spatialjoin

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// BuildSideBatch is one collected batch of the spatial join's build
// (smaller) side: the record itself plus the index of its geometry
// column, which the join's spatial index is built over.
type BuildSideBatch struct {
	Record         arrow.Record
	GeometryColumn int
}

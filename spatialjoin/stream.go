package spatialjoin

import (
	"context"
)

// BuildSideBatchStream is the forward-only iterator over a spatial
// join's build side, translating the Rust trait's
// `Stream<Item = Result<BuildSideBatch>>` + `is_external()` shape into
// Go's poll-by-calling-Next idiom (the same translation
// datasource.RecordBatchReader applies to the analogous Arrow stream
// trait): Next returns io.EOF once exhausted, and IsExternal reports
// whether batches were spilled to disk rather than held in memory.
type BuildSideBatchStream interface {
	// Next returns the next collected batch, or io.EOF once the stream
	// is exhausted.
	Next(ctx context.Context) (*BuildSideBatch, error)
	// IsExternal reports whether this stream's batches are backed by
	// on-disk spill storage rather than held entirely in memory.
	IsExternal() bool
}

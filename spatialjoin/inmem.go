package spatialjoin

import (
	"context"
	"io"
)

// InMemoryBuildSideBatchStream holds every collected build-side batch
// in memory, handing them out front-to-back. It is the in-memory
// VecDeque-backed stream collect/build_side_batch_stream/in_mem.rs
// implements; Go's slice-plus-index stands in for the Rust
// VecDeque::pop_front.
type InMemoryBuildSideBatchStream struct {
	batches []BuildSideBatch
	next    int
}

// NewInMemoryBuildSideBatchStream wraps batches for sequential,
// front-to-back iteration.
func NewInMemoryBuildSideBatchStream(batches []BuildSideBatch) *InMemoryBuildSideBatchStream {
	return &InMemoryBuildSideBatchStream{batches: batches}
}

// Next returns the next batch in collection order, or io.EOF once
// every batch has been returned.
func (s *InMemoryBuildSideBatchStream) Next(ctx context.Context) (*BuildSideBatch, error) {
	if s.next >= len(s.batches) {
		return nil, io.EOF
	}
	batch := s.batches[s.next]
	s.next++
	return &batch, nil
}

// IsExternal always reports false: every batch is held in memory.
func (s *InMemoryBuildSideBatchStream) IsExternal() bool {
	return false
}

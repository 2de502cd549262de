package spatialjoin

import (
	"context"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// ExternalBuildSideBatchStream is the on-disk-spill counterpart to
// InMemoryBuildSideBatchStream, stubbed behind the same interface:
// actual spill-to-disk collection is join-execution machinery out of
// scope per spec.md §1, but the build partition's contract ("an
// external variant declared by is_external()") still needs a type that
// reports IsExternal() true so callers can branch on it without a type
// assertion.
type ExternalBuildSideBatchStream struct{}

// NewExternalBuildSideBatchStream builds the stub external stream.
func NewExternalBuildSideBatchStream() *ExternalBuildSideBatchStream {
	return &ExternalBuildSideBatchStream{}
}

// Next always fails: spilling build-side batches to disk is not
// implemented.
func (s *ExternalBuildSideBatchStream) Next(ctx context.Context) (*BuildSideBatch, error) {
	return nil, sedonaerrors.Internalf("external (spilled) build-side batch streams are not implemented")
}

// IsExternal always reports true.
func (s *ExternalBuildSideBatchStream) IsExternal() bool {
	return true
}

// Package blobstore provides the object-storage abstraction backing the
// file-format adapter's Object reference (spec.md §3): an ObjectStore
// interface with a ranged-read S3 implementation, plus local-filesystem
// and in-memory implementations used by tests and by non-cloud
// deployments.
//
// The S3Store is grounded on the reader-at/object-reader split in
// original_source-adjacent _examples/dolthub-dolt/go/store/nbs
// (s3ObjectReader, s3TableReaderAt, s3_object_reader_test.go): a thin
// wrapper around an aws-sdk-go S3 client that issues ranged GetObject
// calls and reports the object's total size from the response's
// Content-Range.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ByteRange is an inclusive-start, exclusive-length byte range within an
// object, mirroring DataFusion's FileRange referenced by spec.md's Object
// reference.
type ByteRange struct {
	Offset int64
	Length int64
}

// ObjectMeta describes a single resolved object: its location (key/path),
// size, and last-modified time. Mirrors object_store::ObjectMeta closely
// enough to serve the same role in Object.ToURLString's heuristics.
type ObjectMeta struct {
	Location     string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the minimal object-storage contract the file-format
// adapter needs: enumerate objects under a location, fetch one object's
// metadata, and read all or part of an object's bytes.
type ObjectStore interface {
	// Identity is a short diagnostic tag ("s3(bucket=<name>)",
	// "local(<root>)", "mem") that Object.ToURLString lower-cases and
	// inspects for its fallback heuristics, the way the Rust reference
	// inspects the lower-cased `{:?}` Debug representation of the store.
	Identity() string

	// Head resolves a single object's metadata.
	Head(ctx context.Context, location string) (ObjectMeta, error)

	// List enumerates objects whose location starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectMeta, error)

	// Get opens a reader over location, optionally restricted to
	// byteRange, returning the reader alongside the object's total size
	// (as reported by the store, independent of any requested range).
	Get(ctx context.Context, location string, byteRange *ByteRange) (io.ReadCloser, int64, error)
}

// ErrNotFound is returned by Head/Get when no object exists at the
// requested location.
type ErrNotFound struct {
	Location string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("object not found: %s", e.Location)
}

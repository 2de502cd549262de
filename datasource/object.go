// Package datasource implements the pluggable file-format adapter
// (spec.md §4.5): it lifts a narrow "open a record-batch reader over an
// object in blob storage" plug-in (FormatSpec) into the handful of
// operations a query planner needs from a file format — schema
// inference across a file set with bounded concurrency, optional
// per-file statistics, filter-pushdown signalling, and a single-
// partition record-batch opener.
//
// Grounded on original_source/rust/sedona-datasource/src/{spec,format}.rs
// for the trait shape (RecordBatchReaderFormatSpec, OpenReaderArgs,
// Object) and on the teacher's driver.Provider / sql.Catalog pattern
// (small interfaces resolved by name, replace-on-register registries)
// for how a Go-native adapter registers and resolves specs by extension.
package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/martin-augment/sedona-db/blobstore"
)

// Object is enough information to resolve either a bare object-store
// location or a specific object's metadata plus an optional byte range,
// per spec.md §3.
type Object struct {
	Store blobstore.ObjectStore
	URL   *string
	Meta  *blobstore.ObjectMeta
	Range *blobstore.ByteRange
}

// ToURLString renders the Object as a URL string, following the
// reference implementation's to_url_string rules verbatim: a present URL
// wins (optionally joined with the object's location); otherwise a
// heuristic "https://"/"file://" prefix is derived from the store's
// diagnostic identity; otherwise the store's debug representation is
// returned as a last resort.
func (o Object) ToURLString() string {
	switch {
	case o.URL != nil && o.Meta != nil:
		return fmt.Sprintf("%s/%s", *o.URL, o.Meta.Location)
	case o.URL != nil:
		return *o.URL
	case o.Meta != nil:
		identity := storeDebug(o.Store)
		lower := strings.ToLower(identity)
		switch {
		case strings.Contains(lower, "http"):
			return fmt.Sprintf("https://%s", o.Meta.Location)
		case strings.Contains(lower, "local"):
			return fmt.Sprintf("file:///%s", o.Meta.Location)
		default:
			return fmt.Sprintf("%s: %s", identity, o.Meta.Location)
		}
	default:
		return storeDebug(o.Store)
	}
}

func storeDebug(store blobstore.ObjectStore) string {
	if store == nil {
		return "<nil>"
	}
	return store.Identity()
}

// Filter is an opaque post-filter expression the host engine's expression
// evaluator produces. The file-format adapter never evaluates a Filter
// itself (expression evaluation is squarely the host engine's job, out
// of scope per spec.md §1); it only stores, forwards, and stringifies
// them for pushdown-reporting purposes.
type Filter interface {
	String() string
}

// OpenReaderArgs carries everything a FormatSpec needs to open a
// record-batch reader over one object: the object reference, the
// requested batch size, the full file schema, an optional column
// projection, and optional post-filter expressions offered as pushdown
// hints.
type OpenReaderArgs struct {
	Src            Object
	BatchSize      *int
	FileSchema     *arrow.Schema
	FileProjection []int
	Filters        []Filter
}

// RecordBatchReader is the finite, forward-only iterator a FormatSpec's
// OpenReader produces. It need not be restartable: a fresh OpenReader
// call is required to read the object again.
type RecordBatchReader interface {
	// Schema is the reader's output schema (may be a projected subset of
	// the file schema).
	Schema() *arrow.Schema
	// Next returns the next record batch, or io.EOF once exhausted. Each
	// call yields cooperatively: Next does at most one unit of
	// object-store I/O before returning, so the engine's executor can
	// interleave other partitions' work between calls.
	Next(ctx context.Context) (arrow.Record, error)
	// Close releases any resources (in particular, the underlying
	// object-store request) held by the reader.
	Close() error
}

// Statistics is the (possibly unknown) per-file or per-table row/byte
// statistics a FormatSpec may report. A zero-value Statistics means
// "unknown", matching datafusion_common::Statistics::new_unknown.
type Statistics struct {
	NumRows       *int64
	TotalByteSize *int64
}

// UnknownStatistics returns the default "nothing is known" Statistics.
func UnknownStatistics() Statistics {
	return Statistics{}
}

// FormatSpec is the core-owned plug-in contract spec.md §4.5 calls a
// "simple spec": the entire surface a new file format implementation
// must provide. Extension/WithOptions/InferSchema/OpenReader are
// required; InferStats is optional (embed UnimplementedStats to get the
// "unknown" default for free, mirroring the Rust trait's default method
// body).
type FormatSpec interface {
	// Extension is the filename suffix (without a leading dot) this spec
	// registers and recognizes under, e.g. "parquet" or "geoparquet".
	Extension() string

	// WithOptions returns a (possibly new) spec configured from a
	// string-to-string option map. Invalid options must be rejected here,
	// not deferred to OpenReader/InferSchema time.
	WithOptions(options map[string]string) (FormatSpec, error)

	// InferSchema asynchronously reads enough of the object to report an
	// Arrow schema.
	InferSchema(ctx context.Context, obj Object) (*arrow.Schema, error)

	// InferStats reports statistics for a single object, given the
	// unified table schema. Implementations that have no cheap way to
	// compute stats should embed UnimplementedStats.
	InferStats(ctx context.Context, obj Object, tableSchema *arrow.Schema) (Statistics, error)

	// OpenReader asynchronously produces a finite record-batch iterator
	// over args.Src.
	OpenReader(ctx context.Context, args *OpenReaderArgs) (RecordBatchReader, error)
}

// UnimplementedStats is embedded by FormatSpec implementations that have
// no per-object statistics to offer; InferStats then always reports
// UnknownStatistics(), matching the reference trait's default method.
type UnimplementedStats struct{}

func (UnimplementedStats) InferStats(context.Context, Object, *arrow.Schema) (Statistics, error) {
	return UnknownStatistics(), nil
}

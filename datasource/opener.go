package datasource

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// Opener produces the single record-batch stream for one partition of a
// FileScanConfig. spec.md §4.5/§5 call for exactly one partition (index
// 0): the pluggable format's scan is never repartitioned, so an opener
// invoked with any other partition index signals a violated invariant
// (an Internal error, not a user-facing one).
type Opener struct {
	Source *FileSource
}

// NewOpener builds an Opener over source.
func NewOpener(source *FileSource) *Opener {
	return &Opener{Source: source}
}

// Open asserts partition == 0, opens the FormatSpec's reader over obj,
// and wraps it as a BatchStream. The reader itself is opened lazily by
// the FormatSpec (which may issue its first object-store request at this
// point), matching the "opener yields a single file-reader future per
// partition" phrasing in spec.md §5.
func (o *Opener) Open(ctx context.Context, partition int, obj Object) (*BatchStream, error) {
	if partition != 0 {
		return nil, sedonaerrors.Internalf("file opener invoked for partition %d; the pluggable format scan has exactly one partition", partition)
	}

	args := &OpenReaderArgs{
		Src:            obj,
		BatchSize:      o.Source.BatchSize,
		FileSchema:     o.Source.FileSchema,
		FileProjection: o.Source.Projection,
		Filters:        o.Source.Filters,
	}
	reader, err := o.Source.Spec.OpenReader(ctx, args)
	if err != nil {
		return nil, err
	}
	return &BatchStream{reader: reader, metrics: o.Source.Metrics}, nil
}

// BatchStream is the asynchronous stream of record batches the engine
// polls once per batch ("Iteration is cooperative: each batch yields
// once", spec.md §5). It is a thin, metrics-counting wrapper over the
// FormatSpec's RecordBatchReader.
type BatchStream struct {
	reader  RecordBatchReader
	metrics *Metrics
}

// Schema is the stream's output schema.
func (s *BatchStream) Schema() *arrow.Schema {
	return s.reader.Schema()
}

// Next returns the next batch, or io.EOF once the underlying reader is
// exhausted.
func (s *BatchStream) Next(ctx context.Context) (arrow.Record, error) {
	rec, err := s.reader.Next(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BatchesProduced++
		s.metrics.RowsProduced += rec.NumRows()
	}
	return rec, nil
}

// Close releases the underlying reader, and with it any outstanding
// object-store request or pending memory reservation (spec.md §5's
// cancellation contract: "dropping a stream or future must release the
// underlying object-store request and any pending memory reservation").
func (s *BatchStream) Close() error {
	return s.reader.Close()
}

package geoparquet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/segmentio/parquet-go"

	"github.com/martin-augment/sedona-db/datasource"
	"github.com/martin-augment/sedona-db/geom"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// FormatSpec is the production datasource.FormatSpec for GeoParquet:
// it reads a Parquet file's row groups, decodes the optional "geo"
// metadata key to identify geometry columns, and normalizes every
// geometry column (whether the file encoded it as WKB or WKT) to the
// module's canonical WKB logical type on the way out, per spec.md §3.
//
// Registered under the "parquet" extension: real GeoParquet producers
// write plain ".parquet" files and signal geometry columns purely
// through the "geo" metadata entry, not through a distinct file suffix.
type FormatSpec struct {
	batchSize int
}

// NewFormatSpec builds a GeoParquet FormatSpec with the default batch
// size.
func NewFormatSpec() *FormatSpec {
	return &FormatSpec{batchSize: defaultRowBatchSize}
}

func (s *FormatSpec) Extension() string { return "parquet" }

// WithOptions supports a single option, "batch_size", overriding how
// many rows each produced record batch holds.
func (s *FormatSpec) WithOptions(options map[string]string) (datasource.FormatSpec, error) {
	cp := *s
	for k, v := range options {
		switch k {
		case "batch_size":
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
				return nil, sedonaerrors.Planf("invalid batch_size option: %q", v)
			}
			cp.batchSize = n
		default:
			return nil, sedonaerrors.Planf("unknown geoparquet option: %s", k)
		}
	}
	return &cp, nil
}

// openParquetFile opens obj (respecting an optional byte range, though
// a GeoParquet footer read normally wants the whole object) as a
// parquet.File.
func openParquetFile(ctx context.Context, obj datasource.Object) (*parquet.File, func() error, error) {
	rc, size, err := obj.Store.Get(ctx, obj.Meta.Location, obj.Range)
	if err != nil {
		return nil, nil, err
	}
	ra, ok := rc.(io.ReaderAt)
	if !ok {
		data, readErr := io.ReadAll(rc)
		closeErr := rc.Close()
		if readErr != nil {
			return nil, nil, readErr
		}
		if closeErr != nil {
			return nil, nil, closeErr
		}
		ra = bytesReaderAt(data)
		size = int64(len(data))
		file, err := parquet.OpenFile(ra, size)
		if err != nil {
			return nil, nil, sedonaerrors.IOf("opening parquet file %s: %s", obj.ToURLString(), err)
		}
		return file, func() error { return nil }, nil
	}

	file, err := parquet.OpenFile(ra, size)
	if err != nil {
		rc.Close()
		return nil, nil, sedonaerrors.IOf("opening parquet file %s: %s", obj.ToURLString(), err)
	}
	return file, rc.Close, nil
}

// InferSchema opens obj's Parquet footer and converts its physical
// schema into an Arrow schema. Every column named in the "geo" metadata
// (or, absent that metadata, the single column named "geometry") gets
// geom.WKB_GEOMETRY's physical type (arrow Binary); the returned schema
// carries no marker that sets these columns apart from other binary
// columns.
func (s *FormatSpec) InferSchema(ctx context.Context, obj datasource.Object) (*arrow.Schema, error) {
	file, closeFile, err := openParquetFile(ctx, obj)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	geo, err := resolveMetadata(file)
	if err != nil {
		return nil, err
	}

	var fields []arrow.Field
	for _, field := range file.Schema().Fields() {
		name := field.Name()
		if _, isGeometry := geo.Columns[name]; isGeometry {
			fields = append(fields, arrow.Field{Name: name, Type: geom.WKB_GEOMETRY.Physical, Nullable: !field.Required()})
			continue
		}
		arrowType, err := arrowTypeForNode(field)
		if err != nil {
			return nil, sedonaerrors.Planf("column %q: %s", name, err)
		}
		fields = append(fields, arrow.Field{Name: name, Type: arrowType, Nullable: !field.Required()})
	}
	return arrow.NewSchema(fields, nil), nil
}

// InferStats reports the row count straight from the Parquet footer,
// which is always known without reading any row data.
func (s *FormatSpec) InferStats(ctx context.Context, obj datasource.Object, tableSchema *arrow.Schema) (datasource.Statistics, error) {
	file, closeFile, err := openParquetFile(ctx, obj)
	if err != nil {
		return datasource.Statistics{}, err
	}
	defer closeFile()

	numRows := file.NumRows()
	size := obj.Meta.Size
	return datasource.Statistics{NumRows: &numRows, TotalByteSize: &size}, nil
}

// OpenReader opens a row-batching reader over obj, normalizing every
// geometry column to WKB and passing every other column through using
// the file schema's reconstructed Go value.
func (s *FormatSpec) OpenReader(ctx context.Context, args *datasource.OpenReaderArgs) (datasource.RecordBatchReader, error) {
	file, closeFile, err := openParquetFile(ctx, args.Src)
	if err != nil {
		return nil, err
	}

	geo, err := resolveMetadata(file)
	if err != nil {
		closeFile()
		return nil, err
	}

	schema := args.FileSchema
	if schema == nil {
		schema, err = (&FormatSpec{}).InferSchema(ctx, args.Src)
		if err != nil {
			closeFile()
			return nil, err
		}
	}

	batchSize := s.batchSize
	if args.BatchSize != nil {
		batchSize = *args.BatchSize
	}
	if batchSize <= 0 {
		batchSize = defaultRowBatchSize
	}

	return &reader{
		file:      file,
		closeFile: closeFile,
		rows:      NewRowReader(file),
		pqSchema:  file.Schema(),
		schema:    schema,
		geo:       geo,
		batchSize: batchSize,
	}, nil
}

type reader struct {
	file      *parquet.File
	closeFile func() error
	rows      *RowReader
	pqSchema  *parquet.Schema
	schema    *arrow.Schema
	geo       *Metadata
	batchSize int
	done      bool
}

func (r *reader) Schema() *arrow.Schema { return r.schema }

// Next assembles up to r.batchSize rows into one record batch,
// decoding each geometry column's value to WKB along the way. It
// returns a short final batch rather than padding it, and io.EOF once
// the row reader is exhausted with nothing buffered.
func (r *reader) Next(ctx context.Context) (arrow.Record, error) {
	if r.done {
		return nil, io.EOF
	}

	builders := make([]array.Builder, r.schema.NumFields())
	for i, f := range r.schema.Fields() {
		builders[i] = array.NewBuilder(memory.DefaultAllocator, f.Type)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	rowsInBatch := 0
	for rowsInBatch < r.batchSize {
		row, err := r.rows.Next()
		if err == io.EOF {
			r.done = true
			break
		}
		if err != nil {
			return nil, sedonaerrors.IOf("reading parquet row: %s", err)
		}

		properties := map[string]any{}
		if err := r.pqSchema.Reconstruct(&properties, row); err != nil {
			return nil, sedonaerrors.IOf("reconstructing parquet row: %s", err)
		}

		for i, f := range r.schema.Fields() {
			if err := appendValue(builders[i], f, properties[f.Name], r.geo.Columns[f.Name]); err != nil {
				return nil, err
			}
		}
		rowsInBatch++
	}

	if rowsInBatch == 0 {
		return nil, io.EOF
	}

	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
		defer cols[i].Release()
	}
	return array.NewRecord(r.schema, cols, int64(rowsInBatch)), nil
}

func (r *reader) Close() error {
	if err := r.rows.Close(); err != nil {
		r.closeFile()
		return err
	}
	return r.closeFile()
}

// appendValue appends value (as reconstructed by parquet.Schema's
// generic decoder) to builder, normalizing geometry columns to WKB.
func appendValue(builder array.Builder, field arrow.Field, value any, geoCol *GeometryColumn) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	if geoCol != nil {
		wkbBytes, err := normalizeToWKB(value, geoCol)
		if err != nil {
			return sedonaerrors.Execf("decoding geometry column %q: %s", field.Name, err)
		}
		builder.(*array.BinaryBuilder).Append(wkbBytes)
		return nil
	}

	switch b := builder.(type) {
	case *array.StringBuilder:
		b.Append(fmt.Sprintf("%v", value))
	case *array.BinaryBuilder:
		bytesVal, ok := value.([]byte)
		if !ok {
			return sedonaerrors.Execf("column %q: expected []byte, got %T", field.Name, value)
		}
		b.Append(bytesVal)
	case *array.Int64Builder:
		n, ok := toInt64(value)
		if !ok {
			return sedonaerrors.Execf("column %q: expected integer, got %T", field.Name, value)
		}
		b.Append(n)
	case *array.Int32Builder:
		n, ok := toInt64(value)
		if !ok {
			return sedonaerrors.Execf("column %q: expected integer, got %T", field.Name, value)
		}
		b.Append(int32(n))
	case *array.Float32Builder:
		f, ok := toFloat64(value)
		if !ok {
			return sedonaerrors.Execf("column %q: expected float, got %T", field.Name, value)
		}
		b.Append(float32(f))
	case *array.Float64Builder:
		f, ok := toFloat64(value)
		if !ok {
			return sedonaerrors.Execf("column %q: expected float, got %T", field.Name, value)
		}
		b.Append(f)
	case *array.BooleanBuilder:
		boolVal, ok := value.(bool)
		if !ok {
			return sedonaerrors.Execf("column %q: expected bool, got %T", field.Name, value)
		}
		b.Append(boolVal)
	default:
		return sedonaerrors.Execf("column %q: unsupported arrow builder %T", field.Name, builder)
	}
	return nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

// normalizeToWKB converts a raw geometry column value (a WKT string or
// WKB []byte, per geoCol's declared encoding) to its WKB byte run.
func normalizeToWKB(value any, geoCol *GeometryColumn) ([]byte, error) {
	switch strings.ToUpper(geoCol.ResolvedEncoding()) {
	case EncodingWKB:
		bytesVal, ok := value.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte for WKB-encoded geometry, got %T", value)
		}
		return bytesVal, nil
	case EncodingWKT:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string for WKT-encoded geometry, got %T", value)
		}
		g, err := wkt.Unmarshal(text)
		if err != nil {
			return nil, fmt.Errorf("parsing WKT: %w", err)
		}
		return wkb.Marshal(g)
	default:
		return nil, fmt.Errorf("unsupported geometry encoding: %s", geoCol.Encoding)
	}
}

// resolveMetadata returns file's decoded "geo" metadata, or
// DefaultMetadata() when the file carries none.
func resolveMetadata(file *parquet.File) (*Metadata, error) {
	meta, err := GetMetadata(file)
	if err == nil {
		return meta, nil
	}
	if err == ErrNoMetadata {
		return DefaultMetadata(), nil
	}
	return nil, sedonaerrors.IOf("decoding geo metadata: %s", err)
}

var stringType = parquet.String().Type()

// arrowTypeForNode maps a non-geometry Parquet leaf field to an Arrow
// type, matching the handful of primitive kinds a columnar execution
// kernel cares about (spec.md's kernels never observe Int96 or nested
// group columns directly; those are passed through as opaque strings
// via their reconstructed Go representation).
func arrowTypeForNode(field parquet.Field) (arrow.DataType, error) {
	nodeType := field.Type()
	switch nodeType.Kind() {
	case parquet.Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case parquet.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case parquet.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case parquet.Float:
		return arrow.PrimitiveTypes.Float32, nil
	case parquet.Double:
		return arrow.PrimitiveTypes.Float64, nil
	case parquet.ByteArray:
		if nodeType == stringType {
			return arrow.BinaryTypes.String, nil
		}
		return arrow.BinaryTypes.Binary, nil
	default:
		return arrow.BinaryTypes.String, nil
	}
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

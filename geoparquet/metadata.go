// Package geoparquet decodes and produces the GeoParquet "geo" file
// metadata key and adapts it into a concrete datasource.FormatSpec: the
// production file format spec.md §1 names as the motivating format for
// the pluggable adapter (the echospec format in the datasource package's
// tests is the synthetic stand-in; this is the real one).
//
// Grounded on planetlabs/gpq's internal/geoparquet/geoparquet.go (kept
// under _examples/other_examples/), trimmed to the read path: the
// conversion/write tooling the reference file also offers is out of
// scope (spec.md §1 excludes the pluggable format's write path).
package geoparquet

import (
	"encoding/json"
	"fmt"

	"github.com/segmentio/parquet-go"
)

const (
	// MetadataVersion is the "geo" metadata schema version this reader
	// understands. Newer minor versions are accepted as-is; this package
	// never rejects a file solely for reporting a later minor version.
	MetadataVersion = "1.0.0"
	// MetadataKey is the Parquet key-value metadata entry GeoParquet
	// files carry their schema under.
	MetadataKey = "geo"

	// EncodingWKB and EncodingWKT are the two geometry encodings the
	// GeoParquet metadata contract recognizes for a geometry column.
	EncodingWKB = "WKB"
	EncodingWKT = "WKT"

	defaultGeometryColumn = "geometry"
)

// Metadata is the decoded "geo" key-value metadata entry.
type Metadata struct {
	Version       string                     `json:"version"`
	PrimaryColumn string                     `json:"primary_column"`
	Columns       map[string]*GeometryColumn `json:"columns"`
}

// GeometryColumn describes one geometry-typed column within Metadata.
type GeometryColumn struct {
	Encoding      string    `json:"encoding"`
	GeometryType  any       `json:"geometry_type,omitempty"`
	GeometryTypes any       `json:"geometry_types"`
	CRS           any       `json:"crs,omitempty"`
	Edges         string    `json:"edges,omitempty"`
	Orientation   string    `json:"orientation,omitempty"`
	Bounds        []float64 `json:"bbox,omitempty"`
}

// ResolvedEncoding returns col's declared encoding, defaulting to WKB
// when the metadata entry omits it (the common case for files written
// by most GeoParquet producers).
func (col *GeometryColumn) ResolvedEncoding() string {
	if col == nil || col.Encoding == "" {
		return EncodingWKB
	}
	return col.Encoding
}

// DefaultMetadata is the metadata this package assumes for a plain
// Parquet file that carries no "geo" key: a single geometry column
// named "geometry", encoded as WKB.
func DefaultMetadata() *Metadata {
	return &Metadata{
		Version:       MetadataVersion,
		PrimaryColumn: defaultGeometryColumn,
		Columns: map[string]*GeometryColumn{
			defaultGeometryColumn: {Encoding: EncodingWKB},
		},
	}
}

// ErrNoMetadata is returned by GetMetadata when file carries no "geo"
// key-value entry.
var ErrNoMetadata = fmt.Errorf("missing %s metadata key", MetadataKey)

// GetMetadataValue returns the raw "geo" metadata string from file's
// footer.
func GetMetadataValue(file *parquet.File) (string, error) {
	value, ok := file.Lookup(MetadataKey)
	if !ok {
		return "", ErrNoMetadata
	}
	return value, nil
}

// GetMetadata decodes file's "geo" key-value metadata entry.
func GetMetadata(file *parquet.File) (*Metadata, error) {
	value, err := GetMetadataValue(file)
	if err != nil {
		return nil, err
	}
	meta := &Metadata{}
	if err := json.Unmarshal([]byte(value), meta); err != nil {
		return nil, fmt.Errorf("unable to parse geo metadata: %w", err)
	}
	return meta, nil
}

// Package geom holds the geometry type model (geometry type ids, dimension
// enums, and the logical-type tags distinguishing a length-addressed WKB
// column from a view-addressed one) and the WKB fast-path header reader.
//
// The type ids and dimension encoding mirror the WKB/EWKB wire format
// described in spec.md §3 and are grounded on
// original_source/rust/sedona-geometry/src/wkb_header.rs.
package geom

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// GeometryTypeId is the low-3-bits WKB geometry type code.
type GeometryTypeId uint8

const (
	Point GeometryTypeId = iota + 1
	LineString
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
	GeometryCollection
)

func (g GeometryTypeId) String() string {
	switch g {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	case GeometryCollection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}

// GeometryTypeIDFromWKB maps the low 3 bits of a WKB type code to a
// GeometryTypeId, rejecting codes outside 1..7.
func GeometryTypeIDFromWKB(code uint32) (GeometryTypeId, error) {
	id := GeometryTypeId(code & 0x7)
	if id < Point || id > GeometryCollection {
		return 0, sedonaerrors.WKBf("unexpected geometry type code: %d", code)
	}
	return id, nil
}

// Dimensions is the coordinate dimensionality of a geometry: XY, XYZ, XYM,
// or XYZM, encoded in WKB by integer-dividing the type code by 1000.
type Dimensions uint8

const (
	XY Dimensions = iota
	XYZ
	XYM
	XYZM
)

func (d Dimensions) String() string {
	switch d {
	case XY:
		return "XY"
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	default:
		return "Unknown"
	}
}

// Stride returns the number of float64 coordinate components per vertex:
// 2 for XY, 3 for XYZ/XYM, 4 for XYZM.
func (d Dimensions) Stride() int {
	switch d {
	case XY:
		return 2
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// DimensionsFromCode derives the Dimensions from a raw WKB type code (the
// divisor-of-1000 convention).
func DimensionsFromCode(code uint32) (Dimensions, error) {
	switch code / 1000 {
	case 0:
		return XY, nil
	case 1:
		return XYZ, nil
	case 2:
		return XYM, nil
	case 3:
		return XYZM, nil
	default:
		return 0, sedonaerrors.WKBf("unexpected dimension code: %d", code)
	}
}

// WKB_MIN_PROBABLE_BYTES seeds output-builder byte capacity: a tunable
// lower-bound guess of the average WKB payload size per row so kernels can
// pre-size their BinaryBuilder without a second pass over the input.
// Mirrors the constant of the same name referenced throughout
// original_source/rust/sedona-functions/src/st_start_point.rs.
const WKB_MIN_PROBABLE_BYTES = 32

// SedonaType tags a physical arrow type as carrying geometry-valued WKB
// payloads. Two logical variants share identical payload semantics: a
// length-addressed Binary column and a view-addressed BinaryView column.
// The scalar-kernel framework accepts either wherever a geometry argument
// is expected.
type SedonaType struct {
	// Logical is a short tag used in error messages and the function
	// registry ("wkb_geometry" / "wkb_view_geometry" / "arrow:<type>").
	Logical string
	// Physical is the underlying arrow storage type.
	Physical arrow.DataType
}

// IsGeometry reports whether the type is one of the two WKB geometry
// logical types.
func (t SedonaType) IsGeometry() bool {
	return t.Logical == wkbGeometryTag || t.Logical == wkbViewGeometryTag
}

func (t SedonaType) String() string {
	return t.Logical
}

const (
	wkbGeometryTag     = "wkb_geometry"
	wkbViewGeometryTag = "wkb_view_geometry"
)

// WKB_GEOMETRY is the length-addressed geometry logical type, physically a
// arrow Binary column.
var WKB_GEOMETRY = SedonaType{Logical: wkbGeometryTag, Physical: arrow.BinaryTypes.Binary}

// WKB_VIEW_GEOMETRY is the view-addressed geometry logical type,
// physically an arrow BinaryView column.
var WKB_VIEW_GEOMETRY = SedonaType{Logical: wkbViewGeometryTag, Physical: arrow.BinaryTypes.BinaryView}

// ArrowType wraps a plain arrow type (e.g. Float64, Boolean, Utf8) that
// carries no geometry meaning, for use in ArgMatcher/return-type
// signatures alongside the geometry logical types.
func ArrowType(t arrow.DataType) SedonaType {
	return SedonaType{Logical: "arrow:" + t.Name(), Physical: t}
}

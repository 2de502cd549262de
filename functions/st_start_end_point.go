package functions

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/martin-augment/sedona-db/columnar"
	"github.com/martin-augment/sedona-db/expr"
	"github.com/martin-augment/sedona-db/geom"
)

// stStartOrEndPointKernel extracts a LineString's first or last vertex by
// splicing its raw coordinate bytes directly out of the input WKB buffer
// into a freshly built little-endian WKB Point, rather than fully parsing
// and re-encoding the geometry.
//
// Grounded byte-for-byte on
// original_source/rust/sedona-functions/src/st_start_point.rs: it matches
// the input type code's first two little-endian bytes against the four
// LineString XY/XYZ/XYM/XYZM encodings, writes the corresponding Point
// type code, and copies the first (start) or last (end) vertex's
// coordinate bytes verbatim (valid because WKB stores coordinates as
// fixed-width native floats, so a vertex's bytes are identical whether
// read as part of a LineString or a standalone Point).
type stStartOrEndPointKernel struct {
	fromStart bool
}

func (k *stStartOrEndPointKernel) ArgMatchers() []expr.ArgMatcher {
	return []expr.ArgMatcher{expr.IsGeometry()}
}

func (k *stStartOrEndPointKernel) ReturnType([]geom.SedonaType) (geom.SedonaType, error) {
	return geom.WKB_GEOMETRY, nil
}

// lineStringVariant describes one of the four LineString dimension
// encodings this kernel recognizes: its little-endian type-code byte
// pair, the corresponding Point type-code byte pair, and the coordinate
// payload size in bytes.
type lineStringVariant struct {
	inType1, inType2   byte
	outType1, outType2 byte
	nBytes             int
}

var lineStringVariants = []lineStringVariant{
	{0x02, 0x00, 0x01, 0x00, 16}, // LineString XY -> Point XY
	{0xea, 0x03, 0xe9, 0x03, 24}, // LineString XYZ -> Point XYZ
	{0xd2, 0x07, 0xd1, 0x07, 24}, // LineString XYM -> Point XYM
	{0xba, 0x0b, 0xb9, 0x0b, 32}, // LineString XYZM -> Point XYZM
}

func matchLineStringVariant(b1, b2 byte) (lineStringVariant, bool) {
	for _, v := range lineStringVariants {
		if v.inType1 == b1 && v.inType2 == b2 {
			return v, true
		}
	}
	return lineStringVariant{}, false
}

func (k *stStartOrEndPointKernel) InvokeBatch(batch *columnar.Batch) (columnar.ColumnarValue, error) {
	exec := columnar.NewWkbExecutor(batch)
	out := array.NewBinaryBuilder(memory.DefaultAllocator, arrow.BinaryTypes.Binary)

	err := exec.ExecuteWkbVoid(0, out, func(_ int, wkb []byte, o *array.BinaryBuilder) error {
		if len(wkb) < 3 {
			o.AppendNull()
			return nil
		}
		variant, ok := matchLineStringVariant(wkb[1], wkb[2])
		if !ok {
			o.AppendNull()
			return nil
		}

		var srcOffset int
		if k.fromStart {
			srcOffset = 9
		} else {
			srcOffset = len(wkb) - variant.nBytes
		}
		if srcOffset < 9 || srcOffset+variant.nBytes > len(wkb) {
			o.AppendNull()
			return nil
		}

		item := make([]byte, 5+variant.nBytes)
		item[0] = 0x01
		item[1] = variant.outType1
		item[2] = variant.outType2
		copy(item[5:], wkb[srcOffset:srcOffset+variant.nBytes])
		o.Append(item)
		return nil
	})
	if err != nil {
		return columnar.ColumnarValue{}, err
	}

	return columnar.NewArray(geom.WKB_GEOMETRY, out.NewBinaryArray()), nil
}

// STStartPoint builds the ST_StartPoint UDF.
func STStartPoint() *expr.ScalarUDF {
	return expr.NewScalarUDF("st_start_point").AddKernel(&stStartOrEndPointKernel{fromStart: true})
}

// STEndPoint builds the ST_EndPoint UDF.
func STEndPoint() *expr.ScalarUDF {
	return expr.NewScalarUDF("st_end_point").AddKernel(&stStartOrEndPointKernel{fromStart: false})
}

func init() {
	expr.DefaultRegistry.Register(STStartPoint())
	expr.DefaultRegistry.Register(STEndPoint())
}

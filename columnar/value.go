// Package columnar implements the vectorized execution primitives scalar
// kernels operate on: a Scalar-or-Array sum type mirroring Arrow's
// ColumnarValue, a Batch of such values sharing a row count, and a
// WKB-aware executor that hides the scalar/array and null-propagation
// bookkeeping from kernel bodies.
//
// Grounded on the arrow-go v18 Array/Builder/RecordBatch API as used in
// other_examples' hugr-lab/airport-go geometry catalog
// (catalog/geometry.go, examples/geometry/main.go), and on the batch
// execution contract described in spec.md §4.2.
package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/martin-augment/sedona-db/geom"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// ColumnarValue is either a single value broadcast across every row of a
// batch (Scalar) or a per-row Arrow array (Array). Kernels accept either
// for any argument position; a Scalar argument is read once and reused for
// every output row instead of being materialized into a full-length
// array.
type ColumnarValue struct {
	Type   geom.SedonaType
	Scalar *ScalarValue // non-nil for a Scalar value
	Array  arrow.Array  // non-nil for an Array value
}

// ScalarValue is a single, possibly-null typed value.
type ScalarValue struct {
	Valid bool
	// Value holds the Go representation: []byte for geometry/binary,
	// float64 for floating point, string for string/utf8, bool for
	// boolean. Kernels type-assert according to the argument's declared
	// SedonaType.
	Value interface{}
}

// NewScalar wraps a value as a valid Scalar ColumnarValue.
func NewScalar(t geom.SedonaType, v interface{}) ColumnarValue {
	return ColumnarValue{Type: t, Scalar: &ScalarValue{Valid: true, Value: v}}
}

// NewNullScalar builds a null Scalar ColumnarValue of the given type.
func NewNullScalar(t geom.SedonaType) ColumnarValue {
	return ColumnarValue{Type: t, Scalar: &ScalarValue{Valid: false}}
}

// NewArray wraps an Arrow array as an Array ColumnarValue.
func NewArray(t geom.SedonaType, arr arrow.Array) ColumnarValue {
	return ColumnarValue{Type: t, Array: arr}
}

// IsScalar reports whether this value is a broadcast Scalar rather than a
// per-row Array.
func (c ColumnarValue) IsScalar() bool {
	return c.Scalar != nil
}

// Len returns the number of logical rows this value spans when placed in
// a batch of the given row count: numRows for a Scalar (it broadcasts to
// every row), or the underlying array's length for an Array.
func (c ColumnarValue) Len(numRows int) int {
	if c.IsScalar() {
		return numRows
	}
	return c.Array.Len()
}

// Batch is a set of ColumnarValue arguments sharing a common row count.
// Mirrors the positional argument list a ScalarKernel.InvokeBatch
// receives.
type Batch struct {
	Args    []ColumnarValue
	NumRows int
}

// NewBatch validates that every Array-valued argument's length agrees
// with numRows before returning the Batch.
func NewBatch(numRows int, args ...ColumnarValue) (*Batch, error) {
	for i, a := range args {
		if !a.IsScalar() && a.Array.Len() != numRows {
			return nil, sedonaerrors.Internalf(
				"batch argument %d has length %d, expected %d", i, a.Array.Len(), numRows)
		}
	}
	return &Batch{Args: args, NumRows: numRows}, nil
}

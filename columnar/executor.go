package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/martin-augment/sedona-db/geom"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// WkbExecutor drives row-at-a-time kernel bodies over a Batch whose first
// argument (or whichever argument WKBAt is asked about) is a geometry
// column, hiding whether that column is a Scalar value, a length-addressed
// Binary array, or a view-addressed BinaryView array, and hiding null
// propagation.
//
// Mirrors the WkbExecutor helper referenced throughout
// original_source/rust/sedona-functions (e.g. st_start_point.rs), adapted
// to Go's explicit-argument style rather than the Rust closure-capture
// style.
type WkbExecutor struct {
	batch *Batch
}

// NewWkbExecutor wraps a Batch for row-wise execution.
func NewWkbExecutor(batch *Batch) *WkbExecutor {
	return &WkbExecutor{batch: batch}
}

// NumIterations is the number of output rows this batch will produce.
func (e *WkbExecutor) NumIterations() int {
	return e.batch.NumRows
}

// WKBAt returns the WKB bytes of argument argIdx at row, and whether the
// value is non-null. An out-of-range argIdx is a programmer error and
// returns an Internal error.
func (e *WkbExecutor) WKBAt(argIdx, row int) ([]byte, bool, error) {
	if argIdx < 0 || argIdx >= len(e.batch.Args) {
		return nil, false, sedonaerrors.Internalf("argument index %d out of range", argIdx)
	}
	arg := e.batch.Args[argIdx]

	if arg.IsScalar() {
		if !arg.Scalar.Valid {
			return nil, false, nil
		}
		b, ok := arg.Scalar.Value.([]byte)
		if !ok {
			return nil, false, sedonaerrors.Internalf("argument %d scalar is not geometry-typed", argIdx)
		}
		return b, true, nil
	}

	switch a := arg.Array.(type) {
	case *array.Binary:
		if a.IsNull(row) {
			return nil, false, nil
		}
		return a.Value(row), true, nil
	case *array.BinaryView:
		if a.IsNull(row) {
			return nil, false, nil
		}
		return a.Value(row), true, nil
	case *array.LargeBinary:
		if a.IsNull(row) {
			return nil, false, nil
		}
		return a.Value(row), true, nil
	default:
		return nil, false, sedonaerrors.Internalf("argument %d is not a recognized geometry array type: %T", argIdx, arg.Array)
	}
}

// Float64At returns argument argIdx's value at row as a float64.
func (e *WkbExecutor) Float64At(argIdx, row int) (float64, bool, error) {
	if argIdx < 0 || argIdx >= len(e.batch.Args) {
		return 0, false, sedonaerrors.Internalf("argument index %d out of range", argIdx)
	}
	arg := e.batch.Args[argIdx]

	if arg.IsScalar() {
		if !arg.Scalar.Valid {
			return 0, false, nil
		}
		v, ok := arg.Scalar.Value.(float64)
		if !ok {
			return 0, false, sedonaerrors.Internalf("argument %d scalar is not float64-typed", argIdx)
		}
		return v, true, nil
	}

	a, ok := arg.Array.(*array.Float64)
	if !ok {
		return 0, false, sedonaerrors.Internalf("argument %d is not a Float64 array: %T", argIdx, arg.Array)
	}
	if a.IsNull(row) {
		return 0, false, nil
	}
	return a.Value(row), true, nil
}

// StringAt returns argument argIdx's value at row as a string.
func (e *WkbExecutor) StringAt(argIdx, row int) (string, bool, error) {
	if argIdx < 0 || argIdx >= len(e.batch.Args) {
		return "", false, sedonaerrors.Internalf("argument index %d out of range", argIdx)
	}
	arg := e.batch.Args[argIdx]

	if arg.IsScalar() {
		if !arg.Scalar.Valid {
			return "", false, nil
		}
		v, ok := arg.Scalar.Value.(string)
		if !ok {
			return "", false, sedonaerrors.Internalf("argument %d scalar is not string-typed", argIdx)
		}
		return v, true, nil
	}

	a, ok := arg.Array.(*array.String)
	if !ok {
		return "", false, sedonaerrors.Internalf("argument %d is not a String array: %T", argIdx, arg.Array)
	}
	if a.IsNull(row) {
		return "", false, nil
	}
	return a.Value(row), true, nil
}

// BoolAt returns argument argIdx's value at row as a bool.
func (e *WkbExecutor) BoolAt(argIdx, row int) (bool, bool, error) {
	if argIdx < 0 || argIdx >= len(e.batch.Args) {
		return false, false, sedonaerrors.Internalf("argument index %d out of range", argIdx)
	}
	arg := e.batch.Args[argIdx]

	if arg.IsScalar() {
		if !arg.Scalar.Valid {
			return false, false, nil
		}
		v, ok := arg.Scalar.Value.(bool)
		if !ok {
			return false, false, sedonaerrors.Internalf("argument %d scalar is not bool-typed", argIdx)
		}
		return v, true, nil
	}

	a, ok := arg.Array.(*array.Boolean)
	if !ok {
		return false, false, sedonaerrors.Internalf("argument %d is not a Boolean array: %T", argIdx, arg.Array)
	}
	if a.IsNull(row) {
		return false, false, nil
	}
	return a.Value(row), true, nil
}

// ExecuteWkbVoid calls fn once per output row with the WKB bytes of
// geometry argument argIdx, automatically appending a null to out when
// that argument is null at the current row rather than invoking fn. fn is
// responsible for appending exactly one value (or a null) to out per
// call.
func (e *WkbExecutor) ExecuteWkbVoid(argIdx int, out *array.BinaryBuilder, fn func(row int, wkb []byte, out *array.BinaryBuilder) error) error {
	out.ReserveData(e.NumIterations() * geom.WKB_MIN_PROBABLE_BYTES)
	for row := 0; row < e.NumIterations(); row++ {
		wkb, valid, err := e.WKBAt(argIdx, row)
		if err != nil {
			return err
		}
		if !valid {
			out.AppendNull()
			continue
		}
		if err := fn(row, wkb, out); err != nil {
			return err
		}
	}
	return nil
}

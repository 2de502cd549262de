package functions

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/martin-augment/sedona-db/columnar"
	"github.com/martin-augment/sedona-db/expr"
	"github.com/martin-augment/sedona-db/geom"
	"github.com/martin-augment/sedona-db/geosbuffer"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// stBufferKernel implements ST_Buffer(geometry, distance) and
// ST_Buffer(geometry, distance, useSpheroid[, styleParams]) by delegating
// the actual buffer computation to libgeos via geosbuffer.Buffer.
// useSpheroid is accepted for signature compatibility with the reference
// implementation but, like the Rust kernel it is grounded on, is not yet
// honored (geodesic buffering is future work; see spec.md's Open
// Questions).
type stBufferKernel struct {
	arity int // 2, 3, or 4
}

func newSTBufferKernel(arity int) *stBufferKernel {
	return &stBufferKernel{arity: arity}
}

func (k *stBufferKernel) ArgMatchers() []expr.ArgMatcher {
	all := []expr.ArgMatcher{
		expr.IsGeometry(),
		expr.IsNumeric(),
		expr.IsBoolean(),
		expr.IsString(),
	}
	return all[:k.arity]
}

func (k *stBufferKernel) ReturnType(argTypes []geom.SedonaType) (geom.SedonaType, error) {
	if len(argTypes) == 0 || !argTypes[0].IsGeometry() {
		return geom.SedonaType{}, sedonaerrors.Planf("ST_Buffer's first argument must be a geometry")
	}
	return geom.WKB_GEOMETRY, nil
}

func (k *stBufferKernel) InvokeBatch(batch *columnar.Batch) (columnar.ColumnarValue, error) {
	styleParamsIdx := -1
	if k.arity == 4 {
		styleParamsIdx = 3
	}
	return invokeSTBuffer(batch, styleParamsIdx)
}

// stBufferStyleParamsKernel implements the three-argument
// ST_Buffer(geometry, distance, styleParams:string) overload: the
// trailing argument is the style DSL string directly rather than
// useSpheroid. This is a distinct overload from stBufferKernel{arity: 3}
// (whose third argument is a boolean useSpheroid flag) — spec.md §4.4.2
// lists both three-argument shapes.
type stBufferStyleParamsKernel struct{}

func newSTBufferStyleParamsKernel() *stBufferStyleParamsKernel {
	return &stBufferStyleParamsKernel{}
}

func (k *stBufferStyleParamsKernel) ArgMatchers() []expr.ArgMatcher {
	return []expr.ArgMatcher{expr.IsGeometry(), expr.IsNumeric(), expr.IsString()}
}

func (k *stBufferStyleParamsKernel) ReturnType(argTypes []geom.SedonaType) (geom.SedonaType, error) {
	if len(argTypes) == 0 || !argTypes[0].IsGeometry() {
		return geom.SedonaType{}, sedonaerrors.Planf("ST_Buffer's first argument must be a geometry")
	}
	return geom.WKB_GEOMETRY, nil
}

func (k *stBufferStyleParamsKernel) InvokeBatch(batch *columnar.Batch) (columnar.ColumnarValue, error) {
	return invokeSTBuffer(batch, 2)
}

// invokeSTBuffer is the shared ST_Buffer execution body for every
// overload: styleParamsIdx names the batch argument holding the style
// DSL string (-1 when the overload has no styleParams argument at all).
func invokeSTBuffer(batch *columnar.Batch, styleParamsIdx int) (columnar.ColumnarValue, error) {
	styleParams := ""
	if styleParamsIdx >= 0 && len(batch.Args) > styleParamsIdx {
		arg := batch.Args[styleParamsIdx]
		if !arg.IsScalar() {
			return columnar.ColumnarValue{}, sedonaerrors.Planf("ST_Buffer's styleParams argument must be a constant, not a column")
		}
		if arg.Scalar.Valid {
			s, ok := arg.Scalar.Value.(string)
			if !ok {
				return columnar.ColumnarValue{}, sedonaerrors.Internalf("ST_Buffer styleParams scalar is not string-typed")
			}
			styleParams = s
		}
	}
	params, err := parseBufferParams(styleParams)
	if err != nil {
		return columnar.ColumnarValue{}, err
	}

	exec := columnar.NewWkbExecutor(batch)
	mem := memory.DefaultAllocator
	out := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	out.ReserveData(exec.NumIterations() * geom.WKB_MIN_PROBABLE_BYTES)

	for row := 0; row < exec.NumIterations(); row++ {
		wkb, valid, err := exec.WKBAt(0, row)
		if err != nil {
			return columnar.ColumnarValue{}, err
		}
		if !valid {
			out.AppendNull()
			continue
		}
		distance, distValid, err := exec.Float64At(1, row)
		if err != nil {
			return columnar.ColumnarValue{}, err
		}
		if !distValid {
			out.AppendNull()
			continue
		}

		buffered, err := geosbuffer.Buffer(wkb, distance, params)
		if err != nil {
			return columnar.ColumnarValue{}, err
		}
		out.Append(buffered)
	}

	return columnar.NewArray(geom.WKB_GEOMETRY, out.NewBinaryArray()), nil
}

// STBuffer builds the ST_Buffer UDF with its 2-argument, two distinct
// 3-argument (styleParams:string, and useSpheroid:bool), and 4-argument
// overloads. The styleParams-string overload is registered before the
// useSpheroid-bool overload so first-match-wins resolution picks the
// right one for each 3-argument call shape (their third-argument
// matchers, IsString and IsBoolean, never both accept the same argument
// type, so the two never actually compete — but the ordering documents
// the intended precedence spec.md §4.4.2 describes).
func STBuffer() *expr.ScalarUDF {
	return expr.NewScalarUDF("st_buffer").
		AddKernel(newSTBufferKernel(2)).
		AddKernel(newSTBufferStyleParamsKernel()).
		AddKernel(newSTBufferKernel(3)).
		AddKernel(newSTBufferKernel(4))
}

func init() {
	expr.DefaultRegistry.Register(STBuffer())
}

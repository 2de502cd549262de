package columnar

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin-augment/sedona-db/geom"
)

func newBinaryArray(mem memory.Allocator, values [][]byte, valid []bool) *array.Binary {
	bld := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	for i, v := range values {
		if valid != nil && !valid[i] {
			bld.AppendNull()
			continue
		}
		bld.Append(v)
	}
	arr := bld.NewBinaryArray()
	bld.Release()
	return arr
}

func TestWkbExecutor_ExecuteWkbVoid(t *testing.T) {
	mem := memory.NewGoAllocator()
	arr := newBinaryArray(mem,
		[][]byte{{1, 2, 3}, nil, {4, 5}},
		[]bool{true, false, true})
	defer arr.Release()

	batch, err := NewBatch(3, NewArray(geom.WKB_GEOMETRY, arr))
	require.NoError(t, err)

	exec := NewWkbExecutor(batch)
	assert.Equal(t, 3, exec.NumIterations())

	out := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer out.Release()

	var seenRows []int
	err = exec.ExecuteWkbVoid(0, out, func(row int, wkb []byte, o *array.BinaryBuilder) error {
		seenRows = append(seenRows, row)
		o.Append(wkb)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, seenRows)

	result := out.NewBinaryArray()
	defer result.Release()
	require.Equal(t, 3, result.Len())
	assert.False(t, result.IsNull(0))
	assert.True(t, result.IsNull(1))
	assert.False(t, result.IsNull(2))
	assert.Equal(t, []byte{1, 2, 3}, result.Value(0))
	assert.Equal(t, []byte{4, 5}, result.Value(2))
}

func TestWkbExecutor_ScalarInput(t *testing.T) {
	batch, err := NewBatch(2, NewScalar(geom.WKB_GEOMETRY, []byte{9, 9}))
	require.NoError(t, err)

	exec := NewWkbExecutor(batch)
	wkb, valid, err := exec.WKBAt(0, 0)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, []byte{9, 9}, wkb)

	wkb, valid, err = exec.WKBAt(0, 1)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, []byte{9, 9}, wkb)
}

func TestWkbExecutor_NullScalar(t *testing.T) {
	batch, err := NewBatch(1, NewNullScalar(geom.WKB_GEOMETRY))
	require.NoError(t, err)

	exec := NewWkbExecutor(batch)
	_, valid, err := exec.WKBAt(0, 0)
	require.NoError(t, err)
	assert.False(t, valid)
}

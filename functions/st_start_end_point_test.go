package functions

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin-augment/sedona-db/columnar"
	"github.com/martin-augment/sedona-db/expr"
	"github.com/martin-augment/sedona-db/geom"
)

func littleEndianPointXY(x, y float64) []byte {
	buf := make([]byte, 21)
	buf[0] = 0x01
	buf[1] = 0x01
	binary.LittleEndian.PutUint64(buf[5:13], math.Float64bits(x))
	binary.LittleEndian.PutUint64(buf[13:21], math.Float64bits(y))
	return buf
}

func littleEndianLineStringXY(coords [][2]float64) []byte {
	buf := make([]byte, 9+len(coords)*16)
	buf[0] = 0x01
	buf[1] = 0x02
	binary.LittleEndian.PutUint32(buf[5:9], uint32(len(coords)))
	offset := 9
	for _, c := range coords {
		binary.LittleEndian.PutUint64(buf[offset:offset+8], math.Float64bits(c[0]))
		binary.LittleEndian.PutUint64(buf[offset+8:offset+16], math.Float64bits(c[1]))
		offset += 16
	}
	return buf
}

func runUnaryGeomKernel(t *testing.T, udf *expr.ScalarUDF, wkbBytes []byte) columnar.ColumnarValue {
	t.Helper()
	batch, err := columnar.NewBatch(1, columnar.NewScalar(geom.WKB_GEOMETRY, wkbBytes))
	require.NoError(t, err)
	kernel, err := udf.ResolveKernel([]geom.SedonaType{geom.WKB_GEOMETRY})
	require.NoError(t, err)
	out, err := kernel.InvokeBatch(batch)
	require.NoError(t, err)
	return out
}

func TestSTStartPoint_ExtractsFirstVertex(t *testing.T) {
	line := littleEndianLineStringXY([][2]float64{{1, 2}, {3, 4}, {5, 6}})
	out := runUnaryGeomKernel(t, STStartPoint(), line)

	arr := out.Array.(interface{ Value(int) []byte })
	got := arr.Value(0)
	assert.Equal(t, littleEndianPointXY(1, 2), got)
}

func TestSTEndPoint_ExtractsLastVertex(t *testing.T) {
	line := littleEndianLineStringXY([][2]float64{{1, 2}, {3, 4}, {5, 6}})
	out := runUnaryGeomKernel(t, STEndPoint(), line)

	arr := out.Array.(interface{ Value(int) []byte })
	got := arr.Value(0)
	assert.Equal(t, littleEndianPointXY(5, 6), got)
}

func TestSTStartPoint_NonLineStringYieldsNull(t *testing.T) {
	point := littleEndianPointXY(1, 2)
	out := runUnaryGeomKernel(t, STStartPoint(), point)

	arr := out.Array.(interface{ IsNull(int) bool })
	assert.True(t, arr.IsNull(0))
}

func TestSTStartEndPoint_RegisteredUnderUnderscoredNames(t *testing.T) {
	_, err := expr.DefaultRegistry.Lookup("st_start_point")
	assert.NoError(t, err)
	_, err = expr.DefaultRegistry.Lookup("st_end_point")
	assert.NoError(t, err)
}

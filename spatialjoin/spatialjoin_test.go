package spatialjoin

import (
	"context"
	"io"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBuildSideBatchStream_YieldsInOrderThenEOF(t *testing.T) {
	batches := []BuildSideBatch{{GeometryColumn: 0}, {GeometryColumn: 1}}
	stream := NewInMemoryBuildSideBatchStream(batches)
	assert.False(t, stream.IsExternal())

	first, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, first.GeometryColumn)

	second, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.GeometryColumn)

	_, err = stream.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestExternalBuildSideBatchStream_ReportsExternalAndFails(t *testing.T) {
	stream := NewExternalBuildSideBatchStream()
	assert.True(t, stream.IsExternal())

	_, err := stream.Next(context.Background())
	assert.Error(t, err)
}

func TestGeoStatistics_ObserveUnionsBounds(t *testing.T) {
	stats := NewGeoStatistics()
	stats.Observe(orb.Point{0, 0})
	stats.Observe(orb.Point{10, 10})

	assert.EqualValues(t, 2, stats.RowCount)
	assert.Equal(t, orb.Point{0, 0}, stats.Bound.Min)
	assert.Equal(t, orb.Point{10, 10}, stats.Bound.Max)
}

func TestMemoryReservation_GrowAndRelease(t *testing.T) {
	pool := NewMemoryPool(100)

	res, err := NewMemoryReservation(pool, 40)
	require.NoError(t, err)
	assert.EqualValues(t, 40, pool.Used())

	require.NoError(t, res.Grow(30))
	assert.EqualValues(t, 70, pool.Used())

	_, err = NewMemoryReservation(pool, 50)
	assert.Error(t, err)

	res.Release()
	assert.EqualValues(t, 0, pool.Used())

	// idempotent
	res.Release()
	assert.EqualValues(t, 0, pool.Used())
}

func TestBuildPartition_CloseReleasesReservation(t *testing.T) {
	pool := NewMemoryPool(0)
	res, err := NewMemoryReservation(pool, 10)
	require.NoError(t, err)

	partition := &BuildPartition{
		Stream:        NewInMemoryBuildSideBatchStream(nil),
		GeoStatistics: NewGeoStatistics(),
		Reservation:   res,
	}
	partition.Close()
	assert.EqualValues(t, 0, pool.Used())
}

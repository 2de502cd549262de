package geoparquet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin-augment/sedona-db/blobstore"
	"github.com/martin-augment/sedona-db/datasource"
)

type testRow struct {
	Name     string `parquet:"name"`
	Geometry []byte `parquet:"geometry"`
}

func writeTestGeoParquet(t *testing.T, path string, rows []testRow) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	writer := parquet.NewGenericWriter[testRow](f)

	meta := DefaultMetadata()
	metaBytes, err := json.Marshal(meta)
	require.NoError(t, err)
	writer.SetKeyValueMetadata(MetadataKey, string(metaBytes))

	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
}

func TestFormatSpec_InferSchemaAndReadBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.parquet")

	point := orb.Point{1, 2}
	pointWKB, err := wkb.Marshal(point)
	require.NoError(t, err)

	writeTestGeoParquet(t, path, []testRow{
		{Name: "a", Geometry: pointWKB},
	})

	store := blobstore.NewLocalStore(dir)
	obj := datasource.Object{Store: store, Meta: &blobstore.ObjectMeta{Location: "sample.parquet"}}

	spec := NewFormatSpec()

	schema, err := spec.InferSchema(context.Background(), obj)
	require.NoError(t, err)
	require.Equal(t, 2, schema.NumFields())

	stats, err := spec.InferStats(context.Background(), obj, schema)
	require.NoError(t, err)
	require.NotNil(t, stats.NumRows)
	assert.EqualValues(t, 1, *stats.NumRows)

	reader, err := spec.OpenReader(context.Background(), &datasource.OpenReaderArgs{
		Src:        obj,
		FileSchema: schema,
	})
	require.NoError(t, err)
	defer reader.Close()

	rec, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, rec.NumRows())
}

func TestFormatSpec_Extension(t *testing.T) {
	assert.Equal(t, "parquet", NewFormatSpec().Extension())
}

func TestFormatSpec_WithOptionsRejectsUnknown(t *testing.T) {
	_, err := NewFormatSpec().WithOptions(map[string]string{"bogus": "1"})
	assert.Error(t, err)
}

func TestFormatSpec_WithOptionsOverridesBatchSize(t *testing.T) {
	cp, err := NewFormatSpec().WithOptions(map[string]string{"batch_size": "64"})
	require.NoError(t, err)
	assert.Equal(t, 64, cp.(*FormatSpec).batchSize)
}

func TestDefaultMetadata_SingleGeometryColumn(t *testing.T) {
	meta := DefaultMetadata()
	assert.Equal(t, "geometry", meta.PrimaryColumn)
	assert.Equal(t, EncodingWKB, meta.Columns["geometry"].ResolvedEncoding())
}

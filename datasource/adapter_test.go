package datasource

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin-augment/sedona-db/blobstore"
)

func TestObject_ToURLString(t *testing.T) {
	mem := blobstore.NewMemStore()

	t.Run("url only", func(t *testing.T) {
		url := "s3://bucket/prefix"
		o := Object{URL: &url}
		assert.Equal(t, "s3://bucket/prefix", o.ToURLString())
	})

	t.Run("url and meta", func(t *testing.T) {
		url := "s3://bucket/prefix"
		o := Object{URL: &url, Meta: &blobstore.ObjectMeta{Location: "a.parquet"}}
		assert.Equal(t, "s3://bucket/prefix/a.parquet", o.ToURLString())
	})

	t.Run("meta only, local store", func(t *testing.T) {
		local := blobstore.NewLocalStore("/tmp/data")
		o := Object{Store: local, Meta: &blobstore.ObjectMeta{Location: "a.parquet"}}
		assert.Equal(t, "file:///a.parquet", o.ToURLString())
	})

	t.Run("meta only, mem store falls through", func(t *testing.T) {
		o := Object{Store: mem, Meta: &blobstore.ObjectMeta{Location: "a.parquet"}}
		assert.Equal(t, "mem: a.parquet", o.ToURLString())
	})

	t.Run("neither url nor meta", func(t *testing.T) {
		o := Object{Store: mem}
		assert.Equal(t, "mem", o.ToURLString())
	})
}

func TestEchoFormatSpec_WithOptionsRejectsUnknownKeyImmediately(t *testing.T) {
	spec := newEchoFormatSpec()
	_, err := spec.WithOptions(map[string]string{"bogus": "1"})
	assert.Error(t, err)
}

// TestAdapter_SchemaInferenceAcrossFiles is spec.md §8 scenario 10:
// register a spec with extension "echospec", query two files in a
// single session, and confirm each yields one batch with one row. The
// objects are passed to InferSchemaForFiles out of path order; both
// report the same schema, so the sort by path is not observed here.
func TestAdapter_SchemaInferenceAcrossFiles(t *testing.T) {
	store := blobstore.NewMemStore()
	store.Put("b.echospec", []byte("second"))
	store.Put("a.echospec", []byte("first"))

	spec := newEchoFormatSpec()
	DefaultRegistry.Register(spec)
	defer DefaultRegistry.Unregister("echospec")

	adapter := NewAdapter(spec, 4, nil)

	objA := Object{Store: store, Meta: &blobstore.ObjectMeta{Location: "a.echospec"}}
	objB := Object{Store: store, Meta: &blobstore.ObjectMeta{Location: "b.echospec"}}

	schema, err := adapter.InferSchemaForFiles(context.Background(), []Object{objB, objA})
	require.NoError(t, err)
	require.Equal(t, 1, schema.NumFields())
	assert.Equal(t, "value", schema.Field(0).Name)

	for _, tc := range []struct {
		obj      Object
		expected string
	}{
		{objA, "first"},
		{objB, "second"},
	} {
		source := NewFileSource(spec).WithFileSchema(schema)
		node, err := CreatePhysicalPlan(FileScanConfig{Objects: []Object{tc.obj}, Source: source})
		require.NoError(t, err)

		stream, err := node.Opener.Open(context.Background(), 0, tc.obj)
		require.NoError(t, err)

		rec, err := stream.Next(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 1, rec.NumRows())

		col := rec.Column(0)
		assert.Equal(t, tc.expected, col.(interface{ Value(int) string }).Value(0))

		_, err = stream.Next(context.Background())
		assert.ErrorIs(t, err, io.EOF)
		require.NoError(t, stream.Close())
	}
}

func TestAdapter_InferSchemaForFiles_RequiresAtLeastOneObject(t *testing.T) {
	adapter := NewAdapter(newEchoFormatSpec(), 1, nil)
	_, err := adapter.InferSchemaForFiles(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpener_RejectsNonZeroPartition(t *testing.T) {
	store := blobstore.NewMemStore()
	store.Put("a.echospec", []byte("x"))
	spec := newEchoFormatSpec()
	source := NewFileSource(spec)
	opener := NewOpener(source)

	obj := Object{Store: store, Meta: &blobstore.ObjectMeta{Location: "a.echospec"}}
	_, err := opener.Open(context.Background(), 1, obj)
	assert.Error(t, err)
}

func TestFileSource_WithMethodsReturnIndependentCopies(t *testing.T) {
	spec := newEchoFormatSpec()
	base := NewFileSource(spec)

	withBatch := base.WithBatchSize(128)
	assert.Nil(t, base.BatchSize)
	require.NotNil(t, withBatch.BatchSize)
	assert.Equal(t, 128, *withBatch.BatchSize)

	withProj := base.WithProjection([]int{0})
	assert.Nil(t, base.Projection)
	assert.Equal(t, []int{0}, withProj.Projection)
}

func TestFileSource_TryPushdownFiltersNeverPushesDown(t *testing.T) {
	spec := newEchoFormatSpec()
	base := NewFileSource(spec)

	withFilters, results := base.TryPushdownFilters([]Filter{stringFilter("a = 1"), stringFilter("b = 2")})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, NotPushedDown, r)
	}
	assert.Len(t, withFilters.Filters, 2)
	assert.Empty(t, base.Filters)
}

func TestFileSource_RepartitionedAlwaysDeclinesAlternative(t *testing.T) {
	base := NewFileSource(newEchoFormatSpec())
	alt, ok := base.Repartitioned(8)
	assert.False(t, ok)
	assert.Nil(t, alt)
}

func TestFileSource_FileTypeIsExtension(t *testing.T) {
	base := NewFileSource(newEchoFormatSpec())
	assert.Equal(t, "echospec", base.FileType())
}

func TestCreateWriterPhysicalPlan_NotImplemented(t *testing.T) {
	_, err := CreateWriterPhysicalPlan(FileScanConfig{})
	assert.ErrorIs(t, err, ErrWritePlanNotImplemented)
}

func TestRegistry_RegisterLookupUnregister(t *testing.T) {
	reg := NewRegistry()
	spec := newEchoFormatSpec()
	reg.Register(spec)

	got, err := reg.Lookup("echospec")
	require.NoError(t, err)
	assert.Same(t, FormatSpec(spec), got)

	reg.Unregister("echospec")
	_, err = reg.Lookup("echospec")
	assert.Error(t, err)
}

type stringFilter string

func (f stringFilter) String() string { return string(f) }

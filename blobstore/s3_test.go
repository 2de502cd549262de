package blobstore

import (
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
)

func TestS3Store_KeyPrefixing(t *testing.T) {
	store := NewS3Store(nil, "bucket", "tables")
	assert.Equal(t, "tables/a.parquet", store.key("a.parquet"))

	bare := NewS3Store(nil, "bucket", "")
	assert.Equal(t, "a.parquet", bare.key("a.parquet"))
}

func TestS3Store_Identity(t *testing.T) {
	store := NewS3Store(nil, "geo-bucket", "")
	assert.Equal(t, "s3(bucket=geo-bucket)", store.Identity())
}

func TestTotalSizeFromContentRange(t *testing.T) {
	cr := "bytes 0-99/500"
	assert.EqualValues(t, 500, totalSizeFromContentRange(&cr, nil))

	assert.EqualValues(t, 42, totalSizeFromContentRange(nil, aws.Int64(42)))
	assert.EqualValues(t, 0, totalSizeFromContentRange(nil, nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(awserr.New(s3.ErrCodeNoSuchKey, "x", nil)))
	assert.True(t, isNotFound(awserr.New("NotFound", "x", nil)))
	assert.False(t, isNotFound(awserr.New("AccessDenied", "x", nil)))
	assert.False(t, isNotFound(io.EOF))
}

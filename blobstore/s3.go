package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// S3Store is an ObjectStore backed by an S3-compatible bucket, grounded
// on the s3ObjectReader struct shape in
// _examples/dolthub-dolt/go/store/nbs (client, bucket, optional
// read-rate-limiting, an optional key prefix).
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3Store builds an S3Store over an already-configured S3 client and
// bucket. prefix, if non-empty, is prepended to every location passed to
// Head/List/Get (matching a bucket subdirectory acting as the table
// root).
func NewS3Store(client s3iface.S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Identity() string {
	return fmt.Sprintf("s3(bucket=%s)", s.bucket)
}

func (s *S3Store) key(location string) string {
	if s.prefix == "" {
		return location
	}
	return s.prefix + "/" + location
}

func (s *S3Store) Head(ctx context.Context, location string) (ObjectMeta, error) {
	out, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(location)),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectMeta{}, &ErrNotFound{Location: location}
		}
		return ObjectMeta{}, sedonaerrors.IOf("s3 HeadObject %s/%s: %s", s.bucket, s.key(location), err)
	}
	meta := ObjectMeta{Location: location}
	if out.ContentLength != nil {
		meta.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	var metas []ObjectMeta
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			m := ObjectMeta{Location: aws.StringValue(obj.Key)}
			if obj.Size != nil {
				m.Size = *obj.Size
			}
			if obj.LastModified != nil {
				m.LastModified = *obj.LastModified
			}
			metas = append(metas, m)
		}
		return true
	})
	if err != nil {
		return nil, sedonaerrors.IOf("s3 ListObjectsV2 %s/%s: %s", s.bucket, s.key(prefix), err)
	}
	return metas, nil
}

func (s *S3Store) Get(ctx context.Context, location string, byteRange *ByteRange) (io.ReadCloser, int64, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(location)),
	}
	if byteRange != nil {
		input.Range = aws.String(fmt.Sprintf("bytes=%d-%d", byteRange.Offset, byteRange.Offset+byteRange.Length-1))
	}

	out, err := s.client.GetObjectWithContext(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, &ErrNotFound{Location: location}
		}
		return nil, 0, sedonaerrors.IOf("s3 GetObject %s/%s: %s", s.bucket, s.key(location), err)
	}

	size := totalSizeFromContentRange(out.ContentRange, out.ContentLength)
	return out.Body, size, nil
}

// totalSizeFromContentRange parses "bytes start-end/total" to recover an
// object's full size when a ranged GET was issued; falls back to
// ContentLength for an unranged GET.
func totalSizeFromContentRange(contentRange *string, contentLength *int64) int64 {
	if contentRange != nil {
		var start, end, total int64
		if _, err := fmt.Sscanf(*contentRange, "bytes %d-%d/%d", &start, &end, &total); err == nil {
			return total
		}
	}
	if contentLength != nil {
		return *contentLength
	}
	return 0
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

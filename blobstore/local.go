package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore is an ObjectStore rooted at a directory on the local
// filesystem, used for the "open the GeoParquet/echospec file at a path"
// scenarios in spec.md §8 scenario 10 and for tests that would otherwise
// need a real S3 bucket.
type LocalStore struct {
	root string
}

// NewLocalStore builds a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Identity() string {
	return "local(" + s.root + ")"
}

func (s *LocalStore) path(location string) string {
	return filepath.Join(s.root, location)
}

func (s *LocalStore) Head(ctx context.Context, location string) (ObjectMeta, error) {
	info, err := os.Stat(s.path(location))
	if err != nil {
		if os.IsNotExist(err) {
			return ObjectMeta{}, &ErrNotFound{Location: location}
		}
		return ObjectMeta{}, err
	}
	return ObjectMeta{Location: location, Size: info.Size(), LastModified: info.ModTime()}, nil
}

func (s *LocalStore) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	var metas []ObjectMeta
	base := s.path(prefix)
	err := filepath.Walk(base, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		metas = append(metas, ObjectMeta{Location: filepath.ToSlash(rel), Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Location < metas[j].Location })
	return metas, nil
}

func (s *LocalStore) Get(ctx context.Context, location string, byteRange *ByteRange) (io.ReadCloser, int64, error) {
	f, err := os.Open(s.path(location))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, &ErrNotFound{Location: location}
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	size := info.Size()

	if byteRange == nil {
		return f, size, nil
	}
	if _, err := f.Seek(byteRange.Offset, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, err
	}
	return &limitedReadCloser{r: io.LimitReader(f, byteRange.Length), c: f}, size, nil
}

type limitedReadCloser struct {
	r io.Reader
	c io.Closer
}

func (l *limitedReadCloser) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *limitedReadCloser) Close() error               { return l.c.Close() }

// MemStore is an in-memory ObjectStore used by unit tests that need a
// store but not a real filesystem or bucket (the "echospec" scenario in
// spec.md §8 scenario 10 runs against either this or LocalStore).
type MemStore struct {
	objects map[string][]byte
}

// NewMemStore builds an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

// Put registers an object's bytes under location.
func (s *MemStore) Put(location string, data []byte) {
	s.objects[location] = data
}

func (s *MemStore) Identity() string {
	return "mem"
}

func (s *MemStore) Head(ctx context.Context, location string) (ObjectMeta, error) {
	data, ok := s.objects[location]
	if !ok {
		return ObjectMeta{}, &ErrNotFound{Location: location}
	}
	return ObjectMeta{Location: location, Size: int64(len(data))}, nil
}

func (s *MemStore) List(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	var metas []ObjectMeta
	for loc, data := range s.objects {
		if strings.HasPrefix(loc, prefix) {
			metas = append(metas, ObjectMeta{Location: loc, Size: int64(len(data))})
		}
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Location < metas[j].Location })
	return metas, nil
}

func (s *MemStore) Get(ctx context.Context, location string, byteRange *ByteRange) (io.ReadCloser, int64, error) {
	data, ok := s.objects[location]
	if !ok {
		return nil, 0, &ErrNotFound{Location: location}
	}
	size := int64(len(data))
	if byteRange == nil {
		return io.NopCloser(bytes.NewReader(data)), size, nil
	}
	end := byteRange.Offset + byteRange.Length
	if end > size {
		end = size
	}
	if byteRange.Offset > size {
		return io.NopCloser(bytes.NewReader(nil)), size, nil
	}
	return io.NopCloser(bytes.NewReader(data[byteRange.Offset:end])), size, nil
}

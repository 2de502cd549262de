package geoparquet

import (
	"io"

	"github.com/segmentio/parquet-go"
)

const defaultRowBatchSize = 128

// RowReader flattens a Parquet file's row groups into a single
// sequential parquet.Row iterator, advancing to the next row group
// transparently once the current one is exhausted.
//
// Adapted from planetlabs/gpq's RowReader: unchanged in shape (the
// row-group bookkeeping is file-format machinery this package reuses
// as-is), renamed fields dropped in favor of the original's, kept
// because the logic is exactly what a sequential Parquet row scan
// needs regardless of domain.
type RowReader struct {
	groups     []parquet.RowGroup
	groupIndex int
	rowIndex   int
	rowBuffer  []parquet.Row
	rowsRead   int
	reader     parquet.Rows
}

// NewRowReader builds a RowReader over every row group in file.
func NewRowReader(file *parquet.File) *RowReader {
	return &RowReader{
		groups:    file.RowGroups(),
		rowBuffer: make([]parquet.Row, defaultRowBatchSize),
	}
}

func (r *RowReader) closeReader() error {
	if r.reader == nil {
		return nil
	}
	err := r.reader.Close()
	r.reader = nil
	return err
}

// Next returns the next row, or io.EOF once every row group has been
// consumed.
func (r *RowReader) Next() (parquet.Row, error) {
	if r.groupIndex >= len(r.groups) {
		return nil, io.EOF
	}

	if r.rowIndex == 0 {
		if r.reader == nil {
			r.reader = r.groups[r.groupIndex].Rows()
		}
		rowsRead, readErr := r.reader.ReadRows(r.rowBuffer)
		r.rowsRead = rowsRead
		if readErr != nil {
			closeErr := r.closeReader()
			if readErr != io.EOF {
				return nil, readErr
			}
			if closeErr != nil {
				return nil, closeErr
			}
		}
	}

	if r.rowIndex >= r.rowsRead {
		r.rowIndex = 0
		if r.rowsRead < len(r.rowBuffer) {
			if err := r.closeReader(); err != nil {
				return nil, err
			}
			r.groupIndex++
		}
		return r.Next()
	}

	row := r.rowBuffer[r.rowIndex]
	r.rowIndex++
	return row, nil
}

// Close releases the current row group's reader, if any.
func (r *RowReader) Close() error {
	return r.closeReader()
}

package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// echoFormatSpec is a synthetic FormatSpec used only by this package's
// tests, implementing spec.md §8 scenario 10's "echospec" format: every
// object's entire content becomes a single string value in a one-column,
// one-row batch. It exercises the full Adapter/FileSource/Opener surface
// without needing a real file format's parsing logic.
type echoFormatSpec struct {
	UnimplementedStats
	uppercase bool
}

func newEchoFormatSpec() *echoFormatSpec {
	return &echoFormatSpec{}
}

func (s *echoFormatSpec) Extension() string { return "echospec" }

func (s *echoFormatSpec) WithOptions(options map[string]string) (FormatSpec, error) {
	cp := *s
	for k, v := range options {
		switch k {
		case "uppercase":
			cp.uppercase = v == "true"
		default:
			return nil, fmt.Errorf("unknown echospec option: %s", k)
		}
	}
	return &cp, nil
}

var echoSchema = arrow.NewSchema([]arrow.Field{
	{Name: "value", Type: arrow.BinaryTypes.String, Nullable: false},
}, nil)

func (s *echoFormatSpec) InferSchema(ctx context.Context, obj Object) (*arrow.Schema, error) {
	return echoSchema, nil
}

func (s *echoFormatSpec) OpenReader(ctx context.Context, args *OpenReaderArgs) (RecordBatchReader, error) {
	rc, _, err := args.Src.Store.Get(ctx, args.Src.Meta.Location, args.Src.Range)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	content := string(data)
	if s.uppercase {
		content = string(bytes.ToUpper(data))
	}
	return &echoReader{schema: echoSchema, content: content}, nil
}

type echoReader struct {
	schema  *arrow.Schema
	content string
	done    bool
}

func (r *echoReader) Schema() *arrow.Schema { return r.schema }

func (r *echoReader) Next(ctx context.Context) (arrow.Record, error) {
	if r.done {
		return nil, io.EOF
	}
	r.done = true

	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.Append(r.content)
	col := b.NewArray()
	defer col.Release()

	return array.NewRecord(r.schema, []arrow.Array{col}, 1), nil
}

func (r *echoReader) Close() error { return nil }

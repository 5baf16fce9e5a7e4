package storage

import (
	"context"
	"io"
)

// StubWriter and StubReader implement the storage interfaces with
// replaceable functions. Test helpers.
type StubWriter struct {
	WriteTraceFunc func(ctx context.Context, meta *Meta, r io.Reader) error
}

var _ Writer = (*StubWriter)(nil)

func (s *StubWriter) WriteTrace(ctx context.Context, meta *Meta, r io.Reader) error {
	if s.WriteTraceFunc != nil {
		return s.WriteTraceFunc(ctx, meta, r)
	}
	return nil
}

type StubReader struct {
	GetTraceFunc     func(ctx context.Context, id TraceID) (io.ReadCloser, error)
	FindTracesFunc   func(ctx context.Context, params *FindTracesParams) ([]*Meta, error)
	ListServicesFunc func(ctx context.Context) ([]string, error)
}

var _ Reader = (*StubReader)(nil)

func (s *StubReader) GetTrace(ctx context.Context, id TraceID) (io.ReadCloser, error) {
	if s.GetTraceFunc != nil {
		return s.GetTraceFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (s *StubReader) FindTraces(ctx context.Context, params *FindTracesParams) ([]*Meta, error) {
	if s.FindTracesFunc != nil {
		return s.FindTracesFunc(ctx, params)
	}
	return nil, ErrNotFound
}

func (s *StubReader) ListServices(ctx context.Context) ([]string, error) {
	if s.ListServicesFunc != nil {
		return s.ListServicesFunc(ctx)
	}
	return nil, ErrEmpty
}

// Package storage defines the interfaces trace stores implement and the
// metadata kept alongside every stored trace file.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/rs/xid"
	"golang.org/x/xerrors"
)

var (
	ErrNotFound = xerrors.New("not found")
	ErrEmpty    = xerrors.New("empty results")
)

// TraceID identifies a stored trace file.
type TraceID string

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

func ParseTraceID(s string) (TraceID, error) {
	id, err := xid.FromString(s)
	if err != nil {
		return "", xerrors.Errorf("bad trace id %q: %w", s, err)
	}
	return TraceID(id.String()), nil
}

func (id TraceID) IsNil() bool {
	return id == ""
}

func (id TraceID) String() string {
	return string(id)
}

// Meta describes one stored trace file.
type Meta struct {
	TraceID     TraceID   `json:"trace_id"`
	Service     string    `json:"service"`
	Platform    string    `json:"platform,omitempty"`
	NumProfiles int       `json:"num_profiles"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type Writer interface {
	WriteTrace(ctx context.Context, meta *Meta, r io.Reader) error
}

type Reader interface {
	// GetTrace returns the raw bytes of a stored trace file.
	GetTrace(ctx context.Context, id TraceID) (io.ReadCloser, error)
	FindTraces(ctx context.Context, params *FindTracesParams) ([]*Meta, error)
	ListServices(ctx context.Context) ([]string, error)
}

type FindTracesParams struct {
	Service      string
	CreatedAtMin time.Time
	CreatedAtMax time.Time
	Limit        int
}

func (params *FindTracesParams) Validate() error {
	if params == nil {
		return xerrors.New("nil request")
	}
	if params.Service == "" {
		return xerrors.Errorf("service empty: params %v", params)
	}
	if !params.CreatedAtMin.IsZero() && !params.CreatedAtMax.IsZero() && params.CreatedAtMin.After(params.CreatedAtMax) {
		return xerrors.Errorf("createdAt time min after max: params %v", params)
	}
	return nil
}

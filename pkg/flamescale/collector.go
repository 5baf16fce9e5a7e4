package flamescale

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage"
	"github.com/flamescale/flamescale/pkg/trace"
	"golang.org/x/xerrors"
)

// Collector validates uploaded trace files and writes them through to
// storage. Files that fail structural validation are rejected before
// anything is stored.
type Collector struct {
	logger *log.Logger
	sw     storage.Writer
}

func NewCollector(logger *log.Logger, sw storage.Writer) *Collector {
	return &Collector{
		logger: logger,
		sw:     sw,
	}
}

func (c *Collector) WriteTrace(ctx context.Context, req *WriteTraceRequest, r io.Reader) (*storage.Meta, error) {
	var buf bytes.Buffer
	tf, err := trace.Parse(io.TeeReader(r, &buf))
	if err != nil {
		return nil, xerrors.Errorf("could not parse trace file: %w", err)
	}

	meta := &storage.Meta{
		TraceID:     storage.NewTraceID(),
		Service:     req.Service,
		Platform:    tf.Platform,
		NumProfiles: len(tf.Traces),
		Size:        int64(buf.Len()),
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.sw.WriteTrace(ctx, meta, &buf); err != nil {
		return nil, xerrors.Errorf("could not store trace: %w", err)
	}

	c.logger.Infow("trace stored",
		"tid", meta.TraceID,
		"service", meta.Service,
		"profiles", meta.NumProfiles,
		"size", humanize.Bytes(uint64(meta.Size)),
	)

	return meta, nil
}

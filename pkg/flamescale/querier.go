package flamescale

import (
	"context"

	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/flamegraph"
	"github.com/flamescale/flamescale/pkg/frame"
	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/profile"
	"github.com/flamescale/flamescale/pkg/storage"
	"github.com/flamescale/flamescale/pkg/trace"
	"github.com/flamescale/flamescale/pkg/ui"
	"golang.org/x/xerrors"
)

// Querier rebuilds flamegraph views from stored trace files.
type Querier struct {
	logger *log.Logger
	sr     storage.Reader
}

func NewQuerier(logger *log.Logger, sr storage.Reader) *Querier {
	return &Querier{
		logger: logger,
		sr:     sr,
	}
}

func (q *Querier) ListServices(ctx context.Context) ([]string, error) {
	return q.sr.ListServices(ctx)
}

func (q *Querier) FindTraces(ctx context.Context, params *storage.FindTracesParams) ([]*storage.Meta, error) {
	return q.sr.FindTraces(ctx, params)
}

// GetFlamegraph loads a stored trace file and builds the requested view over
// the profile at req.Index. A construction failure (unbalanced stack,
// invalid sort pairing) propagates typed; nothing partial is returned.
func (q *Querier) GetFlamegraph(ctx context.Context, id storage.TraceID, req *FlamegraphRequest) (*ui.Flamegraph, error) {
	rc, err := q.sr.GetTrace(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tf, err := trace.Parse(rc)
	if err != nil {
		return nil, xerrors.Errorf("stored trace %v is malformed: %w", id, err)
	}
	if req.Index >= len(tf.Traces) {
		return nil, xerrors.Errorf("trace %v has %d profiles, index %d requested", id, len(tf.Traces), req.Index)
	}
	tr := &tf.Traces[req.Index]

	vt := req.View
	if vt == profile.UnknownView {
		if tr.IsEvented() {
			vt = profile.FlameChartView
		} else {
			vt = profile.FlameGraphView
		}
	}

	reg := frame.NewRegistry(tf.Frames, tf.Platform)
	prof, err := profile.FromTrace(tr, reg, vt)
	if err != nil {
		return nil, err
	}

	opts := flamegraph.Options{
		Inverted: req.Inverted,
		Sort:     req.Sort,
	}
	if req.Collapse {
		opts.Collapser = calltree.SystemFrameCollapser{}
	}

	fg, err := flamegraph.New(prof, req.Index, opts)
	if err != nil {
		return nil, err
	}

	q.logger.Debugw("built flamegraph",
		"tid", id,
		"index", req.Index,
		"sort", fg.Sort(),
		"inverted", fg.Inverted(),
		"depth", fg.Depth(),
		"frames", len(fg.Frames()),
	)

	return ui.Render(fg), nil
}

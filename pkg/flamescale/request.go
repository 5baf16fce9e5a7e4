package flamescale

import (
	"net/url"
	"strconv"

	"github.com/flamescale/flamescale/pkg/flamegraph"
	"github.com/flamescale/flamescale/pkg/profile"
	"golang.org/x/xerrors"
)

type WriteTraceRequest struct {
	Service string
}

func (req *WriteTraceRequest) UnmarshalURL(q url.Values) error {
	req.Service = q.Get("service")
	if req.Service == "" {
		return xerrors.New("missing service")
	}
	return nil
}

type FlamegraphRequest struct {
	Index    int
	Sort     flamegraph.SortMethod
	Inverted bool
	Collapse bool
	View     profile.ViewType
}

func (req *FlamegraphRequest) UnmarshalURL(q url.Values) error {
	if v := q.Get("index"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil || idx < 0 {
			return xerrors.Errorf("bad profile index %q", v)
		}
		req.Index = idx
	}

	if v := q.Get("sort"); v != "" {
		req.Sort = flamegraph.SortFromString(v)
		if req.Sort == flamegraph.UnknownSort {
			return xerrors.Errorf("unknown sort %q", v)
		}
	}

	if v := q.Get("inverted"); v != "" {
		inverted, err := strconv.ParseBool(v)
		if err != nil {
			return xerrors.Errorf("bad inverted flag %q", v)
		}
		req.Inverted = inverted
	}

	if v := q.Get("collapse"); v != "" {
		collapse, err := strconv.ParseBool(v)
		if err != nil {
			return xerrors.Errorf("bad collapse flag %q", v)
		}
		req.Collapse = collapse
	}

	// the view hint is optional; when absent the querier derives it from
	// the trace encoding
	if v := q.Get("view"); v != "" {
		req.View = profile.ViewTypeFromString(v)
		if req.View == profile.UnknownView {
			return xerrors.Errorf("unknown view type %q", v)
		}
	}
	return nil
}

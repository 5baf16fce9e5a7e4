package flamescale

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/flamegraph"
	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage"
	"golang.org/x/xerrors"
)

type TracesHandler struct {
	logger    *log.Logger
	collector *Collector
	querier   *Querier
}

func NewTracesHandler(logger *log.Logger, collector *Collector, querier *Querier) *TracesHandler {
	return &TracesHandler{
		logger:    logger,
		collector: collector,
		querier:   querier,
	}
}

func (h *TracesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		handler func(http.ResponseWriter, *http.Request) error
		urlPath = path.Clean(r.URL.Path)
	)

	if urlPath == apiTracesPath {
		switch r.Method {
		case http.MethodPost:
			handler = h.HandleCreateTrace
		case http.MethodGet:
			handler = h.HandleFindTraces
		}
	} else if strings.HasSuffix(urlPath, "/flamegraph") {
		handler = h.HandleGetFlamegraph
	}

	var err error
	if handler != nil {
		err = handler(w, r)
	} else {
		err = ErrNotFound
	}
	HandleErrorHTTP(h.logger, err, w, r)
}

func (h *TracesHandler) HandleCreateTrace(w http.ResponseWriter, r *http.Request) error {
	req := &WriteTraceRequest{}
	if err := req.UnmarshalURL(r.URL.Query()); err != nil {
		return StatusError(http.StatusBadRequest, fmt.Sprintf("bad request: %v", err), nil)
	}

	meta, err := h.collector.WriteTrace(r.Context(), req, r.Body)
	if err != nil {
		return StatusError(http.StatusBadRequest, fmt.Sprintf("failed to create trace: %v", err), err)
	}

	ReplyJSON(w, meta)

	return nil
}

func (h *TracesHandler) HandleFindTraces(w http.ResponseWriter, r *http.Request) error {
	params := &storage.FindTracesParams{}
	if err := parseFindTracesParams(params, r); err != nil {
		return err
	}

	metas, err := h.querier.FindTraces(r.Context(), params)
	if err == storage.ErrNotFound {
		return ErrNotFound
	} else if err == storage.ErrEmpty {
		return ErrNoResults
	} else if err != nil {
		return err
	}

	ReplyJSON(w, metas)

	return nil
}

func (h *TracesHandler) HandleGetFlamegraph(w http.ResponseWriter, r *http.Request) error {
	// path is /api/0/traces/<id>/flamegraph
	rawID := strings.Trim(strings.TrimSuffix(path.Clean(r.URL.Path), "/flamegraph"), "/")
	rawID = rawID[strings.LastIndex(rawID, "/")+1:]
	if rawID == "" {
		return StatusError(http.StatusBadRequest, "no trace id", nil)
	}

	id, err := storage.ParseTraceID(rawID)
	if err != nil {
		return StatusError(http.StatusBadRequest, fmt.Sprintf("bad trace id %q", rawID), err)
	}

	req := &FlamegraphRequest{}
	if err := req.UnmarshalURL(r.URL.Query()); err != nil {
		return StatusError(http.StatusBadRequest, fmt.Sprintf("bad request: %v", err), nil)
	}

	fg, err := h.querier.GetFlamegraph(r.Context(), id, req)
	if err == storage.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		var sortErr *flamegraph.InvalidSortError
		var stackErr *calltree.UnbalancedStackError
		if xerrors.As(err, &sortErr) || xerrors.As(err, &stackErr) {
			return StatusError(http.StatusBadRequest, err.Error(), err)
		}
		return xerrors.Errorf("could not build flamegraph for %v: %w", id, err)
	}

	ReplyJSON(w, fg)

	return nil
}

func parseFindTracesParams(params *storage.FindTracesParams, r *http.Request) error {
	q := r.URL.Query()

	params.Service = q.Get("service")

	if v := q.Get("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return StatusError(http.StatusBadRequest, fmt.Sprintf("bad from time %q", v), err)
		}
		params.CreatedAtMin = tm
	}
	if v := q.Get("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return StatusError(http.StatusBadRequest, fmt.Sprintf("bad to time %q", v), err)
		}
		params.CreatedAtMax = tm
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return StatusError(http.StatusBadRequest, fmt.Sprintf("bad limit %q", v), err)
		}
		params.Limit = n
	}

	if err := params.Validate(); err != nil {
		return StatusError(http.StatusBadRequest, fmt.Sprintf("bad request: %v", err), nil)
	}
	return nil
}

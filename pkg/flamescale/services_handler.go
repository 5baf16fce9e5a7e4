package flamescale

import (
	"net/http"

	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage"
)

type ServicesHandler struct {
	logger  *log.Logger
	querier *Querier
}

func NewServicesHandler(logger *log.Logger, querier *Querier) *ServicesHandler {
	return &ServicesHandler{
		logger:  logger,
		querier: querier,
	}
}

func (h *ServicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	services, err := h.querier.ListServices(r.Context())
	if err == storage.ErrEmpty {
		err = ErrNoResults
	} else if err == storage.ErrNotFound {
		err = ErrNotFound
	}
	if err != nil {
		HandleErrorHTTP(h.logger, err, w, r)
		return
	}

	ReplyJSON(w, services)
}

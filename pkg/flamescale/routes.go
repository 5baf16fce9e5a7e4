package flamescale

import (
	"net/http"

	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	apiTracesPath   = "/api/0/traces"
	apiServicesPath = "/api/0/services"
	apiVersionPath  = "/api/0/version"
)

func SetupRoutes(
	mux *http.ServeMux,
	logger *log.Logger,
	registry prometheus.Registerer,
	sr storage.Reader,
	sw storage.Writer,
) {
	querier := NewQuerier(logger, sr)
	collector := NewCollector(logger, sw)

	mux.HandleFunc(apiVersionPath, VersionHandler)
	mux.Handle(apiServicesPath, NewServicesHandler(logger, querier))

	// everything below /api/0/traces is served by the traces handler
	traces := metricsHandler(registry, NewTracesHandler(logger, collector, querier))
	mux.Handle(apiTracesPath, traces)
	mux.Handle(apiTracesPath+"/", traces)
}

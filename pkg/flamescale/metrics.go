package flamescale

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func metricsHandler(registry prometheus.Registerer, next http.Handler) http.Handler {
	var reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flamescale",
		Name:      "api_requests_total",
	}, []string{"method", "path", "code"})

	var reqDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flamescale",
		Name:      "api_request_duration_seconds",
	}, []string{"method", "path", "code"})

	var respSize = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "flamescale",
		Name:      "api_response_size_bytes",
	}, []string{"method", "path"})

	registry.MustRegister(
		reqTotal,
		reqDuration,
		respSize,
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		respw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(respw, r)

		apiPath := fixAPIPathLabel(r.URL.Path)
		labels := []string{
			r.Method,
			apiPath,
			strconv.Itoa(respw.statusCode),
		}
		reqTotal.WithLabelValues(labels...).Inc()
		reqDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

		respSize.WithLabelValues(r.Method, apiPath).Observe(float64(respw.written))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	written     int64
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
	r.wroteHeader = true
}

func (r *responseWriter) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

// fixAPIPathLabel folds ID-based paths into one label value to keep metric
// cardinality bounded.
func fixAPIPathLabel(p string) string {
	p = strings.TrimSuffix(p, "/")
	if strings.HasPrefix(p, apiTracesPath) && len(p) > len(apiTracesPath) {
		if strings.HasSuffix(p, "/flamegraph") {
			return apiTracesPath + "/__tid__/flamegraph"
		}
		return apiTracesPath + "/__tid__"
	}
	return p
}

package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/flamescale/flamescale/pkg/log"
)

const headerRequestID = "X-Request-Id"

func LoggingHandler(logger *log.Logger, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now().UTC()

		resp := &responseWriter{w, http.StatusOK}

		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = nextRequestID()
			r = r.WithContext(ContextWithRequestID(r.Context(), id))
			r.Header.Set(headerRequestID, id)
		}

		handler.ServeHTTP(resp, r)

		remoteAddr, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			remoteAddr = r.RemoteAddr
		}

		logger.Infow("request",
			"rid", id,
			"method", r.Method,
			"uri", r.RequestURI,
			"code", resp.statusCode,
			"ip", remoteAddr,
			"rtime", time.Since(ts),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}

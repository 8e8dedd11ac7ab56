package middleware

import (
	"net/http"
	"time"

	"github.com/aljannat-dev/aljannat/shared/logger"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one structured line per request. Bodies are never
// logged since they carry passwords and codes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chi_middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chi_middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		}
		if status >= http.StatusInternalServerError {
			logger.Log.Error("http request", attrs...)
			return
		}
		logger.Log.Info("http request", attrs...)
	})
}

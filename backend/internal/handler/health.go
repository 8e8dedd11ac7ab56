package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aljannat-dev/aljannat/shared/logger"
)

const readinessTimeout = 2 * time.Second

// Health answers as long as the process is serving. It never touches a store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writePlain(w, http.StatusOK, "ok")
}

// Ready pings postgres (and redis when enabled) so the load balancer stops
// routing here while a store is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logger.Log.Warn("readiness check failed", "error", err)
		writePlain(w, http.StatusServiceUnavailable, "dependencies unavailable")
		return
	}
	writePlain(w, http.StatusOK, "ok")
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

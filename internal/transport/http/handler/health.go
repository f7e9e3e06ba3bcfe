package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const readinessTimeout = 2 * time.Second

type readinessChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler serves /health-check/{action}: "ping" is liveness and
// "ready" checks the backing tables. A nil checker reports ready.
type HealthHandler struct {
	checker readinessChecker
	log     zerolog.Logger
}

func NewHealthHandler(checker readinessChecker, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, log: log}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		h.ready(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := h.checker.Check(ctx); err != nil {
			h.log.Warn().Err(err).Msg("readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
}

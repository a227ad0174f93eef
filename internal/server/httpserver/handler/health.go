package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/webfront/internal/core/domain"
)

// handleHealth handles GET /health. It reports liveness only and stays 200
// during the shutdown grace period.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready. It turns 503 once shutdown has started or
// while no build configuration is loaded.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.shuttingDown() {
		WriteError(w, r, domain.ErrShuttingDown)
		return
	}
	if _, err := h.build.Snapshot(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "ready",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

package handler

import (
	"net/http"

	"github.com/yndnr/webfront/internal/infra/buildinfo"
	"github.com/yndnr/webfront/internal/infra/shutdown"
)

// handleSignals handles GET /admin/v1/signals.
func (h *Handler) handleSignals(w http.ResponseWriter, r *http.Request) {
	resp := SignalsResponse{
		Signals:       []SignalInfo{},
		GracePeriodMS: shutdown.GracePeriod.Milliseconds(),
		ExitCode:      shutdown.ExitCode,
	}

	if h.shutdown != nil {
		for _, sub := range h.shutdown.Subscriptions() {
			resp.Signals = append(resp.Signals, SignalInfo{
				Name:        sub.Name,
				Description: sub.Signal.String(),
			})
		}
		resp.PendingExits = h.shutdown.Pending()
		resp.ShuttingDown = h.shutdown.ShuttingDown()
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleVersion handles GET /admin/v1/version.
func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, buildinfo.Get())
}

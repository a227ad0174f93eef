package handler

import "net/http"

// handleBuild handles GET /build.
func (h *Handler) handleBuild(w http.ResponseWriter, r *http.Request) {
	snap, err := h.build.Snapshot()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, BuildResponse{
		NodeEnv:    snap.NodeEnv,
		Production: snap.Production(),
		LoadedAt:   snap.LoadedAt,
		AppDir:     snap.Next.Experimental.AppDir,
		Plugins:    snap.PostCSS.Names(),
	})
}

// handleNext handles GET /build/next.
func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	snap, err := h.build.Snapshot()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, snap.Next)
}

// handlePostCSS handles GET /build/postcss. The data field carries the
// ordered plugin object, minifier included for production.
func (h *Handler) handlePostCSS(w http.ResponseWriter, r *http.Request) {
	snap, err := h.build.Snapshot()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, snap.PostCSS)
}

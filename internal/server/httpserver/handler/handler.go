package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/infra/shutdown"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// BuildReader reads the current build configuration.
type BuildReader interface {
	Snapshot() (*service.BuildSnapshot, error)
}

// ShutdownState exposes the shutdown coordinator to the handlers.
type ShutdownState interface {
	ShuttingDown() bool
	Subscriptions() []shutdown.SignalSubscription
	Pending() int
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	build    BuildReader
	shutdown ShutdownState
	logger   logger.Logger
	mux      *http.ServeMux
	now      func() time.Time
}

// New creates a new Handler. A nil ShutdownState reports a running process
// with no subscriptions.
func New(build BuildReader, state ShutdownState, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		build:    build,
		shutdown: state,
		logger:   log,
		mux:      http.NewServeMux(),
		now:      time.Now,
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /build", h.handleBuild)
	h.mux.HandleFunc("GET /build/next", h.handleNext)
	h.mux.HandleFunc("GET /build/postcss", h.handlePostCSS)

	h.mux.HandleFunc("GET /admin/v1/signals", h.handleSignals)
	h.mux.HandleFunc("GET /admin/v1/version", h.handleVersion)

	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, domain.ErrNotFound.WithDetails(r.URL.Path))
	})
}

func (h *Handler) shuttingDown() bool {
	return h.shutdown != nil && h.shutdown.ShuttingDown()
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsDomainError(err, "") {
		h.logger.WithContext(r.Context()).Error("internal error", "error", err)
		err = domain.ErrInternalServer
	}
	WriteError(w, r, err)
}

// WriteError writes err in the standard envelope. The status comes from
// the domain error code; foreign errors are reported as internal errors.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.ErrInternalServer
	}

	var details any
	if de.Details != "" {
		details = de.Details
	}
	response := NewErrorResponse(logger.RequestIDFromContext(r.Context()), de.Code, de.Message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", de.Code)
	w.WriteHeader(domain.HTTPStatus(de))
	_ = json.NewEncoder(w).Encode(response)
}

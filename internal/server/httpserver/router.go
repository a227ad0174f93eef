package httpserver

import (
	"net/http"

	"github.com/yndnr/webfront/internal/server/httpserver/handler"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// MetricsSource serves the Prometheus exposition and records requests.
type MetricsSource interface {
	RequestObserver
	Handler() http.Handler
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Build serves the build configuration.
	Build handler.BuildReader

	// Shutdown reports signal subscriptions and shutdown progress.
	Shutdown handler.ShutdownState

	// Metrics backs /metrics and the request metrics. Optional.
	Metrics MetricsSource

	// Logger for request logging.
	Logger logger.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = no CORS headers).
	CORSAllowedOrigins []string

	// RateLimit is the per-client rate limit (requests/second, 0 = off).
	RateLimit int

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP instead of the peer address.
	TrustProxyHeaders bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "http")

	h := handler.New(cfg.Build, cfg.Shutdown, log)

	var obs RequestObserver
	if cfg.Metrics != nil {
		obs = cfg.Metrics
	}

	// Order: Recover -> CORS -> RequestID -> ClientIP -> RateLimit -> AccessLog -> Handler
	middlewares := []Middleware{Recover(log)}
	if len(cfg.CORSAllowedOrigins) > 0 {
		middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
	}
	middlewares = append(middlewares, RequestID(), ClientIP(cfg.TrustProxyHeaders))
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}
	middlewares = append(middlewares, AccessLog(log, obs))

	mux := http.NewServeMux()

	// Probes and scrapes skip rate limiting and access logging.
	probes := Chain(h, Recover(log), RequestID())
	mux.Handle("GET /health", probes)
	mux.Handle("GET /ready", probes)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log)))
	}

	mux.Handle("/", Chain(h, middlewares...))

	return mux
}

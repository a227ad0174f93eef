// Package httpserver provides the HTTP/HTTPS server for webfront.
//
// This package exposes the process state over stdlib net/http:
//
//   - Build endpoints: /build, /build/next, /build/postcss
//   - Admin endpoints: /admin/v1/signals, /admin/v1/version
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - Middleware chain: Recover, CORS, RequestID, ClientIP, RateLimit, AccessLog
//   - Per-client rate limiting with golang.org/x/time/rate
//   - Readiness turns 503 as soon as shutdown starts
//   - Graceful shutdown, registered as a shutdown hook by the server binary
package httpserver

// Package logger provides structured logging for webfront.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler construction, dynamic level
//   - context.go: context propagation of the logger and request IDs
//   - redact.go: masking of credential-looking attributes
//
// Both binaries build one Logger at startup from the log section of the
// configuration and install it with SetDefault.
package logger

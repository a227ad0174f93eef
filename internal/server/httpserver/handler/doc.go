// Package handler provides HTTP request handlers for webfront.
//
// This package contains handlers for all HTTP endpoints:
//
//   - build.go: Build configuration (framework flags, CSS pipeline)
//   - admin.go: Signal subscriptions and version
//   - health.go: Health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Read state from a service interface
//   - Wrap it in the standard response envelope
//   - Map domain errors to HTTP status codes
package handler

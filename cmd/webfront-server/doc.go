// Package main provides the entry point for webfront-server.
//
// The server owns the front-end build configuration and the process
// shutdown behaviour:
//
//   - HTTP API for the framework flags and the ordered CSS plugin pipeline
//   - Health and readiness probes, readiness dropping once shutdown starts
//   - Prometheus metrics for signals, exits, reloads and requests
//   - Hot reload of the build section when build.watch is enabled
//
// Every supported termination signal is intercepted. The process logs the
// signal, starts its cleanup hooks and exits with status 0 after a fixed
// 400ms grace period.
//
// Usage:
//
//	webfront-server [flags]
//	webfront-server --config /etc/webfront/webfront.yaml
package main

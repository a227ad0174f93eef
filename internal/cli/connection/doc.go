// Package connection is the HTTP client webfront-cli uses to query a
// running webfront-server.
package connection

// Package cmap provides a concurrent map for string keys.
//
// Keys are spread over a fixed number of shards, each with its own lock, so
// unrelated keys do not contend. It backs the per-client state of the HTTP
// middleware, where every request touches one key.
package cmap

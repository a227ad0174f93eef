// Package metric provides Prometheus metrics for webfront.
//
// A Registry owns a private prometheus.Registry (plus the Go and process
// collectors) so tests can build as many as they like. It also implements
// shutdown.Observer, which is how termination signals and scheduled exits
// show up on /metrics.
package metric

package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "webfront"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Shutdown metrics
	SignalsReceived *prometheus.CounterVec
	ExitsScheduled  prometheus.Counter
	ExitsPending    prometheus.Gauge

	// Build configuration metrics
	ConfigReloads  *prometheus.CounterVec
	ProductionMode prometheus.Gauge

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with every webfront metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		SignalsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "signals_received_total",
			Help:      "Termination signals received, by signal name.",
		}, []string{"signal"}),
		ExitsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "exits_scheduled_total",
			Help:      "Delayed exits scheduled by the shutdown coordinator.",
		}),
		ExitsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "shutdown",
			Name:      "exits_pending",
			Help:      "Delayed exits scheduled but not yet fired.",
		}),
		ConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "config_reloads_total",
			Help:      "Build configuration reloads, by result.",
		}, []string{"result"}),
		ProductionMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "production",
			Help:      "1 when the active build configuration targets production.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method and status code.",
		}, []string{"method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.SignalsReceived,
		r.ExitsScheduled,
		r.ExitsPending,
		r.ConfigReloads,
		r.ProductionMode,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// SignalReceived implements shutdown.Observer.
func (r *Registry) SignalReceived(name string) {
	r.SignalsReceived.WithLabelValues(name).Inc()
}

// ExitScheduled implements shutdown.Observer.
func (r *Registry) ExitScheduled() {
	r.ExitsScheduled.Inc()
	r.ExitsPending.Inc()
}

// ExitFired implements shutdown.Observer.
func (r *Registry) ExitFired() {
	r.ExitsPending.Dec()
}

// ExitCanceled implements shutdown.Observer.
func (r *Registry) ExitCanceled() {
	r.ExitsPending.Dec()
}

// ConfigReloaded records the outcome of a build configuration reload.
func (r *Registry) ConfigReloaded(err error, production bool) {
	if err != nil {
		r.ConfigReloads.WithLabelValues("error").Inc()
		return
	}
	r.ConfigReloads.WithLabelValues("ok").Inc()
	if production {
		r.ProductionMode.Set(1)
	} else {
		r.ProductionMode.Set(0)
	}
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method, code string, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, code).Inc()
	r.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

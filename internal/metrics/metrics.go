// Package metrics exposes Prometheus metrics for the HTTP server.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server. Each instance has its own
// registry so tests and servers do not share state.
type Metrics struct {
	registry *prometheus.Registry

	Interfaces  prometheus.Gauge
	Relations   prometheus.Gauge
	Reloads     *prometheus.CounterVec
	LastReload  prometheus.Gauge
	Snapshots   *prometheus.CounterVec
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Interfaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_interfaces",
		Help: "Number of interfaces in the current configuration",
	})
	m.Relations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_relations",
		Help: "Number of link and member references in the current configuration",
	})
	m.Reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netplan_reloads_total",
		Help: "Configuration reloads by result",
	}, []string{"result"})
	m.LastReload = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_last_reload_timestamp_seconds",
		Help: "Time of the last successful reload",
	})
	m.Snapshots = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netplan_snapshots_total",
		Help: "Scheduled SQLite snapshots by result",
	}, []string{"result"})
	m.APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netplan_api_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})
	m.APILatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netplan_api_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	m.registry.MustRegister(
		m.Interfaces, m.Relations, m.Reloads, m.LastReload,
		m.Snapshots, m.APIRequests, m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReload records the outcome of a reload.
func (m *Metrics) ObserveReload(ok bool, interfaces, relations int, unixTime float64) {
	if !ok {
		m.Reloads.WithLabelValues("error").Inc()
		return
	}
	m.Reloads.WithLabelValues("ok").Inc()
	m.Interfaces.Set(float64(interfaces))
	m.Relations.Set(float64(relations))
	m.LastReload.Set(unixTime)
}

// ObserveSnapshot records the outcome of a scheduled snapshot.
func (m *Metrics) ObserveSnapshot(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Snapshots.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method string, code int, seconds float64) {
	m.APIRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.APILatency.WithLabelValues(method).Observe(seconds)
}

package loadgen

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getchaosd/chaosd/pkg/probe"
)

// Metrics exposes probe outcomes as Prometheus series so a scenario run can
// be watched from the outside (chaosd run --metrics-addr).
type Metrics struct {
	registry *prometheus.Registry
	probes   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates a metrics set on its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chaosd",
			Name:      "probes_total",
			Help:      "Observation probes fired during scenario runs, by outcome.",
		}, []string{"scenario", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chaosd",
			Name:      "probe_latency_seconds",
			Help:      "Observation probe latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"scenario"}),
	}
	m.registry.MustRegister(m.probes, m.latency)
	return m
}

// Observe records one probe result.
func (m *Metrics) Observe(scenario string, r probe.Result) {
	m.probes.WithLabelValues(scenario, string(r.Status)).Inc()
	m.latency.WithLabelValues(scenario).Observe(r.Latency.Seconds())
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exposes visit and advisor counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	visitsCreated    prometheus.Counter
	decisions        *prometheus.CounterVec
	advisorFallbacks *prometheus.CounterVec
	pendingVisitors  prometheus.Gauge
}

// New creates the counters and registers them with Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		visitsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartvisit",
			Name:      "visits_created_total",
			Help:      "Visit requests registered.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartvisit",
			Name:      "decisions_total",
			Help:      "Staff decisions applied, by resulting status.",
		}, []string{"status"}),
		advisorFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartvisit",
			Name:      "advisor_fallbacks_total",
			Help:      "Advisor calls answered with the fixed fallback, by operation.",
		}, []string{"op"}),
		pendingVisitors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "smartvisit",
			Name:      "pending_visitors",
			Help:      "Visit requests awaiting a decision.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.visitsCreated,
		m.decisions,
		m.advisorFallbacks,
		m.pendingVisitors,
	)

	return m
}

// VisitCreated counts one registration.
func (m *Metrics) VisitCreated() {
	m.visitsCreated.Inc()
}

// Decision counts one applied status change.
func (m *Metrics) Decision(status string) {
	m.decisions.WithLabelValues(status).Inc()
}

// AdvisorFallback counts one fallback answer for op.
func (m *Metrics) AdvisorFallback(op string) {
	m.advisorFallbacks.WithLabelValues(op).Inc()
}

// SetPending records the current number of pending requests.
func (m *Metrics) SetPending(n int) {
	m.pendingVisitors.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

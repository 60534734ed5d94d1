// Package metrics exposes Prometheus collectors for the assessment socket.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the assessment metrics
type Collector struct {
	connections  prometheus.Gauge
	started      *prometheus.CounterVec
	completed    *prometheus.CounterVec
	protocolErrs prometheus.Counter
	scores       prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inflecto_assessment_connections",
			Help: "Open readiness assessment connections",
		}),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inflecto_assessment_sessions_started_total",
			Help: "Accepted start events by persona",
		}, []string{"persona"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inflecto_assessment_sessions_completed_total",
			Help: "Finished sessions by outcome (a stage, or no_questions)",
		}, []string{"outcome"}),
		protocolErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inflecto_assessment_protocol_errors_total",
			Help: "Inbound messages that could not be parsed",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inflecto_assessment_score",
			Help:    "Normalized readiness scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 75, 85, 100},
		}),
	}
	reg.MustRegister(c.connections, c.started, c.completed, c.protocolErrs, c.scores)
	return c
}

// ConnectionOpened increments the open connection gauge
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connections.Inc()
}

// ConnectionClosed decrements the open connection gauge
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connections.Dec()
}

// SessionStarted counts a start event for persona. Unknown personas are
// folded into one label value to keep cardinality bounded.
func (c *Collector) SessionStarted(persona string, known bool) {
	if c == nil {
		return
	}
	if !known {
		persona = "unknown"
	}
	c.started.WithLabelValues(persona).Inc()
}

// SessionScored records a completed, scored session
func (c *Collector) SessionScored(stage string, score float64) {
	if c == nil {
		return
	}
	c.completed.WithLabelValues(stage).Inc()
	c.scores.Observe(score)
}

// SessionRejected records a session ended without questions
func (c *Collector) SessionRejected() {
	if c == nil {
		return
	}
	c.completed.WithLabelValues("no_questions").Inc()
}

// ProtocolError counts a malformed inbound message
func (c *Collector) ProtocolError() {
	if c == nil {
		return
	}
	c.protocolErrs.Inc()
}

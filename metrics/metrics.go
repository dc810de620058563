// Package metrics exposes the server's transfer counters to Prometheus.
// All methods are nil-safe so instrumented code paths need no guards when
// the exporter is disabled.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsFailed    *prometheus.CounterVec
	activeSessions    *prometheus.GaugeVec
	bytesSent         *prometheus.CounterVec
	bytesReceived     *prometheus.CounterVec
	datagramsSent     prometheus.Counter
	datagramsDropped  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speedtest_sessions_started_total",
			Help: "Transfer sessions started, by protocol.",
		}, []string{"protocol"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speedtest_sessions_completed_total",
			Help: "Transfer sessions that ran to completion, by protocol.",
		}, []string{"protocol"}),
		sessionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speedtest_sessions_failed_total",
			Help: "Transfer sessions that ended in a transport failure, by protocol.",
		}, []string{"protocol"}),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "speedtest_active_sessions",
			Help: "Transfer sessions currently running, by protocol.",
		}, []string{"protocol"}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speedtest_bytes_sent_total",
			Help: "Payload bytes written to the network, by protocol.",
		}, []string{"protocol"}),
		bytesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speedtest_bytes_received_total",
			Help: "Payload bytes read from the network, by protocol.",
		}, []string{"protocol"}),
		datagramsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "speedtest_udp_datagrams_sent_total",
			Help: "Sequence-numbered datagrams emitted by the UDP sender.",
		}),
		datagramsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "speedtest_udp_datagrams_dropped_total",
			Help: "Datagrams the sender skipped via fault injection.",
		}),
	}
	m.registry.MustRegister(
		m.sessionsStarted, m.sessionsCompleted, m.sessionsFailed,
		m.activeSessions, m.bytesSent, m.bytesReceived,
		m.datagramsSent, m.datagramsDropped,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted(p speedtest.Protocol) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(p.String()).Inc()
	m.activeSessions.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) SessionCompleted(p speedtest.Protocol) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(p.String()).Inc()
	m.activeSessions.WithLabelValues(p.String()).Dec()
}

func (m *Metrics) SessionFailed(p speedtest.Protocol) {
	if m == nil {
		return
	}
	m.sessionsFailed.WithLabelValues(p.String()).Inc()
	m.activeSessions.WithLabelValues(p.String()).Dec()
}

func (m *Metrics) AddBytesSent(p speedtest.Protocol, n int) {
	if m == nil {
		return
	}
	m.bytesSent.WithLabelValues(p.String()).Add(float64(n))
}

func (m *Metrics) AddBytesReceived(p speedtest.Protocol, n int) {
	if m == nil {
		return
	}
	m.bytesReceived.WithLabelValues(p.String()).Add(float64(n))
}

func (m *Metrics) DatagramSent() {
	if m == nil {
		return
	}
	m.datagramsSent.Inc()
}

func (m *Metrics) DatagramDropped() {
	if m == nil {
		return
	}
	m.datagramsDropped.Inc()
}

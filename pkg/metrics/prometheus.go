package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a private registry so that tests and multiple servers in one
// process never collide on the default registerer.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	scoresGenerated *prometheus.CounterVec
	alerts          *prometheus.CounterVec
	anomalies       *prometheus.CounterVec
	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
}

// NewManager creates a Manager and registers every collector.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jsi",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)

	m.scoresGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scores_generated_total",
		Help:      "Score records generated, by risk level",
	}, []string{"risk_level"})

	m.alerts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "alerts_total",
		Help:      "Alert dispatch attempts, by result",
	}, []string{"result"})

	m.anomalies = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "anomalies_detected_total",
		Help:      "Anomalies detected, by type",
	}, []string{"type"})

	m.rpcRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "grpc_requests_total",
		Help:      "gRPC requests handled, by method and status code",
	}, []string{"method", "code"})

	m.rpcDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "grpc_request_duration_seconds",
		Help:      "gRPC request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"method"})

	return m
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ObserveScore(riskLevel string) {
	m.scoresGenerated.WithLabelValues(riskLevel).Inc()
}

// ObserveAlert records an alert outcome: "sent", "failed" or "skipped".
func (m *Manager) ObserveAlert(result string) {
	m.alerts.WithLabelValues(result).Inc()
}

func (m *Manager) ObserveAnomaly(anomalyType string) {
	m.anomalies.WithLabelValues(anomalyType).Inc()
}

func (m *Manager) ObserveRPC(method, code string, duration time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(duration.Seconds())
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	ProxyRequests       *prometheus.CounterVec
	AssociationDuration *prometheus.HistogramVec
	AuditWriteFailures  prometheus.Counter
	RegistryFailures    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProxyRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dicomgate_proxy_requests_total",
			Help: "Total proxied requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		AssociationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dicomgate_association_duration_seconds",
			Help:    "Duration of remote association calls by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dicomgate_audit_write_failures_total",
			Help: "Total audit log writes that failed and aborted a request",
		}),
		RegistryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dicomgate_endpoint_registry_failures_total",
			Help: "Total endpoint registry lookups that failed for reasons other than an unknown name",
		}),
	}
}

// ObserveProxyRequest records one proxied request outcome.
func (m *Metrics) ObserveProxyRequest(operation, outcome string) {
	m.ProxyRequests.WithLabelValues(operation, outcome).Inc()
}

// ObserveAssociation records the duration of one association call.
func (m *Metrics) ObserveAssociation(operation string, seconds float64) {
	m.AssociationDuration.WithLabelValues(operation).Observe(seconds)
}

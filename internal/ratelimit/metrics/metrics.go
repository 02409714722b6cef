package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for rate limiting.
type Metrics struct {
	Denied   *prometheus.CounterVec
	FailOpen *prometheus.CounterVec
}

// New creates and registers all rate limiting metrics.
func New() *Metrics {
	return &Metrics{
		Denied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_rate_limit_denied_total",
			Help: "Requests denied by a rate limit policy.",
		}, []string{"policy"}),
		FailOpen: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_rate_limit_fail_open_total",
			Help: "Limit checks allowed because the backing store failed.",
		}, []string{"policy"}),
	}
}

func (m *Metrics) IncrementDenied(policy string) {
	m.Denied.WithLabelValues(policy).Inc()
}

func (m *Metrics) IncrementFailOpen(policy string) {
	m.FailOpen.WithLabelValues(policy).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the registration domain.
type Metrics struct {
	Created         *prometheus.CounterVec
	QuotaRejections *prometheus.CounterVec
	StatusChanges   *prometheus.CounterVec
}

// New creates and registers all registration metrics.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_registrations_created_total",
			Help: "Total number of registrations created, by track",
		}, []string{"track"}),
		QuotaRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_registrations_quota_rejected_total",
			Help: "Total number of submissions rejected because a track was full, by track",
		}, []string{"track"}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_registration_status_changes_total",
			Help: "Total number of admin status transitions, by target status",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementCreated(track string) {
	m.Created.WithLabelValues(track).Inc()
}

func (m *Metrics) IncrementQuotaRejected(track string) {
	m.QuotaRejections.WithLabelValues(track).Inc()
}

func (m *Metrics) IncrementStatusChange(status string) {
	m.StatusChanges.WithLabelValues(status).Inc()
}

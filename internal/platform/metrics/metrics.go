package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service. Services accept a
// nil *Metrics so tests don't touch the default registry.
type Metrics struct {
	ClaimsSubmitted   prometheus.Counter
	ClaimsAdjudicated *prometheus.CounterVec
	ItemsReported     *prometheus.CounterVec
	AuditEntries      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reclaim_claims_submitted_total",
			Help: "Total number of claims submitted",
		}),
		ClaimsAdjudicated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_claims_adjudicated_total",
			Help: "Total number of claims adjudicated, by decision",
		}, []string{"decision"}),
		ItemsReported: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_items_reported_total",
			Help: "Total number of items reported, by kind",
		}, []string{"kind"}),
		AuditEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reclaim_audit_entries_total",
			Help: "Total number of audit entries recorded",
		}),
	}
}

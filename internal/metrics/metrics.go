package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authorization decision results.
const (
	AuthzAllowed         = "allowed"
	AuthzForbidden       = "forbidden"
	AuthzUnauthenticated = "unauthenticated"
	AuthzError           = "error"
)

// Reorder results.
const (
	ReorderCommitted = "committed"
	ReorderInvalid   = "invalid"
	ReorderNotFound  = "not_found"
	ReorderFailed    = "failed"
)

var (
	authzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentorship",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Admin gate decisions broken down by result.",
	}, []string{"result"})

	membershipPages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mentorship",
		Subsystem: "authz",
		Name:      "membership_pages_total",
		Help:      "Organization membership pages fetched from the identity provider.",
	})

	reorderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentorship",
		Subsystem: "reorder",
		Name:      "requests_total",
		Help:      "Reorder requests broken down by entity kind and result.",
	}, []string{"kind", "result"})

	reorderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mentorship",
		Subsystem: "reorder",
		Name:      "latency_seconds",
		Help:      "Latency of reorder transactions.",
		Buckets: []float64{
			0.001, 0.002, 0.005, 0.01,
			0.02, 0.05, 0.1, 0.2,
			0.5, 1, 2,
		},
	}, []string{"kind", "result"})
)

// RecordAuthzDecision counts one admin gate decision.
func RecordAuthzDecision(result string) {
	authzDecisions.WithLabelValues(result).Inc()
}

// RecordMembershipPage counts one membership page fetch.
func RecordMembershipPage() {
	membershipPages.Inc()
}

// RecordReorder counts one reorder attempt and its latency.
func RecordReorder(kind, result string, latency time.Duration) {
	labels := prometheus.Labels{"kind": kind, "result": result}
	reorderRequests.With(labels).Inc()
	reorderLatency.With(labels).Observe(latency.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Package metrics exposes Prometheus instruments for the policy and claim
// write paths.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the back office core: issuance volume,
// claim flow and the contention points worth watching (number retries,
// blocked deletions).
type Metrics struct {
	PoliciesIssued   prometheus.Counter
	ClaimsFiled      prometheus.Counter
	ClaimsPaid       prometheus.Counter
	BlockedDeletions prometheus.Counter
	NumberRetries    prometheus.Counter
	IssuanceDuration prometheus.Histogram
}

// New creates a Metrics instance registered on reg. Pass
// prometheus.DefaultRegisterer in production; tests hand in their own
// registry so repeated construction never collides.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PoliciesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentplatform_policies_issued_total",
			Help: "Total number of policies issued",
		}),
		ClaimsFiled: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentplatform_claims_filed_total",
			Help: "Total number of claims filed",
		}),
		ClaimsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentplatform_claims_paid_total",
			Help: "Total number of claims marked paid",
		}),
		BlockedDeletions: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentplatform_blocked_deletions_total",
			Help: "Total number of deletions refused by a business precondition",
		}),
		NumberRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentplatform_number_retries_total",
			Help: "Total number of policy/claim number collisions retried",
		}),
		IssuanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentplatform_policy_issuance_duration_seconds",
			Help:    "Duration of policy issuance, risk evaluation included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementPoliciesIssued records a successful policy issuance.
func (m *Metrics) IncrementPoliciesIssued() {
	m.PoliciesIssued.Inc()
}

// IncrementClaimsFiled records a successfully filed claim.
func (m *Metrics) IncrementClaimsFiled() {
	m.ClaimsFiled.Inc()
}

// IncrementClaimsPaid records a claim transitioning to paid.
func (m *Metrics) IncrementClaimsPaid() {
	m.ClaimsPaid.Inc()
}

// IncrementBlockedDeletions records a deletion refused by a precondition.
func (m *Metrics) IncrementBlockedDeletions() {
	m.BlockedDeletions.Inc()
}

// IncrementNumberRetries records a unique-number collision that was retried.
func (m *Metrics) IncrementNumberRetries() {
	m.NumberRetries.Inc()
}

// ObserveIssuance records the duration of a policy issuance. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveIssuance(start time.Time) {
	m.IssuanceDuration.Observe(time.Since(start).Seconds())
}

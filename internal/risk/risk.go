// Package risk evaluates how likely a tenancy is to default on rent. The
// policy service treats the scorer as an external collaborator: it is called
// before the issuance transaction opens, and its outcome is recorded on the
// policy as an immutable snapshot.
package risk

import (
	"context"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// QuoteInput carries the tenancy facts the scorer evaluates.
type QuoteInput struct {
	MonthlyRent   float64
	PaymentStatus models.TenantPaymentStatus
	LeaseMonths   int
}

// Evaluation is the scoring outcome: a 0-100 score (higher is safer) and the
// underwriting decision derived from it.
type Evaluation struct {
	Score    float64
	Decision models.RiskDecision
}

// Scorer produces an Evaluation for a proposed policy. Implementations may
// call out to an external underwriting service, so the context must be
// honored.
type Scorer interface {
	Evaluate(ctx context.Context, input QuoteInput) (Evaluation, error)
}

// Decision brackets. Scores at the boundary fall into the safer bucket.
const (
	acceptThreshold      = 70.0
	conditionalThreshold = 40.0
)

type heuristicScorer struct{}

// NewHeuristicScorer returns the built-in scorer: a deterministic heuristic
// over the tenant's payment history. It stands in until an external
// underwriting integration is configured and is what local development runs.
func NewHeuristicScorer() Scorer {
	return &heuristicScorer{}
}

// Evaluate scores from a neutral baseline of 75 and moves with the tenant's
// payment history: clean payers gain, overdue tenants lose heavily. Long
// leases edge the score up slightly since turnover risk drops.
func (s *heuristicScorer) Evaluate(_ context.Context, input QuoteInput) (Evaluation, error) {
	score := 75.0

	switch input.PaymentStatus {
	case models.PaymentStatusPaid:
		score += 10
	case models.PaymentStatusPending:
		score -= 15
	case models.PaymentStatusOverdue:
		score -= 40
	}

	if input.LeaseMonths >= 12 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Evaluation{Score: score, Decision: DecisionFor(score)}, nil
}

// DecisionFor maps a score onto the underwriting decision brackets.
func DecisionFor(score float64) models.RiskDecision {
	switch {
	case score >= acceptThreshold:
		return models.DecisionAccept
	case score >= conditionalThreshold:
		return models.DecisionConditionalAccept
	default:
		return models.DecisionDecline
	}
}

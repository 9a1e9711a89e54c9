// Package lifecycle enforces the legal status transitions of policies and
// claims. Functions return nil when a transition is legal and a conflict
// error describing the violation otherwise; they never touch the store.
package lifecycle

import (
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// policyTransitions enumerates the legal policy moves. Expired and cancelled
// are absorbing: no transition leaves them.
var policyTransitions = map[models.PolicyStatus][]models.PolicyStatus{
	models.PolicyStatusActive: {
		models.PolicyStatusExpired,
		models.PolicyStatusCancelled,
	},
	models.PolicyStatusExpired:   {},
	models.PolicyStatusCancelled: {},
}

// claimTransitions enumerates the legal claim moves. A claim may be approved
// or rejected straight from pending, but paid is only reachable from approved
// so an unapproved claim can never be paid out.
var claimTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimStatusPending: {
		models.ClaimStatusUnderReview,
		models.ClaimStatusApproved,
		models.ClaimStatusRejected,
	},
	models.ClaimStatusUnderReview: {
		models.ClaimStatusApproved,
		models.ClaimStatusRejected,
	},
	models.ClaimStatusApproved: {
		models.ClaimStatusPaid,
	},
	models.ClaimStatusRejected: {},
	models.ClaimStatusPaid:     {},
}

// CheckPolicyTransition validates a policy status change. Setting the current
// status again is a no-op and always legal.
func CheckPolicyTransition(from, to models.PolicyStatus) error {
	if !models.ValidPolicyStatus(to) {
		return domain.Validationf("unknown policy status %q", to)
	}
	if from == to {
		return nil
	}
	for _, allowed := range policyTransitions[from] {
		if to == allowed {
			return nil
		}
	}
	return domain.Conflictf("policy status cannot change from %q to %q", from, to)
}

// CheckClaimTransition validates a claim status change. Setting the current
// status again is a no-op and always legal.
func CheckClaimTransition(from, to models.ClaimStatus) error {
	if !models.ValidClaimStatus(to) {
		return domain.Validationf("unknown claim status %q", to)
	}
	if from == to {
		return nil
	}
	for _, allowed := range claimTransitions[from] {
		if to == allowed {
			return nil
		}
	}
	return domain.Conflictf("claim status cannot change from %q to %q", from, to)
}

// CheckPolicyDeletable validates the delete-time precondition for a policy:
// a policy with claims against it is never deleted, whatever the status of
// those claims. Financial records are blocked, not cascaded.
func CheckPolicyDeletable(claimCount int) error {
	if claimCount > 0 {
		return domain.Conflictf("policy has active claims")
	}
	return nil
}

// CheckClaimDeletable validates the delete-time precondition for a claim:
// a paid claim is a settled financial record and cannot be removed.
func CheckClaimDeletable(status models.ClaimStatus) error {
	if status == models.ClaimStatusPaid {
		return domain.Conflictf("paid claims cannot be deleted")
	}
	return nil
}

// CheckClaimable validates that a policy can accept new claims. Claims are
// only filed against active policies.
func CheckClaimable(status models.PolicyStatus) error {
	if status != models.PolicyStatusActive {
		return domain.Conflictf("policy %q does not accept claims", status)
	}
	return nil
}

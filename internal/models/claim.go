package models

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus is the lifecycle state of a claim. The lifecycle package
// enforces that paid is only reachable from approved.
type ClaimStatus string

// Possible values for ClaimStatus.
const (
	ClaimStatusPending     ClaimStatus = "pending"
	ClaimStatusUnderReview ClaimStatus = "under_review"
	ClaimStatusApproved    ClaimStatus = "approved"
	ClaimStatusRejected    ClaimStatus = "rejected"
	ClaimStatusPaid        ClaimStatus = "paid"
)

// Claim is a demand for indemnification of unpaid rent under a policy.
// PolicyID and ClaimNumber are immutable once assigned; status, evidence and
// notes remain mutable.
type Claim struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"userId"`
	PolicyID           uuid.UUID   `json:"policyId"`
	ClaimNumber        string      `json:"claimNumber"`
	Status             ClaimStatus `json:"status"`
	AmountRequested    float64     `json:"amountRequested"`
	MonthsOfUnpaidRent int         `json:"monthsOfUnpaidRent"`
	EvidenceURLs       []string    `json:"evidenceUrls,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// ValidClaimStatus reports whether s is one of the accepted claim statuses.
func ValidClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimStatusPending, ClaimStatusUnderReview, ClaimStatusApproved,
		ClaimStatusRejected, ClaimStatusPaid:
		return true
	}
	return false
}

// ClaimRow is the denormalized list view of a claim: the row already carries
// the policy number, the covered tenant and the landlord's name so list pages
// never fan out into extra lookups.
type ClaimRow struct {
	Claim           Claim  `json:"claim"`
	PolicyNumber    string `json:"policyNumber"`
	TenantName      string `json:"tenantName"`
	PropertyAddress string `json:"propertyAddress"`
	LandlordName    string `json:"landlordName"`
}

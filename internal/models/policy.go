package models

import (
	"time"

	"github.com/google/uuid"
)

// PolicyStatus is the lifecycle state of a policy. Transitions are governed by
// the lifecycle package; expired and cancelled are absorbing.
type PolicyStatus string

// Possible values for PolicyStatus.
const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

// RiskDecision is the outcome of the risk evaluation recorded at issuance.
type RiskDecision string

// Possible values for RiskDecision.
const (
	DecisionAccept            RiskDecision = "accept"
	DecisionConditionalAccept RiskDecision = "conditional_accept"
	DecisionDecline           RiskDecision = "decline"
)

// Policy is a rent-guarantee contract covering one tenant in one property for
// one landlord. Everything except Status is fixed at issuance: MonthlyRent
// snapshots the property rent so the premium stays reproducible even if the
// property is repriced later, and EndDate/PremiumAmount are derived fields
// computed by the pricing package, never settable by callers.
type Policy struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	LandlordID     uuid.UUID    `json:"landlordId"`
	PropertyID     uuid.UUID    `json:"propertyId"`
	TenantID       uuid.UUID    `json:"tenantId"`
	PolicyNumber   string       `json:"policyNumber"`
	Status         PolicyStatus `json:"status"`
	CoverageMonths int          `json:"coverageMonths"`
	MonthlyRent    float64      `json:"monthlyRent"`
	RiskScore      float64      `json:"riskScore"`
	Decision       RiskDecision `json:"decision"`
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	PremiumAmount  float64      `json:"premiumAmount"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ValidPolicyStatus reports whether s is one of the accepted policy statuses.
func ValidPolicyStatus(s PolicyStatus) bool {
	switch s {
	case PolicyStatusActive, PolicyStatusExpired, PolicyStatusCancelled:
		return true
	}
	return false
}

// PolicyDetail is the denormalized read view joining a policy with the three
// records it references. Served by the projection layer; consumed by the
// document renderer and the detail endpoint.
type PolicyDetail struct {
	Policy   Policy   `json:"policy"`
	Tenant   Tenant   `json:"tenant"`
	Property Property `json:"property"`
	Landlord Landlord `json:"landlord"`
}

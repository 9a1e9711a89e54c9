package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantPaymentStatus reflects how the tenant has been paying rent. It feeds
// the risk scorer when a policy is quoted for this tenant.
type TenantPaymentStatus string

// Possible values for TenantPaymentStatus.
const (
	PaymentStatusPaid    TenantPaymentStatus = "paid"
	PaymentStatusPending TenantPaymentStatus = "pending"
	PaymentStatusOverdue TenantPaymentStatus = "overdue"
)

// Tenant is an occupant of a Property under a lease. A tenant can be covered
// by at most one policy (the store enforces tenant-id uniqueness on policies).
type Tenant struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"userId"`
	PropertyID    uuid.UUID           `json:"propertyId"`
	FullName      string              `json:"fullName"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	RentAmount    float64             `json:"rentAmount"`
	PaymentStatus TenantPaymentStatus `json:"paymentStatus"`
	LeaseStart    time.Time           `json:"leaseStart"`
	LeaseEnd      time.Time           `json:"leaseEnd"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// ValidPaymentStatus reports whether s is one of the accepted payment statuses.
func ValidPaymentStatus(s TenantPaymentStatus) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusOverdue:
		return true
	}
	return false
}

// LeaseMonths is the approximate lease length in whole months, used as a risk
// input. Leases shorter than one month count as one.
func (t *Tenant) LeaseMonths() int {
	months := 0
	cursor := t.LeaseStart
	for cursor.AddDate(0, 1, 0).Before(t.LeaseEnd) || cursor.AddDate(0, 1, 0).Equal(t.LeaseEnd) {
		cursor = cursor.AddDate(0, 1, 0)
		months++
	}
	if months == 0 {
		return 1
	}
	return months
}

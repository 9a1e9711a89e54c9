package models

import (
	"time"

	"github.com/google/uuid"
)

// Landlord is the insured party: the owner of one or more rental properties.
// PropertyCount is denormalized and maintained in the same transaction as the
// property change that triggers it, never by a background job.
type Landlord struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PropertyCount int       `json:"propertyCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

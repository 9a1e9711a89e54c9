package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType categorizes a rental unit.
type PropertyType string

// Property types accepted at creation.
const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeCommercial PropertyType = "commercial"
)

// PropertyStatus is the occupancy state reported by the landlord.
type PropertyStatus string

// Possible values for PropertyStatus.
const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusRented      PropertyStatus = "rented"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// Property is a rental unit owned by a Landlord. CurrentTenants is derived
// from the tenant rows referencing the property and is recomputed inside the
// transaction of every tenant create/delete.
type Property struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"userId"`
	LandlordID     uuid.UUID      `json:"landlordId"`
	Address        string         `json:"address"`
	RentAmount     float64        `json:"rentAmount"`
	Type           PropertyType   `json:"type"`
	Status         PropertyStatus `json:"status"`
	MaxTenants     int            `json:"maxTenants"`
	CurrentTenants int            `json:"currentTenants"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ValidPropertyType reports whether t is one of the accepted property types.
func ValidPropertyType(t PropertyType) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeStudio, PropertyTypeCommercial:
		return true
	}
	return false
}

// ValidPropertyStatus reports whether s is one of the accepted statuses.
func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusRented, PropertyStatusMaintenance:
		return true
	}
	return false
}

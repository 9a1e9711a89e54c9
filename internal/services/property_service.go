package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
)

// CreatePropertyInput carries the fields a caller supplies when registering
// a rental unit under a landlord.
type CreatePropertyInput struct {
	LandlordID uuid.UUID
	Address    string
	RentAmount float64
	Type       models.PropertyType
	Status     models.PropertyStatus
	MaxTenants int
}

// UpdatePropertyInput is a partial update; nil fields keep their current
// value. CurrentTenants is never settable: it is derived from tenant rows.
type UpdatePropertyInput struct {
	LandlordID *uuid.UUID
	Address    *string
	RentAmount *float64
	Type       *models.PropertyType
	Status     *models.PropertyStatus
	MaxTenants *int
}

// PropertyService manages rental units. Every write keeps the landlord's
// denormalized property count in step, inside the same transaction.
type PropertyService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePropertyInput) (*models.Property, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	ListByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Property, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdatePropertyInput) (*models.Property, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type propertyService struct {
	store repository.Store
	log   *logger.Logger
}

// NewPropertyService creates a PropertyService backed by store.
func NewPropertyService(store repository.Store, log *logger.Logger) PropertyService {
	return &propertyService{store: store, log: log}
}

func (s *propertyService) Create(ctx context.Context, userID uuid.UUID, input CreatePropertyInput) (*models.Property, error) {
	if strings.TrimSpace(input.Address) == "" {
		return nil, domain.Validationf("address is required")
	}
	if input.RentAmount <= 0 {
		return nil, domain.Validationf("rent amount must be positive")
	}
	if !models.ValidPropertyType(input.Type) {
		return nil, domain.Validationf("unknown property type %q", input.Type)
	}
	if input.Status == "" {
		input.Status = models.PropertyStatusAvailable
	}
	if !models.ValidPropertyStatus(input.Status) {
		return nil, domain.Validationf("unknown property status %q", input.Status)
	}
	if input.MaxTenants < 1 {
		return nil, domain.Validationf("max tenants must be at least 1")
	}

	now := time.Now().UTC()
	property := &models.Property{
		ID:         uuid.New(),
		UserID:     userID,
		LandlordID: input.LandlordID,
		Address:    strings.TrimSpace(input.Address),
		RentAmount: input.RentAmount,
		Type:       input.Type,
		Status:     input.Status,
		MaxTenants: input.MaxTenants,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		if _, err := landlordRef(ctx, tx, userID, input.LandlordID); err != nil {
			return err
		}
		if err := tx.CreateProperty(ctx, property); err != nil {
			return err
		}
		return tx.RefreshLandlordPropertyCount(ctx, userID, input.LandlordID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"landlord_id": input.LandlordID,
		"user_id":     userID,
	})
	return property, nil
}

func (s *propertyService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Property, error) {
	return s.store.GetProperty(ctx, userID, id)
}

func (s *propertyService) List(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	return s.store.ListProperties(ctx, userID)
}

func (s *propertyService) ListByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Property, error) {
	return s.store.ListPropertiesByLandlord(ctx, userID, landlordID)
}

func (s *propertyService) Update(ctx context.Context, userID, id uuid.UUID, input UpdatePropertyInput) (*models.Property, error) {
	var updated *models.Property
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		property, err := tx.GetProperty(ctx, userID, id)
		if err != nil {
			return err
		}
		previousLandlord := property.LandlordID

		if input.LandlordID != nil && *input.LandlordID != property.LandlordID {
			if _, err := landlordRef(ctx, tx, userID, *input.LandlordID); err != nil {
				return err
			}
			property.LandlordID = *input.LandlordID
		}
		if input.Address != nil {
			if strings.TrimSpace(*input.Address) == "" {
				return domain.Validationf("address cannot be empty")
			}
			property.Address = strings.TrimSpace(*input.Address)
		}
		if input.RentAmount != nil {
			if *input.RentAmount <= 0 {
				return domain.Validationf("rent amount must be positive")
			}
			property.RentAmount = *input.RentAmount
		}
		if input.Type != nil {
			if !models.ValidPropertyType(*input.Type) {
				return domain.Validationf("unknown property type %q", *input.Type)
			}
			property.Type = *input.Type
		}
		if input.Status != nil {
			if !models.ValidPropertyStatus(*input.Status) {
				return domain.Validationf("unknown property status %q", *input.Status)
			}
			property.Status = *input.Status
		}
		if input.MaxTenants != nil {
			if *input.MaxTenants < 1 {
				return domain.Validationf("max tenants must be at least 1")
			}
			if *input.MaxTenants < property.CurrentTenants {
				return domain.Conflictf("property houses %d tenants, capacity cannot drop to %d", property.CurrentTenants, *input.MaxTenants)
			}
			property.MaxTenants = *input.MaxTenants
		}
		property.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateProperty(ctx, property); err != nil {
			return err
		}
		if property.LandlordID != previousLandlord {
			if err := tx.RefreshLandlordPropertyCount(ctx, userID, previousLandlord); err != nil {
				return err
			}
			if err := tx.RefreshLandlordPropertyCount(ctx, userID, property.LandlordID); err != nil {
				return err
			}
		}
		updated = property
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the property and its tenants, the policies covering those
// tenancies and their claims, then recomputes the landlord's property count,
// all in one transaction.
func (s *propertyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		property, err := tx.GetProperty(ctx, userID, id)
		if err != nil {
			return err
		}

		tenantIDs, err := tx.TenantIDsByProperties(ctx, userID, []uuid.UUID{id})
		if err != nil {
			return err
		}
		policyIDs, err := tx.PolicyIDsByProperties(ctx, userID, []uuid.UUID{id})
		if err != nil {
			return err
		}

		if err := tx.DeleteClaimsForPolicies(ctx, userID, policyIDs); err != nil {
			return err
		}
		if err := tx.DeletePolicies(ctx, userID, policyIDs); err != nil {
			return err
		}
		if err := tx.DeleteTenants(ctx, userID, tenantIDs); err != nil {
			return err
		}
		if err := tx.DeleteProperties(ctx, userID, []uuid.UUID{id}); err != nil {
			return err
		}
		return tx.RefreshLandlordPropertyCount(ctx, userID, property.LandlordID)
	})
	if err != nil {
		return err
	}

	s.log.Info("Property deleted with cascade", map[string]interface{}{
		"property_id": id,
		"user_id":     userID,
	})
	return nil
}

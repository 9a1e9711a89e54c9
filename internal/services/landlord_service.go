package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
)

// CreateLandlordInput carries the fields a caller supplies when registering
// a landlord.
type CreateLandlordInput struct {
	FullName string
	Email    string
	Phone    string
}

// UpdateLandlordInput is a partial update; nil fields keep their current
// value.
type UpdateLandlordInput struct {
	FullName *string
	Email    *string
	Phone    *string
}

// LandlordService manages landlords, the root of the ownership chain.
// Deleting a landlord tears down everything underneath it: properties,
// tenants, policies and claims, all in one transaction.
type LandlordService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateLandlordInput) (*models.Landlord, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Landlord, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Landlord, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateLandlordInput) (*models.Landlord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type landlordService struct {
	store repository.Store
	log   *logger.Logger
}

// NewLandlordService creates a LandlordService backed by store.
func NewLandlordService(store repository.Store, log *logger.Logger) LandlordService {
	return &landlordService{store: store, log: log}
}

func (s *landlordService) Create(ctx context.Context, userID uuid.UUID, input CreateLandlordInput) (*models.Landlord, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.Validationf("full name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, domain.Validationf("email is required")
	}

	now := time.Now().UTC()
	landlord := &models.Landlord{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  strings.TrimSpace(input.FullName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateLandlord(ctx, landlord); err != nil {
		return nil, fmt.Errorf("failed to create landlord: %w", err)
	}

	s.log.Info("Landlord created", map[string]interface{}{
		"landlord_id": landlord.ID,
		"user_id":     userID,
	})
	return landlord, nil
}

func (s *landlordService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Landlord, error) {
	return s.store.GetLandlord(ctx, userID, id)
}

func (s *landlordService) List(ctx context.Context, userID uuid.UUID) ([]models.Landlord, error) {
	return s.store.ListLandlords(ctx, userID)
}

func (s *landlordService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateLandlordInput) (*models.Landlord, error) {
	var updated *models.Landlord
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		landlord, err := tx.GetLandlord(ctx, userID, id)
		if err != nil {
			return err
		}

		if input.FullName != nil {
			if strings.TrimSpace(*input.FullName) == "" {
				return domain.Validationf("full name cannot be empty")
			}
			landlord.FullName = strings.TrimSpace(*input.FullName)
		}
		if input.Email != nil {
			if strings.TrimSpace(*input.Email) == "" {
				return domain.Validationf("email cannot be empty")
			}
			landlord.Email = strings.TrimSpace(*input.Email)
		}
		if input.Phone != nil {
			landlord.Phone = strings.TrimSpace(*input.Phone)
		}
		landlord.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateLandlord(ctx, landlord); err != nil {
			return err
		}
		updated = landlord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the landlord and everything it transitively owns. The
// fan-out is explicit and bottom-up: claims before policies, policies before
// tenants and properties, inside one transaction, so either the whole
// subtree disappears or none of it does. Policies under the landlord are
// removed without the claim-block check that guards direct policy deletion;
// the block exists to keep claim history attached to a live policy, which is
// moot when the entire chain is going away.
func (s *landlordService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetLandlord(ctx, userID, id); err != nil {
			return err
		}

		propertyIDs, err := tx.PropertyIDsByLandlord(ctx, userID, id)
		if err != nil {
			return err
		}
		tenantIDs, err := tx.TenantIDsByProperties(ctx, userID, propertyIDs)
		if err != nil {
			return err
		}
		policyIDs, err := tx.PolicyIDsByLandlord(ctx, userID, id)
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
		if err := tx.DeleteProperties(ctx, userID, propertyIDs); err != nil {
			return err
		}
		return tx.DeleteLandlord(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("Landlord deleted with cascade", map[string]interface{}{
		"landlord_id": id,
		"user_id":     userID,
	})
	return nil
}

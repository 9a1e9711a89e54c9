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

// CreateTenantInput carries the fields supplied when a tenant signs a lease
// on a property.
type CreateTenantInput struct {
	PropertyID    uuid.UUID
	FullName      string
	Email         string
	Phone         string
	RentAmount    float64
	PaymentStatus models.TenantPaymentStatus
	LeaseStart    time.Time
	LeaseEnd      time.Time
}

// UpdateTenantInput is a partial update; nil fields keep their current value.
type UpdateTenantInput struct {
	PropertyID    *uuid.UUID
	FullName      *string
	Email         *string
	Phone         *string
	RentAmount    *float64
	PaymentStatus *models.TenantPaymentStatus
	LeaseStart    *time.Time
	LeaseEnd      *time.Time
}

// TenantService manages lease occupants. Creating or moving a tenant is
// subject to the target property's capacity, and every write keeps the
// property's occupant counter in step within the same transaction.
type TenantService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTenantInput) (*models.Tenant, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Tenant, error)
	ListByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateTenantInput) (*models.Tenant, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type tenantService struct {
	store repository.Store
	log   *logger.Logger
}

// NewTenantService creates a TenantService backed by store.
func NewTenantService(store repository.Store, log *logger.Logger) TenantService {
	return &tenantService{store: store, log: log}
}

func (s *tenantService) Create(ctx context.Context, userID uuid.UUID, input CreateTenantInput) (*models.Tenant, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.Validationf("full name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, domain.Validationf("email is required")
	}
	if input.RentAmount <= 0 {
		return nil, domain.Validationf("rent amount must be positive")
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(input.PaymentStatus) {
		return nil, domain.Validationf("unknown payment status %q", input.PaymentStatus)
	}
	if input.LeaseStart.IsZero() || input.LeaseEnd.IsZero() {
		return nil, domain.Validationf("lease start and end are required")
	}
	if !input.LeaseEnd.After(input.LeaseStart) {
		return nil, domain.Validationf("lease end must be after lease start")
	}

	now := time.Now().UTC()
	tenant := &models.Tenant{
		ID:            uuid.New(),
		UserID:        userID,
		PropertyID:    input.PropertyID,
		FullName:      strings.TrimSpace(input.FullName),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		RentAmount:    input.RentAmount,
		PaymentStatus: input.PaymentStatus,
		LeaseStart:    input.LeaseStart.UTC(),
		LeaseEnd:      input.LeaseEnd.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		property, err := propertyRef(ctx, tx, userID, input.PropertyID)
		if err != nil {
			return err
		}
		if property.CurrentTenants >= property.MaxTenants {
			return domain.Conflictf("property %s is at capacity (%d tenants)", property.ID, property.MaxTenants)
		}
		if err := tx.CreateTenant(ctx, tenant); err != nil {
			return err
		}
		return tx.RefreshPropertyTenantCount(ctx, userID, input.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tenant created", map[string]interface{}{
		"tenant_id":   tenant.ID,
		"property_id": input.PropertyID,
		"user_id":     userID,
	})
	return tenant, nil
}

func (s *tenantService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Tenant, error) {
	return s.store.GetTenant(ctx, userID, id)
}

func (s *tenantService) List(ctx context.Context, userID uuid.UUID) ([]models.Tenant, error) {
	return s.store.ListTenants(ctx, userID)
}

func (s *tenantService) ListByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error) {
	return s.store.ListTenantsByProperty(ctx, userID, propertyID)
}

func (s *tenantService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateTenantInput) (*models.Tenant, error) {
	var updated *models.Tenant
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		tenant, err := tx.GetTenant(ctx, userID, id)
		if err != nil {
			return err
		}
		previousProperty := tenant.PropertyID

		if input.PropertyID != nil && *input.PropertyID != tenant.PropertyID {
			property, err := propertyRef(ctx, tx, userID, *input.PropertyID)
			if err != nil {
				return err
			}
			if property.CurrentTenants >= property.MaxTenants {
				return domain.Conflictf("property %s is at capacity (%d tenants)", property.ID, property.MaxTenants)
			}
			tenant.PropertyID = *input.PropertyID
		}
		if input.FullName != nil {
			if strings.TrimSpace(*input.FullName) == "" {
				return domain.Validationf("full name cannot be empty")
			}
			tenant.FullName = strings.TrimSpace(*input.FullName)
		}
		if input.Email != nil {
			if strings.TrimSpace(*input.Email) == "" {
				return domain.Validationf("email cannot be empty")
			}
			tenant.Email = strings.TrimSpace(*input.Email)
		}
		if input.Phone != nil {
			tenant.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.RentAmount != nil {
			if *input.RentAmount <= 0 {
				return domain.Validationf("rent amount must be positive")
			}
			tenant.RentAmount = *input.RentAmount
		}
		if input.PaymentStatus != nil {
			if !models.ValidPaymentStatus(*input.PaymentStatus) {
				return domain.Validationf("unknown payment status %q", *input.PaymentStatus)
			}
			tenant.PaymentStatus = *input.PaymentStatus
		}
		if input.LeaseStart != nil {
			tenant.LeaseStart = input.LeaseStart.UTC()
		}
		if input.LeaseEnd != nil {
			tenant.LeaseEnd = input.LeaseEnd.UTC()
		}
		if !tenant.LeaseEnd.After(tenant.LeaseStart) {
			return domain.Validationf("lease end must be after lease start")
		}
		tenant.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateTenant(ctx, tenant); err != nil {
			return err
		}
		if tenant.PropertyID != previousProperty {
			if err := tx.RefreshPropertyTenantCount(ctx, userID, previousProperty); err != nil {
				return err
			}
			if err := tx.RefreshPropertyTenantCount(ctx, userID, tenant.PropertyID); err != nil {
				return err
			}
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the tenant along with any policy covering the tenancy and
// that policy's claims, then recomputes the property's occupant counter.
func (s *tenantService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		tenant, err := tx.GetTenant(ctx, userID, id)
		if err != nil {
			return err
		}

		policyIDs, err := tx.PolicyIDsByTenants(ctx, userID, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if err := tx.DeleteClaimsForPolicies(ctx, userID, policyIDs); err != nil {
			return err
		}
		if err := tx.DeletePolicies(ctx, userID, policyIDs); err != nil {
			return err
		}
		if err := tx.DeleteTenants(ctx, userID, []uuid.UUID{id}); err != nil {
			return err
		}
		return tx.RefreshPropertyTenantCount(ctx, userID, tenant.PropertyID)
	})
	if err != nil {
		return err
	}

	s.log.Info("Tenant deleted with cascade", map[string]interface{}{
		"tenant_id": id,
		"user_id":   userID,
	})
	return nil
}

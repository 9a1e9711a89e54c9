package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
)

// Reference resolution for child writes. Each helper loads the referenced
// parent scoped to the acting user and reports a reference error naming the
// failing reference when the parent is absent or belongs to someone else;
// the two cases are deliberately indistinguishable to the caller.
//
// The helpers are pure reads. To close the gap between checking a parent and
// writing the child, callers must invoke them on the transactional store view
// inside the same RunInTx block as the write.

func landlordRef(ctx context.Context, store repository.Store, userID, id uuid.UUID) (*models.Landlord, error) {
	landlord, err := store.GetLandlord(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Referencef("invalid landlord")
		}
		return nil, err
	}
	return landlord, nil
}

func propertyRef(ctx context.Context, store repository.Store, userID, id uuid.UUID) (*models.Property, error) {
	property, err := store.GetProperty(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Referencef("invalid property")
		}
		return nil, err
	}
	return property, nil
}

func tenantRef(ctx context.Context, store repository.Store, userID, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := store.GetTenant(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Referencef("invalid tenant")
		}
		return nil, err
	}
	return tenant, nil
}

func policyRef(ctx context.Context, store repository.Store, userID, id uuid.UUID) (*models.Policy, error) {
	policy, err := store.GetPolicy(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Referencef("invalid policy")
		}
		return nil, err
	}
	return policy, nil
}

// policyParties resolves the three records a policy references and verifies
// the chain is consistent: the tenant must live in the referenced property
// and the property must belong to the referenced landlord. A policy across
// unrelated records would pass the individual ownership checks but insure
// the wrong tenancy.
func policyParties(ctx context.Context, store repository.Store, userID, landlordID, propertyID, tenantID uuid.UUID) (*models.Landlord, *models.Property, *models.Tenant, error) {
	landlord, err := landlordRef(ctx, store, userID, landlordID)
	if err != nil {
		return nil, nil, nil, err
	}
	property, err := propertyRef(ctx, store, userID, propertyID)
	if err != nil {
		return nil, nil, nil, err
	}
	tenant, err := tenantRef(ctx, store, userID, tenantID)
	if err != nil {
		return nil, nil, nil, err
	}

	if property.LandlordID != landlord.ID {
		return nil, nil, nil, domain.Referencef("invalid property: property %s does not belong to landlord %s", property.ID, landlord.ID)
	}
	if tenant.PropertyID != property.ID {
		return nil, nil, nil, domain.Referencef("invalid tenant: tenant %s does not live in property %s", tenant.ID, property.ID)
	}

	return landlord, property, tenant, nil
}

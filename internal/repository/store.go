package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// Store is the persistence contract shared by the Postgres and in-memory
// implementations. Every method is scoped to the acting user: a record owned
// by another user behaves exactly like a record that does not exist.
//
// Single calls are atomic on their own. Multi-step writes (cascading deletes,
// counter refreshes, policy issuance) must go through RunInTx so that the
// whole sequence commits or rolls back as one unit.
type Store interface {
	// RunInTx executes fn against a transactional view of the store. If fn
	// returns an error the transaction is rolled back and the error is
	// returned unchanged; otherwise the transaction commits. Calling RunInTx
	// on a store that is already transactional reuses the open transaction.
	RunInTx(ctx context.Context, fn func(Store) error) error

	// Landlords

	CreateLandlord(ctx context.Context, landlord *models.Landlord) error
	GetLandlord(ctx context.Context, userID, id uuid.UUID) (*models.Landlord, error)
	ListLandlords(ctx context.Context, userID uuid.UUID) ([]models.Landlord, error)
	UpdateLandlord(ctx context.Context, landlord *models.Landlord) error
	DeleteLandlord(ctx context.Context, userID, id uuid.UUID) error
	// RefreshLandlordPropertyCount recomputes the denormalized property
	// counter from the property rows currently referencing the landlord.
	RefreshLandlordPropertyCount(ctx context.Context, userID, landlordID uuid.UUID) error

	// Properties

	CreateProperty(ctx context.Context, property *models.Property) error
	GetProperty(ctx context.Context, userID, id uuid.UUID) (*models.Property, error)
	ListProperties(ctx context.Context, userID uuid.UUID) ([]models.Property, error)
	ListPropertiesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Property, error)
	UpdateProperty(ctx context.Context, property *models.Property) error
	DeleteProperties(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	PropertyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error)
	// RefreshPropertyTenantCount recomputes the denormalized tenant counter
	// from the tenant rows currently referencing the property.
	RefreshPropertyTenantCount(ctx context.Context, userID, propertyID uuid.UUID) error

	// Tenants

	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, userID, id uuid.UUID) (*models.Tenant, error)
	ListTenants(ctx context.Context, userID uuid.UUID) ([]models.Tenant, error)
	ListTenantsByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	DeleteTenants(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	TenantIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error)

	// Policies

	// CreatePolicy inserts a policy. It returns domain.ErrDuplicateNumber
	// when the policy number is already taken and a conflict error when the
	// tenant is already covered by another policy.
	CreatePolicy(ctx context.Context, policy *models.Policy) error
	GetPolicy(ctx context.Context, userID, id uuid.UUID) (*models.Policy, error)
	GetPolicyDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error)
	ListPolicies(ctx context.Context, userID uuid.UUID) ([]models.Policy, error)
	ListPoliciesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error)
	UpdatePolicy(ctx context.Context, policy *models.Policy) error
	DeletePolicies(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	PolicyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error)
	PolicyIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error)
	PolicyIDsByTenants(ctx context.Context, userID uuid.UUID, tenantIDs []uuid.UUID) ([]uuid.UUID, error)
	CountClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) (int, error)

	// Claims

	// CreateClaim inserts a claim. It returns domain.ErrDuplicateNumber when
	// the claim number is already taken.
	CreateClaim(ctx context.Context, claim *models.Claim) error
	GetClaim(ctx context.Context, userID, id uuid.UUID) (*models.Claim, error)
	ListClaims(ctx context.Context, userID uuid.UUID) ([]models.ClaimRow, error)
	ListClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error)
	UpdateClaim(ctx context.Context, claim *models.Claim) error
	DeleteClaim(ctx context.Context, userID, id uuid.UUID) error
	DeleteClaimsForPolicies(ctx context.Context, userID uuid.UUID, policyIDs []uuid.UUID) error
}

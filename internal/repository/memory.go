package repository

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// memState holds every table of the in-memory store. Transactions work on a
// deep copy and the committed copy is swapped in atomically, so a failed
// callback never leaves partial writes behind.
type memState struct {
	landlords  map[uuid.UUID]models.Landlord
	properties map[uuid.UUID]models.Property
	tenants    map[uuid.UUID]models.Tenant
	policies   map[uuid.UUID]models.Policy
	claims     map[uuid.UUID]models.Claim
}

func newMemState() *memState {
	return &memState{
		landlords:  make(map[uuid.UUID]models.Landlord),
		properties: make(map[uuid.UUID]models.Property),
		tenants:    make(map[uuid.UUID]models.Tenant),
		policies:   make(map[uuid.UUID]models.Policy),
		claims:     make(map[uuid.UUID]models.Claim),
	}
}

func (st *memState) clone() *memState {
	next := &memState{
		landlords:  make(map[uuid.UUID]models.Landlord, len(st.landlords)),
		properties: make(map[uuid.UUID]models.Property, len(st.properties)),
		tenants:    make(map[uuid.UUID]models.Tenant, len(st.tenants)),
		policies:   make(map[uuid.UUID]models.Policy, len(st.policies)),
		claims:     make(map[uuid.UUID]models.Claim, len(st.claims)),
	}
	for id, l := range st.landlords {
		next.landlords[id] = l
	}
	for id, p := range st.properties {
		next.properties[id] = p
	}
	for id, t := range st.tenants {
		next.tenants[id] = t
	}
	for id, p := range st.policies {
		next.policies[id] = p
	}
	for id, c := range st.claims {
		c.EvidenceURLs = cloneStrings(c.EvidenceURLs)
		next.claims[id] = c
	}
	return next
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// earlier orders records by creation time, breaking ties by id so listings
// are stable even when two records share a timestamp.
func earlier(aCreated time.Time, aID uuid.UUID, bCreated time.Time, bID uuid.UUID) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.Before(bCreated)
	}
	return bytes.Compare(aID[:], bID[:]) < 0
}

// memoryStore is an in-memory Store with the same observable behavior as the
// Postgres one, including reference checks and uniqueness rules. It keeps the
// service layer fully testable without a database and doubles as the backing
// store for local development.
type memoryStore struct {
	mu sync.Mutex
	st *memState
}

// NewMemory creates an empty in-memory Store.
func NewMemory() Store {
	return &memoryStore{st: newMemState()}
}

// RunInTx runs fn against a snapshot of the state. The snapshot replaces the
// live state only when fn succeeds.
func (s *memoryStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(&memoryTx{st: draft}); err != nil {
		return err
	}
	s.st = draft
	return nil
}

// Single-statement operations run directly on the live state under the lock;
// they cannot leave partial writes because each one validates before its
// single mutation.

func (s *memoryStore) CreateLandlord(ctx context.Context, landlord *models.Landlord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CreateLandlord(ctx, landlord)
}

func (s *memoryStore) GetLandlord(ctx context.Context, userID, id uuid.UUID) (*models.Landlord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetLandlord(ctx, userID, id)
}

func (s *memoryStore) ListLandlords(ctx context.Context, userID uuid.UUID) ([]models.Landlord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListLandlords(ctx, userID)
}

func (s *memoryStore) UpdateLandlord(ctx context.Context, landlord *models.Landlord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).UpdateLandlord(ctx, landlord)
}

func (s *memoryStore) DeleteLandlord(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeleteLandlord(ctx, userID, id)
}

func (s *memoryStore) RefreshLandlordPropertyCount(ctx context.Context, userID, landlordID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).RefreshLandlordPropertyCount(ctx, userID, landlordID)
}

func (s *memoryStore) CreateProperty(ctx context.Context, property *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CreateProperty(ctx, property)
}

func (s *memoryStore) GetProperty(ctx context.Context, userID, id uuid.UUID) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetProperty(ctx, userID, id)
}

func (s *memoryStore) ListProperties(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListProperties(ctx, userID)
}

func (s *memoryStore) ListPropertiesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListPropertiesByLandlord(ctx, userID, landlordID)
}

func (s *memoryStore) UpdateProperty(ctx context.Context, property *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).UpdateProperty(ctx, property)
}

func (s *memoryStore) DeleteProperties(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeleteProperties(ctx, userID, ids)
}

func (s *memoryStore) PropertyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).PropertyIDsByLandlord(ctx, userID, landlordID)
}

func (s *memoryStore) RefreshPropertyTenantCount(ctx context.Context, userID, propertyID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).RefreshPropertyTenantCount(ctx, userID, propertyID)
}

func (s *memoryStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CreateTenant(ctx, tenant)
}

func (s *memoryStore) GetTenant(ctx context.Context, userID, id uuid.UUID) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetTenant(ctx, userID, id)
}

func (s *memoryStore) ListTenants(ctx context.Context, userID uuid.UUID) ([]models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListTenants(ctx, userID)
}

func (s *memoryStore) ListTenantsByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListTenantsByProperty(ctx, userID, propertyID)
}

func (s *memoryStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).UpdateTenant(ctx, tenant)
}

func (s *memoryStore) DeleteTenants(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeleteTenants(ctx, userID, ids)
}

func (s *memoryStore) TenantIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).TenantIDsByProperties(ctx, userID, propertyIDs)
}

func (s *memoryStore) CreatePolicy(ctx context.Context, policy *models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CreatePolicy(ctx, policy)
}

func (s *memoryStore) GetPolicy(ctx context.Context, userID, id uuid.UUID) (*models.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetPolicy(ctx, userID, id)
}

func (s *memoryStore) GetPolicyDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetPolicyDetail(ctx, userID, id)
}

func (s *memoryStore) ListPolicies(ctx context.Context, userID uuid.UUID) ([]models.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListPolicies(ctx, userID)
}

func (s *memoryStore) ListPoliciesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListPoliciesByLandlord(ctx, userID, landlordID)
}

func (s *memoryStore) UpdatePolicy(ctx context.Context, policy *models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).UpdatePolicy(ctx, policy)
}

func (s *memoryStore) DeletePolicies(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeletePolicies(ctx, userID, ids)
}

func (s *memoryStore) PolicyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).PolicyIDsByLandlord(ctx, userID, landlordID)
}

func (s *memoryStore) PolicyIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).PolicyIDsByProperties(ctx, userID, propertyIDs)
}

func (s *memoryStore) PolicyIDsByTenants(ctx context.Context, userID uuid.UUID, tenantIDs []uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).PolicyIDsByTenants(ctx, userID, tenantIDs)
}

func (s *memoryStore) CountClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CountClaimsByPolicy(ctx, userID, policyID)
}

func (s *memoryStore) CreateClaim(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).CreateClaim(ctx, claim)
}

func (s *memoryStore) GetClaim(ctx context.Context, userID, id uuid.UUID) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).GetClaim(ctx, userID, id)
}

func (s *memoryStore) ListClaims(ctx context.Context, userID uuid.UUID) ([]models.ClaimRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListClaims(ctx, userID)
}

func (s *memoryStore) ListClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).ListClaimsByPolicy(ctx, userID, policyID)
}

func (s *memoryStore) UpdateClaim(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).UpdateClaim(ctx, claim)
}

func (s *memoryStore) DeleteClaim(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeleteClaim(ctx, userID, id)
}

func (s *memoryStore) DeleteClaimsForPolicies(ctx context.Context, userID uuid.UUID, policyIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memoryTx{st: s.st}).DeleteClaimsForPolicies(ctx, userID, policyIDs)
}

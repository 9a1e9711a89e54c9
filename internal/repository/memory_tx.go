package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// memoryTx implements every Store operation against a memState. It mirrors
// the Postgres driver's observable behavior: the same reference checks the
// foreign keys provide, the same uniqueness rules, the same update column
// sets and the same list ordering.
type memoryTx struct {
	st *memState
}

// RunInTx on a transactional view reuses the open transaction.
func (t *memoryTx) RunInTx(_ context.Context, fn func(Store) error) error {
	return fn(t)
}

// Landlords

func (t *memoryTx) CreateLandlord(_ context.Context, landlord *models.Landlord) error {
	t.st.landlords[landlord.ID] = *landlord
	return nil
}

func (t *memoryTx) GetLandlord(_ context.Context, userID, id uuid.UUID) (*models.Landlord, error) {
	landlord, ok := t.st.landlords[id]
	if !ok || landlord.UserID != userID {
		return nil, domain.NotFoundf("landlord %s not found", id)
	}
	return &landlord, nil
}

func (t *memoryTx) ListLandlords(_ context.Context, userID uuid.UUID) ([]models.Landlord, error) {
	landlords := []models.Landlord{}
	for _, l := range t.st.landlords {
		if l.UserID == userID {
			landlords = append(landlords, l)
		}
	}
	sort.Slice(landlords, func(i, j int) bool {
		return earlier(landlords[i].CreatedAt, landlords[i].ID, landlords[j].CreatedAt, landlords[j].ID)
	})
	return landlords, nil
}

func (t *memoryTx) UpdateLandlord(_ context.Context, landlord *models.Landlord) error {
	cur, ok := t.st.landlords[landlord.ID]
	if !ok || cur.UserID != landlord.UserID {
		return domain.NotFoundf("landlord %s not found", landlord.ID)
	}
	cur.FullName = landlord.FullName
	cur.Email = landlord.Email
	cur.Phone = landlord.Phone
	cur.UpdatedAt = landlord.UpdatedAt
	t.st.landlords[landlord.ID] = cur
	return nil
}

func (t *memoryTx) DeleteLandlord(_ context.Context, userID, id uuid.UUID) error {
	landlord, ok := t.st.landlords[id]
	if !ok || landlord.UserID != userID {
		return domain.NotFoundf("landlord %s not found", id)
	}
	for _, p := range t.st.properties {
		if p.LandlordID == id {
			return fmt.Errorf("landlord %s is still referenced by property %s", id, p.ID)
		}
	}
	for _, p := range t.st.policies {
		if p.LandlordID == id {
			return fmt.Errorf("landlord %s is still referenced by policy %s", id, p.ID)
		}
	}
	delete(t.st.landlords, id)
	return nil
}

func (t *memoryTx) RefreshLandlordPropertyCount(_ context.Context, userID, landlordID uuid.UUID) error {
	landlord, ok := t.st.landlords[landlordID]
	if !ok || landlord.UserID != userID {
		return nil
	}
	count := 0
	for _, p := range t.st.properties {
		if p.UserID == userID && p.LandlordID == landlordID {
			count++
		}
	}
	landlord.PropertyCount = count
	t.st.landlords[landlordID] = landlord
	return nil
}

// Properties

func (t *memoryTx) CreateProperty(_ context.Context, property *models.Property) error {
	if landlord, ok := t.st.landlords[property.LandlordID]; !ok || landlord.UserID != property.UserID {
		return domain.Referencef("invalid landlord")
	}
	t.st.properties[property.ID] = *property
	return nil
}

func (t *memoryTx) GetProperty(_ context.Context, userID, id uuid.UUID) (*models.Property, error) {
	property, ok := t.st.properties[id]
	if !ok || property.UserID != userID {
		return nil, domain.NotFoundf("property %s not found", id)
	}
	return &property, nil
}

func (t *memoryTx) ListProperties(_ context.Context, userID uuid.UUID) ([]models.Property, error) {
	properties := []models.Property{}
	for _, p := range t.st.properties {
		if p.UserID == userID {
			properties = append(properties, p)
		}
	}
	sortProperties(properties)
	return properties, nil
}

func (t *memoryTx) ListPropertiesByLandlord(_ context.Context, userID, landlordID uuid.UUID) ([]models.Property, error) {
	properties := []models.Property{}
	for _, p := range t.st.properties {
		if p.UserID == userID && p.LandlordID == landlordID {
			properties = append(properties, p)
		}
	}
	sortProperties(properties)
	return properties, nil
}

func sortProperties(properties []models.Property) {
	sort.Slice(properties, func(i, j int) bool {
		return earlier(properties[i].CreatedAt, properties[i].ID, properties[j].CreatedAt, properties[j].ID)
	})
}

func (t *memoryTx) UpdateProperty(_ context.Context, property *models.Property) error {
	cur, ok := t.st.properties[property.ID]
	if !ok || cur.UserID != property.UserID {
		return domain.NotFoundf("property %s not found", property.ID)
	}
	if landlord, ok := t.st.landlords[property.LandlordID]; !ok || landlord.UserID != property.UserID {
		return domain.Referencef("invalid landlord")
	}
	cur.LandlordID = property.LandlordID
	cur.Address = property.Address
	cur.RentAmount = property.RentAmount
	cur.Type = property.Type
	cur.Status = property.Status
	cur.MaxTenants = property.MaxTenants
	cur.UpdatedAt = property.UpdatedAt
	t.st.properties[property.ID] = cur
	return nil
}

func (t *memoryTx) DeleteProperties(_ context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		property, ok := t.st.properties[id]
		if !ok || property.UserID != userID {
			continue
		}
		for _, tn := range t.st.tenants {
			if tn.PropertyID == id {
				return fmt.Errorf("property %s is still referenced by tenant %s", id, tn.ID)
			}
		}
		for _, p := range t.st.policies {
			if p.PropertyID == id {
				return fmt.Errorf("property %s is still referenced by policy %s", id, p.ID)
			}
		}
		delete(t.st.properties, id)
	}
	return nil
}

func (t *memoryTx) PropertyIDsByLandlord(_ context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	properties, _ := t.ListPropertiesByLandlord(context.Background(), userID, landlordID)
	ids := []uuid.UUID{}
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (t *memoryTx) RefreshPropertyTenantCount(_ context.Context, userID, propertyID uuid.UUID) error {
	property, ok := t.st.properties[propertyID]
	if !ok || property.UserID != userID {
		return nil
	}
	count := 0
	for _, tn := range t.st.tenants {
		if tn.UserID == userID && tn.PropertyID == propertyID {
			count++
		}
	}
	property.CurrentTenants = count
	t.st.properties[propertyID] = property
	return nil
}

// Tenants

func (t *memoryTx) CreateTenant(_ context.Context, tenant *models.Tenant) error {
	if property, ok := t.st.properties[tenant.PropertyID]; !ok || property.UserID != tenant.UserID {
		return domain.Referencef("invalid property")
	}
	t.st.tenants[tenant.ID] = *tenant
	return nil
}

func (t *memoryTx) GetTenant(_ context.Context, userID, id uuid.UUID) (*models.Tenant, error) {
	tenant, ok := t.st.tenants[id]
	if !ok || tenant.UserID != userID {
		return nil, domain.NotFoundf("tenant %s not found", id)
	}
	return &tenant, nil
}

func (t *memoryTx) ListTenants(_ context.Context, userID uuid.UUID) ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	for _, tn := range t.st.tenants {
		if tn.UserID == userID {
			tenants = append(tenants, tn)
		}
	}
	sortTenants(tenants)
	return tenants, nil
}

func (t *memoryTx) ListTenantsByProperty(_ context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	for _, tn := range t.st.tenants {
		if tn.UserID == userID && tn.PropertyID == propertyID {
			tenants = append(tenants, tn)
		}
	}
	sortTenants(tenants)
	return tenants, nil
}

func sortTenants(tenants []models.Tenant) {
	sort.Slice(tenants, func(i, j int) bool {
		return earlier(tenants[i].CreatedAt, tenants[i].ID, tenants[j].CreatedAt, tenants[j].ID)
	})
}

func (t *memoryTx) UpdateTenant(_ context.Context, tenant *models.Tenant) error {
	cur, ok := t.st.tenants[tenant.ID]
	if !ok || cur.UserID != tenant.UserID {
		return domain.NotFoundf("tenant %s not found", tenant.ID)
	}
	if property, ok := t.st.properties[tenant.PropertyID]; !ok || property.UserID != tenant.UserID {
		return domain.Referencef("invalid property")
	}
	cur.PropertyID = tenant.PropertyID
	cur.FullName = tenant.FullName
	cur.Email = tenant.Email
	cur.Phone = tenant.Phone
	cur.RentAmount = tenant.RentAmount
	cur.PaymentStatus = tenant.PaymentStatus
	cur.LeaseStart = tenant.LeaseStart
	cur.LeaseEnd = tenant.LeaseEnd
	cur.UpdatedAt = tenant.UpdatedAt
	t.st.tenants[tenant.ID] = cur
	return nil
}

func (t *memoryTx) DeleteTenants(_ context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		tenant, ok := t.st.tenants[id]
		if !ok || tenant.UserID != userID {
			continue
		}
		for _, p := range t.st.policies {
			if p.TenantID == id {
				return fmt.Errorf("tenant %s is still referenced by policy %s", id, p.ID)
			}
		}
		delete(t.st.tenants, id)
	}
	return nil
}

func (t *memoryTx) TenantIDsByProperties(_ context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	tenants := []models.Tenant{}
	for _, tn := range t.st.tenants {
		if tn.UserID == userID && wanted[tn.PropertyID] {
			tenants = append(tenants, tn)
		}
	}
	sortTenants(tenants)
	ids := []uuid.UUID{}
	for _, tn := range tenants {
		ids = append(ids, tn.ID)
	}
	return ids, nil
}

// Policies

func (t *memoryTx) CreatePolicy(_ context.Context, policy *models.Policy) error {
	if landlord, ok := t.st.landlords[policy.LandlordID]; !ok || landlord.UserID != policy.UserID {
		return domain.Referencef("invalid landlord")
	}
	if property, ok := t.st.properties[policy.PropertyID]; !ok || property.UserID != policy.UserID {
		return domain.Referencef("invalid property")
	}
	if tenant, ok := t.st.tenants[policy.TenantID]; !ok || tenant.UserID != policy.UserID {
		return domain.Referencef("invalid tenant")
	}
	for _, p := range t.st.policies {
		if p.PolicyNumber == policy.PolicyNumber {
			return fmt.Errorf("%w: policy number %s", domain.ErrDuplicateNumber, policy.PolicyNumber)
		}
		if p.TenantID == policy.TenantID {
			return domain.Conflictf("tenant %s already has a policy", policy.TenantID)
		}
	}
	t.st.policies[policy.ID] = *policy
	return nil
}

func (t *memoryTx) GetPolicy(_ context.Context, userID, id uuid.UUID) (*models.Policy, error) {
	policy, ok := t.st.policies[id]
	if !ok || policy.UserID != userID {
		return nil, domain.NotFoundf("policy %s not found", id)
	}
	return &policy, nil
}

func (t *memoryTx) GetPolicyDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error) {
	policy, err := t.GetPolicy(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tenant, tenantOK := t.st.tenants[policy.TenantID]
	property, propertyOK := t.st.properties[policy.PropertyID]
	landlord, landlordOK := t.st.landlords[policy.LandlordID]
	if !tenantOK || !propertyOK || !landlordOK {
		return nil, domain.NotFoundf("policy %s not found", id)
	}
	return &models.PolicyDetail{
		Policy:   *policy,
		Tenant:   tenant,
		Property: property,
		Landlord: landlord,
	}, nil
}

func (t *memoryTx) ListPolicies(_ context.Context, userID uuid.UUID) ([]models.Policy, error) {
	policies := []models.Policy{}
	for _, p := range t.st.policies {
		if p.UserID == userID {
			policies = append(policies, p)
		}
	}
	sortPolicies(policies)
	return policies, nil
}

func (t *memoryTx) ListPoliciesByLandlord(_ context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error) {
	policies := []models.Policy{}
	for _, p := range t.st.policies {
		if p.UserID == userID && p.LandlordID == landlordID {
			policies = append(policies, p)
		}
	}
	sortPolicies(policies)
	return policies, nil
}

func sortPolicies(policies []models.Policy) {
	sort.Slice(policies, func(i, j int) bool {
		return earlier(policies[i].CreatedAt, policies[i].ID, policies[j].CreatedAt, policies[j].ID)
	})
}

func (t *memoryTx) UpdatePolicy(_ context.Context, policy *models.Policy) error {
	cur, ok := t.st.policies[policy.ID]
	if !ok || cur.UserID != policy.UserID {
		return domain.NotFoundf("policy %s not found", policy.ID)
	}
	if landlord, ok := t.st.landlords[policy.LandlordID]; !ok || landlord.UserID != policy.UserID {
		return domain.Referencef("invalid landlord")
	}
	if property, ok := t.st.properties[policy.PropertyID]; !ok || property.UserID != policy.UserID {
		return domain.Referencef("invalid property")
	}
	if tenant, ok := t.st.tenants[policy.TenantID]; !ok || tenant.UserID != policy.UserID {
		return domain.Referencef("invalid tenant")
	}
	for _, p := range t.st.policies {
		if p.ID != policy.ID && p.TenantID == policy.TenantID {
			return domain.Conflictf("tenant %s already has a policy", policy.TenantID)
		}
	}
	cur.LandlordID = policy.LandlordID
	cur.PropertyID = policy.PropertyID
	cur.TenantID = policy.TenantID
	cur.Status = policy.Status
	cur.CoverageMonths = policy.CoverageMonths
	cur.MonthlyRent = policy.MonthlyRent
	cur.RiskScore = policy.RiskScore
	cur.Decision = policy.Decision
	cur.StartDate = policy.StartDate
	cur.EndDate = policy.EndDate
	cur.PremiumAmount = policy.PremiumAmount
	cur.UpdatedAt = policy.UpdatedAt
	t.st.policies[policy.ID] = cur
	return nil
}

func (t *memoryTx) DeletePolicies(_ context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		policy, ok := t.st.policies[id]
		if !ok || policy.UserID != userID {
			continue
		}
		for _, c := range t.st.claims {
			if c.PolicyID == id {
				return fmt.Errorf("policy %s is still referenced by claim %s", id, c.ID)
			}
		}
		delete(t.st.policies, id)
	}
	return nil
}

func (t *memoryTx) PolicyIDsByLandlord(_ context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	policies, _ := t.ListPoliciesByLandlord(context.Background(), userID, landlordID)
	ids := []uuid.UUID{}
	for _, p := range policies {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (t *memoryTx) PolicyIDsByProperties(_ context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	return t.policyIDs(userID, func(p models.Policy) bool { return wanted[p.PropertyID] })
}

func (t *memoryTx) PolicyIDsByTenants(_ context.Context, userID uuid.UUID, tenantIDs []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]bool, len(tenantIDs))
	for _, id := range tenantIDs {
		wanted[id] = true
	}
	return t.policyIDs(userID, func(p models.Policy) bool { return wanted[p.TenantID] })
}

func (t *memoryTx) policyIDs(userID uuid.UUID, match func(models.Policy) bool) ([]uuid.UUID, error) {
	policies := []models.Policy{}
	for _, p := range t.st.policies {
		if p.UserID == userID && match(p) {
			policies = append(policies, p)
		}
	}
	sortPolicies(policies)
	ids := []uuid.UUID{}
	for _, p := range policies {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (t *memoryTx) CountClaimsByPolicy(_ context.Context, userID, policyID uuid.UUID) (int, error) {
	count := 0
	for _, c := range t.st.claims {
		if c.UserID == userID && c.PolicyID == policyID {
			count++
		}
	}
	return count, nil
}

// Claims

func (t *memoryTx) CreateClaim(_ context.Context, claim *models.Claim) error {
	if policy, ok := t.st.policies[claim.PolicyID]; !ok || policy.UserID != claim.UserID {
		return domain.Referencef("invalid policy")
	}
	for _, c := range t.st.claims {
		if c.ClaimNumber == claim.ClaimNumber {
			return fmt.Errorf("%w: claim number %s", domain.ErrDuplicateNumber, claim.ClaimNumber)
		}
	}
	stored := *claim
	if stored.EvidenceURLs == nil {
		stored.EvidenceURLs = []string{}
	} else {
		stored.EvidenceURLs = cloneStrings(stored.EvidenceURLs)
	}
	t.st.claims[claim.ID] = stored
	return nil
}

func (t *memoryTx) GetClaim(_ context.Context, userID, id uuid.UUID) (*models.Claim, error) {
	claim, ok := t.st.claims[id]
	if !ok || claim.UserID != userID {
		return nil, domain.NotFoundf("claim %s not found", id)
	}
	claim.EvidenceURLs = cloneStrings(claim.EvidenceURLs)
	return &claim, nil
}

func (t *memoryTx) ListClaims(_ context.Context, userID uuid.UUID) ([]models.ClaimRow, error) {
	return t.claimRows(userID, func(models.Claim) bool { return true })
}

func (t *memoryTx) ListClaimsByPolicy(_ context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error) {
	return t.claimRows(userID, func(c models.Claim) bool { return c.PolicyID == policyID })
}

// claimRows joins each claim with its policy, tenant, property and landlord.
// Claims whose parents cannot be resolved are skipped, matching the inner
// joins of the Postgres driver.
func (t *memoryTx) claimRows(userID uuid.UUID, match func(models.Claim) bool) ([]models.ClaimRow, error) {
	claims := []models.Claim{}
	for _, c := range t.st.claims {
		if c.UserID == userID && match(c) {
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return earlier(claims[i].CreatedAt, claims[i].ID, claims[j].CreatedAt, claims[j].ID)
	})

	rows := []models.ClaimRow{}
	for _, c := range claims {
		policy, ok := t.st.policies[c.PolicyID]
		if !ok {
			continue
		}
		tenant, tenantOK := t.st.tenants[policy.TenantID]
		property, propertyOK := t.st.properties[policy.PropertyID]
		landlord, landlordOK := t.st.landlords[policy.LandlordID]
		if !tenantOK || !propertyOK || !landlordOK {
			continue
		}
		c.EvidenceURLs = cloneStrings(c.EvidenceURLs)
		rows = append(rows, models.ClaimRow{
			Claim:           c,
			PolicyNumber:    policy.PolicyNumber,
			TenantName:      tenant.FullName,
			PropertyAddress: property.Address,
			LandlordName:    landlord.FullName,
		})
	}
	return rows, nil
}

func (t *memoryTx) UpdateClaim(_ context.Context, claim *models.Claim) error {
	cur, ok := t.st.claims[claim.ID]
	if !ok || cur.UserID != claim.UserID {
		return domain.NotFoundf("claim %s not found", claim.ID)
	}
	cur.Status = claim.Status
	cur.AmountRequested = claim.AmountRequested
	cur.MonthsOfUnpaidRent = claim.MonthsOfUnpaidRent
	if claim.EvidenceURLs == nil {
		cur.EvidenceURLs = []string{}
	} else {
		cur.EvidenceURLs = cloneStrings(claim.EvidenceURLs)
	}
	cur.Notes = claim.Notes
	cur.UpdatedAt = claim.UpdatedAt
	t.st.claims[claim.ID] = cur
	return nil
}

func (t *memoryTx) DeleteClaim(_ context.Context, userID, id uuid.UUID) error {
	claim, ok := t.st.claims[id]
	if !ok || claim.UserID != userID {
		return domain.NotFoundf("claim %s not found", id)
	}
	delete(t.st.claims, id)
	return nil
}

func (t *memoryTx) DeleteClaimsForPolicies(_ context.Context, userID uuid.UUID, policyIDs []uuid.UUID) error {
	wanted := make(map[uuid.UUID]bool, len(policyIDs))
	for _, id := range policyIDs {
		wanted[id] = true
	}
	for id, c := range t.st.claims {
		if c.UserID == userID && wanted[c.PolicyID] {
			delete(t.st.claims, id)
		}
	}
	return nil
}

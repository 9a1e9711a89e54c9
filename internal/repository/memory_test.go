package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

var numberSeq atomic.Int64

// nextNumber returns fixture numbers that never collide across tests.
func nextNumber(prefix string) string {
	return fmt.Sprintf("%s-%08d", prefix, numberSeq.Add(1))
}

func newTestLandlord(userID uuid.UUID) *models.Landlord {
	now := time.Now().UTC()
	return &models.Landlord{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  "Marie Dupont",
		Email:     "marie.dupont@example.com",
		Phone:     "+33612345678",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestProperty(userID, landlordID uuid.UUID) *models.Property {
	now := time.Now().UTC()
	return &models.Property{
		ID:         uuid.New(),
		UserID:     userID,
		LandlordID: landlordID,
		Address:    "12 Rue de la République, Lyon",
		RentAmount: 950,
		Type:       models.PropertyTypeApartment,
		Status:     models.PropertyStatusAvailable,
		MaxTenants: 2,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newTestTenant(userID, propertyID uuid.UUID) *models.Tenant {
	now := time.Now().UTC()
	return &models.Tenant{
		ID:            uuid.New(),
		UserID:        userID,
		PropertyID:    propertyID,
		FullName:      "Lucas Moreau",
		Email:         "lucas.moreau@example.com",
		Phone:         "+33698765432",
		RentAmount:    950,
		PaymentStatus: models.PaymentStatusPaid,
		LeaseStart:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEnd:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newTestPolicy(userID, landlordID, propertyID, tenantID uuid.UUID) *models.Policy {
	now := time.Now().UTC()
	return &models.Policy{
		ID:             uuid.New(),
		UserID:         userID,
		LandlordID:     landlordID,
		PropertyID:     propertyID,
		TenantID:       tenantID,
		PolicyNumber:   nextNumber("POL"),
		Status:         models.PolicyStatusActive,
		CoverageMonths: 12,
		MonthlyRent:    950,
		RiskScore:      60,
		Decision:       models.DecisionAccept,
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		PremiumAmount:  342,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newTestClaim(userID, policyID uuid.UUID) *models.Claim {
	now := time.Now().UTC()
	return &models.Claim{
		ID:                 uuid.New(),
		UserID:             userID,
		PolicyID:           policyID,
		ClaimNumber:        nextNumber("CLM"),
		Status:             models.ClaimStatusPending,
		AmountRequested:    1900,
		MonthsOfUnpaidRent: 2,
		EvidenceURLs:       []string{"https://docs.example.com/notice.pdf"},
		Notes:              "two months unpaid",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// seedChain creates a landlord, a property and a tenant belonging to userID.
func seedChain(t *testing.T, store Store, userID uuid.UUID) (*models.Landlord, *models.Property, *models.Tenant) {
	t.Helper()
	ctx := context.Background()

	landlord := newTestLandlord(userID)
	require.NoError(t, store.CreateLandlord(ctx, landlord))

	property := newTestProperty(userID, landlord.ID)
	require.NoError(t, store.CreateProperty(ctx, property))

	tenant := newTestTenant(userID, property.ID)
	require.NoError(t, store.CreateTenant(ctx, tenant))

	return landlord, property, tenant
}

func TestMemoryStore_LandlordCRUD(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord := newTestLandlord(userID)
	require.NoError(t, store.CreateLandlord(ctx, landlord))

	t.Run("get returns the created record", func(t *testing.T) {
		got, err := store.GetLandlord(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, landlord.FullName, got.FullName)
		assert.Equal(t, landlord.Email, got.Email)
		assert.Equal(t, 0, got.PropertyCount)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		_, err := store.GetLandlord(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get with another user id is not found", func(t *testing.T) {
		_, err := store.GetLandlord(ctx, uuid.New(), landlord.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update persists the new fields", func(t *testing.T) {
		landlord.FullName = "Marie Durand"
		landlord.UpdatedAt = time.Now().UTC()
		require.NoError(t, store.UpdateLandlord(ctx, landlord))

		got, err := store.GetLandlord(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, "Marie Durand", got.FullName)
	})

	t.Run("update unknown id is not found", func(t *testing.T) {
		ghost := newTestLandlord(userID)
		assert.ErrorIs(t, store.UpdateLandlord(ctx, ghost), domain.ErrNotFound)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, store.DeleteLandlord(ctx, userID, landlord.ID))
		_, err := store.GetLandlord(ctx, userID, landlord.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete unknown id is not found", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteLandlord(ctx, userID, uuid.New()), domain.ErrNotFound)
	})
}

func TestMemoryStore_ListLandlordsOrderedAndScoped(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	var created []uuid.UUID
	for i := 0; i < 3; i++ {
		landlord := newTestLandlord(userID)
		landlord.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.CreateLandlord(ctx, landlord))
		created = append(created, landlord.ID)
	}
	require.NoError(t, store.CreateLandlord(ctx, newTestLandlord(otherUser)))

	landlords, err := store.ListLandlords(ctx, userID)
	require.NoError(t, err)
	require.Len(t, landlords, 3)
	for i, l := range landlords {
		assert.Equal(t, created[i], l.ID, "creation order must be preserved")
		assert.Equal(t, userID, l.UserID)
	}
}

func TestMemoryStore_PropertyReferencesAndCounters(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord := newTestLandlord(userID)
	require.NoError(t, store.CreateLandlord(ctx, landlord))

	t.Run("create with unknown landlord is a reference error", func(t *testing.T) {
		property := newTestProperty(userID, uuid.New())
		err := store.CreateProperty(ctx, property)
		assert.ErrorIs(t, err, domain.ErrReference)
	})

	t.Run("create with another user's landlord is a reference error", func(t *testing.T) {
		property := newTestProperty(uuid.New(), landlord.ID)
		err := store.CreateProperty(ctx, property)
		assert.ErrorIs(t, err, domain.ErrReference)
	})

	t.Run("refresh recomputes the landlord property count", func(t *testing.T) {
		first := newTestProperty(userID, landlord.ID)
		second := newTestProperty(userID, landlord.ID)
		require.NoError(t, store.CreateProperty(ctx, first))
		require.NoError(t, store.CreateProperty(ctx, second))
		require.NoError(t, store.RefreshLandlordPropertyCount(ctx, userID, landlord.ID))

		got, err := store.GetLandlord(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.PropertyCount)

		ids, err := store.PropertyIDsByLandlord(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
	})
}

func TestMemoryStore_TenantReferencesAndCounters(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord := newTestLandlord(userID)
	require.NoError(t, store.CreateLandlord(ctx, landlord))
	property := newTestProperty(userID, landlord.ID)
	require.NoError(t, store.CreateProperty(ctx, property))

	t.Run("create with unknown property is a reference error", func(t *testing.T) {
		tenant := newTestTenant(userID, uuid.New())
		assert.ErrorIs(t, store.CreateTenant(ctx, tenant), domain.ErrReference)
	})

	t.Run("refresh recomputes the property tenant count", func(t *testing.T) {
		tenant := newTestTenant(userID, property.ID)
		require.NoError(t, store.CreateTenant(ctx, tenant))
		require.NoError(t, store.RefreshPropertyTenantCount(ctx, userID, property.ID))

		got, err := store.GetProperty(ctx, userID, property.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentTenants)

		ids, err := store.TenantIDsByProperties(ctx, userID, []uuid.UUID{property.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tenant.ID}, ids)
	})
}

func TestMemoryStore_PolicyUniqueness(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord, property, tenant := seedChain(t, store, userID)

	policy := newTestPolicy(userID, landlord.ID, property.ID, tenant.ID)
	require.NoError(t, store.CreatePolicy(ctx, policy))

	t.Run("duplicate policy number is reported for retry", func(t *testing.T) {
		second := newTestTenant(userID, property.ID)
		require.NoError(t, store.CreateTenant(ctx, second))

		dup := newTestPolicy(userID, landlord.ID, property.ID, second.ID)
		dup.PolicyNumber = policy.PolicyNumber
		err := store.CreatePolicy(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	})

	t.Run("second policy for the same tenant conflicts", func(t *testing.T) {
		dup := newTestPolicy(userID, landlord.ID, property.ID, tenant.ID)
		err := store.CreatePolicy(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("dangling references are rejected", func(t *testing.T) {
		other := newTestTenant(userID, property.ID)
		require.NoError(t, store.CreateTenant(ctx, other))

		bad := newTestPolicy(userID, landlord.ID, uuid.New(), other.ID)
		err := store.CreatePolicy(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrReference)
		assert.Contains(t, err.Error(), "invalid property")
	})
}

func TestMemoryStore_GetPolicyDetail(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord, property, tenant := seedChain(t, store, userID)
	policy := newTestPolicy(userID, landlord.ID, property.ID, tenant.ID)
	require.NoError(t, store.CreatePolicy(ctx, policy))

	detail, err := store.GetPolicyDetail(ctx, userID, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, policy.PolicyNumber, detail.Policy.PolicyNumber)
	assert.Equal(t, tenant.FullName, detail.Tenant.FullName)
	assert.Equal(t, property.Address, detail.Property.Address)
	assert.Equal(t, landlord.FullName, detail.Landlord.FullName)

	_, err = store.GetPolicyDetail(ctx, uuid.New(), policy.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_ClaimRowsAreDenormalized(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord, property, tenant := seedChain(t, store, userID)
	policy := newTestPolicy(userID, landlord.ID, property.ID, tenant.ID)
	require.NoError(t, store.CreatePolicy(ctx, policy))

	claim := newTestClaim(userID, policy.ID)
	require.NoError(t, store.CreateClaim(ctx, claim))

	t.Run("list carries the joined names", func(t *testing.T) {
		rows, err := store.ListClaims(ctx, userID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, claim.ClaimNumber, rows[0].Claim.ClaimNumber)
		assert.Equal(t, policy.PolicyNumber, rows[0].PolicyNumber)
		assert.Equal(t, tenant.FullName, rows[0].TenantName)
		assert.Equal(t, property.Address, rows[0].PropertyAddress)
		assert.Equal(t, landlord.FullName, rows[0].LandlordName)
	})

	t.Run("duplicate claim number is reported for retry", func(t *testing.T) {
		dup := newTestClaim(userID, policy.ID)
		dup.ClaimNumber = claim.ClaimNumber
		assert.ErrorIs(t, store.CreateClaim(ctx, dup), domain.ErrDuplicateNumber)
	})

	t.Run("claim against unknown policy is a reference error", func(t *testing.T) {
		bad := newTestClaim(userID, uuid.New())
		assert.ErrorIs(t, store.CreateClaim(ctx, bad), domain.ErrReference)
	})

	t.Run("nil evidence round-trips as empty list", func(t *testing.T) {
		noEvidence := newTestClaim(userID, policy.ID)
		noEvidence.EvidenceURLs = nil
		require.NoError(t, store.CreateClaim(ctx, noEvidence))

		got, err := store.GetClaim(ctx, userID, noEvidence.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.EvidenceURLs)
		assert.Empty(t, got.EvidenceURLs)
	})

	t.Run("count by policy", func(t *testing.T) {
		count, err := store.CountClaimsByPolicy(ctx, userID, policy.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestMemoryStore_RunInTxCommitsOnSuccess(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord := newTestLandlord(userID)
	err := store.RunInTx(ctx, func(tx Store) error {
		if err := tx.CreateLandlord(ctx, landlord); err != nil {
			return err
		}
		property := newTestProperty(userID, landlord.ID)
		if err := tx.CreateProperty(ctx, property); err != nil {
			return err
		}
		return tx.RefreshLandlordPropertyCount(ctx, userID, landlord.ID)
	})
	require.NoError(t, err)

	got, err := store.GetLandlord(ctx, userID, landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PropertyCount)
}

func TestMemoryStore_RunInTxRollsBackOnError(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord := newTestLandlord(userID)
	require.NoError(t, store.CreateLandlord(ctx, landlord))

	boom := fmt.Errorf("boom")
	err := store.RunInTx(ctx, func(tx Store) error {
		property := newTestProperty(userID, landlord.ID)
		if err := tx.CreateProperty(ctx, property); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing from the failed transaction is visible.
	properties, err := store.ListProperties(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, properties)

	_, err = store.GetLandlord(ctx, userID, landlord.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_RunInTxHonorsCancelledContext(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RunInTx(ctx, func(Store) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_CascadePrimitives(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	landlord, property, tenant := seedChain(t, store, userID)
	policy := newTestPolicy(userID, landlord.ID, property.ID, tenant.ID)
	require.NoError(t, store.CreatePolicy(ctx, policy))
	claim := newTestClaim(userID, policy.ID)
	require.NoError(t, store.CreateClaim(ctx, claim))

	t.Run("children block parent deletion until removed first", func(t *testing.T) {
		assert.Error(t, store.DeletePolicies(ctx, userID, []uuid.UUID{policy.ID}))
		assert.Error(t, store.DeleteTenants(ctx, userID, []uuid.UUID{tenant.ID}))
		assert.Error(t, store.DeleteLandlord(ctx, userID, landlord.ID))
	})

	t.Run("bottom-up deletion inside one transaction succeeds", func(t *testing.T) {
		err := store.RunInTx(ctx, func(tx Store) error {
			if err := tx.DeleteClaimsForPolicies(ctx, userID, []uuid.UUID{policy.ID}); err != nil {
				return err
			}
			if err := tx.DeletePolicies(ctx, userID, []uuid.UUID{policy.ID}); err != nil {
				return err
			}
			if err := tx.DeleteTenants(ctx, userID, []uuid.UUID{tenant.ID}); err != nil {
				return err
			}
			if err := tx.DeleteProperties(ctx, userID, []uuid.UUID{property.ID}); err != nil {
				return err
			}
			return tx.DeleteLandlord(ctx, userID, landlord.ID)
		})
		require.NoError(t, err)

		landlords, err := store.ListLandlords(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, landlords)
		rows, err := store.ListClaims(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMemoryStore_UpdatePreservesDerivedColumns(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	_, property, _ := seedChain(t, store, userID)
	require.NoError(t, store.RefreshPropertyTenantCount(ctx, userID, property.ID))

	// A stale CurrentTenants value on the update payload must not clobber
	// the stored counter, mirroring the SQL update column list.
	stale := *property
	stale.CurrentTenants = 99
	stale.Address = "7 Quai Saint-Antoine, Lyon"
	stale.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.UpdateProperty(ctx, &stale))

	got, err := store.GetProperty(ctx, userID, property.ID)
	require.NoError(t, err)
	assert.Equal(t, "7 Quai Saint-Antoine, Lyon", got.Address)
	assert.Equal(t, 1, got.CurrentTenants)
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

func TestPropertyService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	landlord := f.seedLandlord(t, userID)

	t.Run("creates and refreshes the landlord counter", func(t *testing.T) {
		property, err := f.properties.Create(ctx, userID, CreatePropertyInput{
			LandlordID: landlord.ID,
			Address:    "12 Rue de la République, Lyon",
			RentAmount: 950,
			Type:       models.PropertyTypeApartment,
			MaxTenants: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PropertyStatusAvailable, property.Status, "status defaults to available")
		assert.Equal(t, 0, property.CurrentTenants)

		got, err := f.landlords.Get(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.PropertyCount)
	})

	t.Run("unknown landlord is a reference error", func(t *testing.T) {
		_, err := f.properties.Create(ctx, userID, CreatePropertyInput{
			LandlordID: uuid.New(),
			Address:    "1 Rue Fantôme",
			RentAmount: 500,
			Type:       models.PropertyTypeStudio,
			MaxTenants: 1,
		})
		assert.ErrorIs(t, err, domain.ErrReference)
		assert.Contains(t, err.Error(), "invalid landlord")
	})

	t.Run("rejects non-positive rent", func(t *testing.T) {
		_, err := f.properties.Create(ctx, userID, CreatePropertyInput{
			LandlordID: landlord.ID,
			Address:    "2 Rue des Gratuits",
			RentAmount: 0,
			Type:       models.PropertyTypeHouse,
			MaxTenants: 1,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := f.properties.Create(ctx, userID, CreatePropertyInput{
			LandlordID: landlord.ID,
			Address:    "3 Rue Bizarre",
			RentAmount: 500,
			Type:       models.PropertyType("castle"),
			MaxTenants: 1,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		_, err := f.properties.Create(ctx, userID, CreatePropertyInput{
			LandlordID: landlord.ID,
			Address:    "4 Rue Vide",
			RentAmount: 500,
			Type:       models.PropertyTypeStudio,
			MaxTenants: 0,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "max tenants")
	})
}

func TestPropertyService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	landlord := f.seedLandlord(t, userID)
	property := f.seedProperty(t, userID, landlord.ID)

	t.Run("patches rent and status", func(t *testing.T) {
		rent := 1200.0
		status := models.PropertyStatusRented
		updated, err := f.properties.Update(ctx, userID, property.ID, UpdatePropertyInput{
			RentAmount: &rent,
			Status:     &status,
		})
		require.NoError(t, err)
		assert.Equal(t, 1200.0, updated.RentAmount)
		assert.Equal(t, models.PropertyStatusRented, updated.Status)
		assert.Equal(t, property.Address, updated.Address)
	})

	t.Run("moving to another landlord refreshes both counters", func(t *testing.T) {
		other := f.seedLandlord(t, userID)
		updated, err := f.properties.Update(ctx, userID, property.ID, UpdatePropertyInput{
			LandlordID: &other.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, updated.LandlordID)

		origin, err := f.landlords.Get(ctx, userID, landlord.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, origin.PropertyCount)

		target, err := f.landlords.Get(ctx, userID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, target.PropertyCount)
	})

	t.Run("moving to an unknown landlord is a reference error", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.properties.Update(ctx, userID, property.ID, UpdatePropertyInput{
			LandlordID: &ghost,
		})
		assert.ErrorIs(t, err, domain.ErrReference)
	})
}

func TestPropertyService_CapacityCannotDropBelowOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	landlord := f.seedLandlord(t, userID)
	property := f.seedProperty(t, userID, landlord.ID)

	f.seedTenant(t, userID, property.ID)
	f.seedTenant(t, userID, property.ID)

	one := 1
	_, err := f.properties.Update(ctx, userID, property.ID, UpdatePropertyInput{
		MaxTenants: &one,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "capacity cannot drop")

	// Shrinking down to the exact occupancy is fine.
	two := 2
	updated, err := f.properties.Update(ctx, userID, property.ID, UpdatePropertyInput{
		MaxTenants: &two,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MaxTenants)
}

func TestPropertyService_DeleteCascadesTenancies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	landlord, property, tenant := f.seedChain(t, userID)
	policy := f.seedPolicy(t, userID, landlord.ID, property.ID, tenant.ID)
	f.seedClaim(t, userID, policy.ID)

	keeper := f.seedProperty(t, userID, landlord.ID)

	require.NoError(t, f.properties.Delete(ctx, userID, property.ID))

	_, err := f.properties.Get(ctx, userID, property.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tenants, err := f.tenants.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, tenants)

	policies, err := f.policies.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, policies)

	claims, err := f.claims.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, claims)

	got, err := f.landlords.Get(ctx, userID, landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PropertyCount, "only the surviving property counts")

	_, err = f.properties.Get(ctx, userID, keeper.ID)
	assert.NoError(t, err)
}

func TestPropertyService_ListByLandlord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	landlord := f.seedLandlord(t, userID)
	other := f.seedLandlord(t, userID)
	mine := f.seedProperty(t, userID, landlord.ID)
	f.seedProperty(t, userID, other.ID)

	properties, err := f.properties.ListByLandlord(ctx, userID, landlord.ID)
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, mine.ID, properties[0].ID)
}

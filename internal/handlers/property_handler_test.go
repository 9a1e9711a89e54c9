package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/errors"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

func TestPropertyHandler_Create(t *testing.T) {
	env := setupTestRouter(t)
	landlord := env.seedLandlord(t)

	t.Run("creates a property with defaults", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/properties", gin.H{
			"landlordId": landlord.ID,
			"address":    "7 Quai Saint-Antoine, Lyon",
			"rentAmount": 950,
			"type":       "apartment",
			"maxTenants": 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var property models.Property
		decodeData(t, w, &property)
		assert.Equal(t, landlord.ID, property.LandlordID)
		assert.Equal(t, models.PropertyStatusAvailable, property.Status)
		assert.Equal(t, 0, property.CurrentTenants)
	})

	t.Run("unknown landlord is a reference error", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/properties", gin.H{
			"landlordId": uuid.New(),
			"address":    "1 Rue Fantôme",
			"rentAmount": 500,
			"type":       "studio",
			"maxTenants": 1,
		})
		require.Equal(t, http.StatusNotFound, w.Code)

		code, message := decodeError(t, w)
		assert.Equal(t, apierrors.ErrReference, code)
		assert.Contains(t, message, "invalid landlord")
	})

	t.Run("rejects zero rent at binding time", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/properties", gin.H{
			"landlordId": landlord.ID,
			"address":    "2 Rue des Gratuits",
			"rentAmount": 0,
			"type":       "house",
			"maxTenants": 1,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		code, _ := decodeError(t, w)
		assert.Equal(t, apierrors.ErrValidation, code)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/properties", gin.H{
			"landlordId": landlord.ID,
			"address":    "3 Rue Bizarre",
			"rentAmount": 500,
			"type":       "castle",
			"maxTenants": 1,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Type")
	})
}

func TestPropertyHandler_Get(t *testing.T) {
	env := setupTestRouter(t)
	landlord := env.seedLandlord(t)
	property := env.seedProperty(t, landlord.ID)

	w := env.do(t, http.MethodGet, "/api/v1/properties/"+property.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Property
	decodeData(t, w, &got)
	assert.Equal(t, property.Address, got.Address)

	w = env.do(t, http.MethodGet, "/api/v1/properties/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyHandler_Update(t *testing.T) {
	env := setupTestRouter(t)
	landlord := env.seedLandlord(t)
	property := env.seedProperty(t, landlord.ID)

	t.Run("patches rent and status", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/properties/"+property.ID.String(), gin.H{
			"rentAmount": 1100,
			"status":     "rented",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Property
		decodeData(t, w, &got)
		assert.Equal(t, 1100.0, got.RentAmount)
		assert.Equal(t, models.PropertyStatusRented, got.Status)
	})

	t.Run("capacity below occupancy conflicts", func(t *testing.T) {
		env.seedTenant(t, property.ID)
		env.seedTenant(t, property.ID)

		w := env.do(t, http.MethodPatch, "/api/v1/properties/"+property.ID.String(), gin.H{
			"maxTenants": 1,
		})
		require.Equal(t, http.StatusConflict, w.Code)

		code, message := decodeError(t, w)
		assert.Equal(t, apierrors.ErrConflict, code)
		assert.Contains(t, message, "capacity cannot drop")
	})
}

func TestPropertyHandler_Delete(t *testing.T) {
	env := setupTestRouter(t)
	landlord, property, tenant := env.seedChain(t)
	env.seedPolicy(t, landlord.ID, property.ID, tenant.ID)

	w := env.do(t, http.MethodDelete, "/api/v1/properties/"+property.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Tenancy and policy go with the property.
	w = env.do(t, http.MethodGet, "/api/v1/tenants/"+tenant.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/landlords/"+landlord.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Landlord
	decodeData(t, w, &got)
	assert.Equal(t, 0, got.PropertyCount)
}

func TestPropertyHandler_TenantsSubResource(t *testing.T) {
	env := setupTestRouter(t)
	landlord := env.seedLandlord(t)
	property := env.seedProperty(t, landlord.ID)
	other := env.seedProperty(t, landlord.ID)

	resident := env.seedTenant(t, property.ID)
	env.seedTenant(t, other.ID)

	w := env.do(t, http.MethodGet, "/api/v1/properties/"+property.ID.String()+"/tenants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tenants []models.Tenant
	decodeData(t, w, &tenants)
	require.Len(t, tenants, 1)
	assert.Equal(t, resident.ID, tenants[0].ID)
}

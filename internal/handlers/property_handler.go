package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/errors"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/middleware"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/services"
)

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// CreatePropertyRequest is the request body for registering a property.
type CreatePropertyRequest struct {
	LandlordID uuid.UUID             `json:"landlordId" binding:"required"`
	Address    string                `json:"address" binding:"required"`
	RentAmount float64               `json:"rentAmount" binding:"required,gt=0"`
	Type       models.PropertyType   `json:"type" binding:"required,oneof=apartment house studio commercial"`
	Status     models.PropertyStatus `json:"status" binding:"omitempty,oneof=available rented maintenance"`
	MaxTenants int                   `json:"maxTenants" binding:"required,min=1"`
}

// UpdatePropertyRequest is the request body for a partial property update.
// Absent fields keep their current value; currentTenants is derived and
// never accepted from the caller.
type UpdatePropertyRequest struct {
	LandlordID *uuid.UUID             `json:"landlordId"`
	Address    *string                `json:"address" binding:"omitempty,min=1"`
	RentAmount *float64               `json:"rentAmount" binding:"omitempty,gt=0"`
	Type       *models.PropertyType   `json:"type" binding:"omitempty,oneof=apartment house studio commercial"`
	Status     *models.PropertyStatus `json:"status" binding:"omitempty,oneof=available rented maintenance"`
	MaxTenants *int                   `json:"maxTenants" binding:"omitempty,min=1"`
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	property, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), services.CreatePropertyInput{
		LandlordID: req.LandlordID,
		Address:    req.Address,
		RentAmount: req.RentAmount,
		Type:       req.Type,
		Status:     req.Status,
		MaxTenants: req.MaxTenants,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: property})
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: properties})
}

// ListByLandlord handles GET /api/v1/landlords/:id/properties.
func (h *PropertyHandler) ListByLandlord(c *gin.Context) {
	landlordID, ok := parseID(c, "id")
	if !ok {
		return
	}

	properties, err := h.service.ListByLandlord(c.Request.Context(), middleware.GetUserID(c), landlordID)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: properties})
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	property, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: property})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	property, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, services.UpdatePropertyInput{
		LandlordID: req.LandlordID,
		Address:    req.Address,
		RentAmount: req.RentAmount,
		Type:       req.Type,
		Status:     req.Status,
		MaxTenants: req.MaxTenants,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: property})
}

// Delete handles DELETE /api/v1/properties/:id. Deleting a property removes
// its tenants and every policy and claim under them.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

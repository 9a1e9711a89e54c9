package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/errors"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/middleware"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/services"
)

// LandlordHandler handles landlord-related HTTP requests.
type LandlordHandler struct {
	service services.LandlordService
}

// NewLandlordHandler creates a new LandlordHandler instance.
func NewLandlordHandler(service services.LandlordService) *LandlordHandler {
	return &LandlordHandler{service: service}
}

// CreateLandlordRequest is the request body for creating a landlord.
type CreateLandlordRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

// UpdateLandlordRequest is the request body for a partial landlord update.
// Absent fields keep their current value.
type UpdateLandlordRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
}

// Create handles POST /api/v1/landlords.
func (h *LandlordHandler) Create(c *gin.Context) {
	var req CreateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	landlord, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateLandlordInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: landlord})
}

// List handles GET /api/v1/landlords.
func (h *LandlordHandler) List(c *gin.Context) {
	landlords, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: landlords})
}

// Get handles GET /api/v1/landlords/:id.
func (h *LandlordHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	landlord, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: landlord})
}

// Update handles PATCH /api/v1/landlords/:id.
func (h *LandlordHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	landlord, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, services.UpdateLandlordInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: landlord})
}

// Delete handles DELETE /api/v1/landlords/:id. Deleting a landlord removes
// its properties, their tenants and every policy and claim under them.
func (h *LandlordHandler) Delete(c *gin.Context) {
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

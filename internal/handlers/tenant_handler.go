package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/errors"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/middleware"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/services"
)

// TenantHandler handles tenant-related HTTP requests.
type TenantHandler struct {
	service services.TenantService
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(service services.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// CreateTenantRequest is the request body for registering a tenant. Lease
// dates are RFC 3339 timestamps; the lease end must not precede the start.
type CreateTenantRequest struct {
	PropertyID    uuid.UUID                  `json:"propertyId" binding:"required"`
	FullName      string                     `json:"fullName" binding:"required"`
	Email         string                     `json:"email" binding:"required,email"`
	Phone         string                     `json:"phone"`
	RentAmount    float64                    `json:"rentAmount" binding:"required,gt=0"`
	PaymentStatus models.TenantPaymentStatus `json:"paymentStatus" binding:"omitempty,oneof=paid pending overdue"`
	LeaseStart    time.Time                  `json:"leaseStart" binding:"required"`
	LeaseEnd      time.Time                  `json:"leaseEnd" binding:"required,gtefield=LeaseStart"`
}

// UpdateTenantRequest is the request body for a partial tenant update.
// Absent fields keep their current value.
type UpdateTenantRequest struct {
	PropertyID    *uuid.UUID                  `json:"propertyId"`
	FullName      *string                     `json:"fullName" binding:"omitempty,min=1"`
	Email         *string                     `json:"email" binding:"omitempty,email"`
	Phone         *string                     `json:"phone"`
	RentAmount    *float64                    `json:"rentAmount" binding:"omitempty,gt=0"`
	PaymentStatus *models.TenantPaymentStatus `json:"paymentStatus" binding:"omitempty,oneof=paid pending overdue"`
	LeaseStart    *time.Time                  `json:"leaseStart"`
	LeaseEnd      *time.Time                  `json:"leaseEnd"`
}

// Create handles POST /api/v1/tenants.
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	tenant, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateTenantInput{
		PropertyID:    req.PropertyID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		RentAmount:    req.RentAmount,
		PaymentStatus: req.PaymentStatus,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: tenant})
}

// List handles GET /api/v1/tenants.
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: tenants})
}

// ListByProperty handles GET /api/v1/properties/:id/tenants.
func (h *TenantHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tenants, err := h.service.ListByProperty(c.Request.Context(), middleware.GetUserID(c), propertyID)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: tenants})
}

// Get handles GET /api/v1/tenants/:id.
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: tenant})
}

// Update handles PATCH /api/v1/tenants/:id.
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	tenant, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, services.UpdateTenantInput{
		PropertyID:    req.PropertyID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		RentAmount:    req.RentAmount,
		PaymentStatus: req.PaymentStatus,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: tenant})
}

// Delete handles DELETE /api/v1/tenants/:id. Deleting a tenant removes the
// policy covering the tenancy, if any, along with that policy's claims.
func (h *TenantHandler) Delete(c *gin.Context) {
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

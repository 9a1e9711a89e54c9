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

// PolicyHandler handles policy-related HTTP requests.
type PolicyHandler struct {
	service services.PolicyService
}

// NewPolicyHandler creates a new PolicyHandler instance.
func NewPolicyHandler(service services.PolicyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// CreatePolicyRequest is the request body for issuing a policy. The premium,
// end date, risk score and decision are derived server-side and absent here.
type CreatePolicyRequest struct {
	LandlordID     uuid.UUID           `json:"landlordId" binding:"required"`
	PropertyID     uuid.UUID           `json:"propertyId" binding:"required"`
	TenantID       uuid.UUID           `json:"tenantId" binding:"required"`
	Status         models.PolicyStatus `json:"status" binding:"omitempty,oneof=active expired cancelled"`
	CoverageMonths int                 `json:"coverageMonths" binding:"required,min=1"`
	StartDate      time.Time           `json:"startDate" binding:"required"`
}

// UpdatePolicyStatusRequest is the request body for the status transition
// endpoint, the only mutation a policy accepts after issuance.
type UpdatePolicyStatusRequest struct {
	Status models.PolicyStatus `json:"status" binding:"required,oneof=active expired cancelled"`
}

// Create handles POST /api/v1/policies.
func (h *PolicyHandler) Create(c *gin.Context) {
	var req CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	policy, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), services.CreatePolicyInput{
		LandlordID:     req.LandlordID,
		PropertyID:     req.PropertyID,
		TenantID:       req.TenantID,
		Status:         req.Status,
		CoverageMonths: req.CoverageMonths,
		StartDate:      req.StartDate,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: policy})
}

// List handles GET /api/v1/policies.
func (h *PolicyHandler) List(c *gin.Context) {
	policies, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: policies})
}

// ListByLandlord handles GET /api/v1/landlords/:id/policies.
func (h *PolicyHandler) ListByLandlord(c *gin.Context) {
	landlordID, ok := parseID(c, "id")
	if !ok {
		return
	}

	policies, err := h.service.ListByLandlord(c.Request.Context(), middleware.GetUserID(c), landlordID)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: policies})
}

// Get handles GET /api/v1/policies/:id. The response is the denormalized
// detail view: the policy plus the tenant, property and landlord it insures.
func (h *PolicyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: detail})
}

// UpdateStatus handles PATCH /api/v1/policies/:id/status.
func (h *PolicyHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdatePolicyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	policy, err := h.service.UpdateStatus(c.Request.Context(), middleware.GetUserID(c), id, req.Status)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: policy})
}

// Delete handles DELETE /api/v1/policies/:id. A policy with claims against
// it is never deleted; the request fails with a conflict instead.
func (h *PolicyHandler) Delete(c *gin.Context) {
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

// Document handles GET /api/v1/policies/:id/document, serving the rendered
// policy schedule.
func (h *PolicyHandler) Document(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	schedule, err := h.service.Document(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", schedule)
}

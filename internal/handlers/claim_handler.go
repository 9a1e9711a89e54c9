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

// ClaimHandler handles claim-related HTTP requests.
type ClaimHandler struct {
	service services.ClaimService
}

// NewClaimHandler creates a new ClaimHandler instance.
func NewClaimHandler(service services.ClaimService) *ClaimHandler {
	return &ClaimHandler{service: service}
}

// CreateClaimRequest is the request body for filing a claim. Evidence is
// carried as external URLs, never as file content.
type CreateClaimRequest struct {
	PolicyID           uuid.UUID `json:"policyId" binding:"required"`
	AmountRequested    float64   `json:"amountRequested" binding:"required,gt=0"`
	MonthsOfUnpaidRent int       `json:"monthsOfUnpaidRent" binding:"omitempty,min=0"`
	EvidenceURLs       []string  `json:"evidenceUrls" binding:"omitempty,dive,url"`
	Notes              string    `json:"notes"`
}

// UpdateClaimRequest is the request body for a partial claim update. The
// policy reference and claim number are immutable and deliberately absent.
type UpdateClaimRequest struct {
	Status             *models.ClaimStatus `json:"status" binding:"omitempty,oneof=pending under_review approved rejected paid"`
	AmountRequested    *float64            `json:"amountRequested" binding:"omitempty,gt=0"`
	MonthsOfUnpaidRent *int                `json:"monthsOfUnpaidRent" binding:"omitempty,min=0"`
	EvidenceURLs       *[]string           `json:"evidenceUrls" binding:"omitempty,dive,url"`
	Notes              *string             `json:"notes"`
}

// Create handles POST /api/v1/claims.
func (h *ClaimHandler) Create(c *gin.Context) {
	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	claim, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateClaimInput{
		PolicyID:           req.PolicyID,
		AmountRequested:    req.AmountRequested,
		MonthsOfUnpaidRent: req.MonthsOfUnpaidRent,
		EvidenceURLs:       req.EvidenceURLs,
		Notes:              req.Notes,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusCreated, DataResponse{Data: claim})
}

// List handles GET /api/v1/claims. Rows are denormalized with the policy
// number, tenant name, property address and landlord name.
func (h *ClaimHandler) List(c *gin.Context) {
	claims, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: claims})
}

// ListByPolicy handles GET /api/v1/policies/:id/claims.
func (h *ClaimHandler) ListByPolicy(c *gin.Context) {
	policyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims, err := h.service.ListByPolicy(c.Request.Context(), middleware.GetUserID(c), policyID)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: claims})
}

// Get handles GET /api/v1/claims/:id.
func (h *ClaimHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claim, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: claim})
}

// Update handles PATCH /api/v1/claims/:id.
func (h *ClaimHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	claim, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, services.UpdateClaimInput{
		Status:             req.Status,
		AmountRequested:    req.AmountRequested,
		MonthsOfUnpaidRent: req.MonthsOfUnpaidRent,
		EvidenceURLs:       req.EvidenceURLs,
		Notes:              req.Notes,
	})
	if err != nil {
		apierrors.Domain(c, err)
		return
	}

	c.JSON(http.StatusOK, DataResponse{Data: claim})
}

// Delete handles DELETE /api/v1/claims/:id. Paid claims are settled
// financial records and cannot be deleted.
func (h *ClaimHandler) Delete(c *gin.Context) {
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

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/lifecycle"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/metrics"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/notify"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/numbering"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
)

// CreateClaimInput carries the caller-supplied fields of a new claim. Status
// always starts at pending; ClaimNumber is assigned by the service.
type CreateClaimInput struct {
	PolicyID           uuid.UUID
	AmountRequested    float64
	MonthsOfUnpaidRent int
	EvidenceURLs       []string
	Notes              string
}

// UpdateClaimInput is a partial update; nil fields keep their current value.
// PolicyID and ClaimNumber are immutable and deliberately absent.
type UpdateClaimInput struct {
	Status             *models.ClaimStatus
	AmountRequested    *float64
	MonthsOfUnpaidRent *int
	EvidenceURLs       *[]string
	Notes              *string
}

// ClaimService manages indemnification claims. Claims are filed against
// active policies only and move through the review lifecycle; a paid claim
// is a settled financial record and can never be deleted.
type ClaimService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateClaimInput) (*models.Claim, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Claim, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.ClaimRow, error)
	ListByPolicy(ctx context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateClaimInput) (*models.Claim, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type claimService struct {
	store   repository.Store
	numbers numbering.Generator
	sender  notify.Sender
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewClaimService creates a ClaimService with its collaborators.
func NewClaimService(
	store repository.Store,
	numbers numbering.Generator,
	sender notify.Sender,
	m *metrics.Metrics,
	log *logger.Logger,
) ClaimService {
	return &claimService{
		store:   store,
		numbers: numbers,
		sender:  sender,
		metrics: m,
		log:     log,
	}
}

// Create files a claim against an active policy. The policy's claimability is
// checked inside the insert transaction, and number collisions retry the whole
// transaction with a fresh candidate.
func (s *claimService) Create(ctx context.Context, userID uuid.UUID, input CreateClaimInput) (*models.Claim, error) {
	if input.AmountRequested <= 0 {
		return nil, domain.Validationf("amount requested must be positive")
	}
	if input.MonthsOfUnpaidRent < 0 {
		return nil, domain.Validationf("months of unpaid rent cannot be negative")
	}

	now := time.Now().UTC()
	claim := &models.Claim{
		ID:                 uuid.New(),
		UserID:             userID,
		PolicyID:           input.PolicyID,
		Status:             models.ClaimStatusPending,
		AmountRequested:    input.AmountRequested,
		MonthsOfUnpaidRent: input.MonthsOfUnpaidRent,
		EvidenceURLs:       input.EvidenceURLs,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		claim.ClaimNumber = s.numbers.ClaimNumber()
		err = s.store.RunInTx(ctx, func(tx repository.Store) error {
			policy, err := policyRef(ctx, tx, userID, input.PolicyID)
			if err != nil {
				return err
			}
			if err := lifecycle.CheckClaimable(policy.Status); err != nil {
				return err
			}
			return tx.CreateClaim(ctx, claim)
		})
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			break
		}
		s.metrics.IncrementNumberRetries()
		s.log.Warn("Claim number collision, retrying", map[string]interface{}{
			"claim_number": claim.ClaimNumber,
			"attempt":      attempt + 1,
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateNumber) {
			return nil, fmt.Errorf("exhausted %d claim number attempts: %w", numberAttempts, err)
		}
		return nil, err
	}

	s.metrics.IncrementClaimsFiled()
	s.log.Info("Claim filed", map[string]interface{}{
		"claim_id":     claim.ID,
		"claim_number": claim.ClaimNumber,
		"policy_id":    input.PolicyID,
		"amount":       claim.AmountRequested,
		"user_id":      userID,
	})
	s.notifyClaim(ctx, userID, claim, notify.KindClaimFiled)

	return claim, nil
}

func (s *claimService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Claim, error) {
	return s.store.GetClaim(ctx, userID, id)
}

func (s *claimService) List(ctx context.Context, userID uuid.UUID) ([]models.ClaimRow, error) {
	return s.store.ListClaims(ctx, userID)
}

func (s *claimService) ListByPolicy(ctx context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error) {
	return s.store.ListClaimsByPolicy(ctx, userID, policyID)
}

// Update patches a claim. Status changes are validated against the claim
// lifecycle; a transition into paid is counted and notified.
func (s *claimService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateClaimInput) (*models.Claim, error) {
	var updated *models.Claim
	var previousStatus models.ClaimStatus
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		claim, err := tx.GetClaim(ctx, userID, id)
		if err != nil {
			return err
		}
		previousStatus = claim.Status

		if input.Status != nil {
			if err := lifecycle.CheckClaimTransition(claim.Status, *input.Status); err != nil {
				return err
			}
			claim.Status = *input.Status
		}
		if input.AmountRequested != nil {
			if *input.AmountRequested <= 0 {
				return domain.Validationf("amount requested must be positive")
			}
			claim.AmountRequested = *input.AmountRequested
		}
		if input.MonthsOfUnpaidRent != nil {
			if *input.MonthsOfUnpaidRent < 0 {
				return domain.Validationf("months of unpaid rent cannot be negative")
			}
			claim.MonthsOfUnpaidRent = *input.MonthsOfUnpaidRent
		}
		if input.EvidenceURLs != nil {
			claim.EvidenceURLs = *input.EvidenceURLs
		}
		if input.Notes != nil {
			claim.Notes = *input.Notes
		}
		claim.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateClaim(ctx, claim); err != nil {
			return err
		}
		updated = claim
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status != previousStatus {
		s.log.Info("Claim status changed", map[string]interface{}{
			"claim_id": id,
			"from":     previousStatus,
			"to":       updated.Status,
			"user_id":  userID,
		})
		switch updated.Status {
		case models.ClaimStatusApproved, models.ClaimStatusRejected:
			s.notifyClaim(ctx, userID, updated, notify.KindClaimDecided)
		case models.ClaimStatusPaid:
			s.metrics.IncrementClaimsPaid()
			s.notifyClaim(ctx, userID, updated, notify.KindClaimPaid)
		}
	}
	return updated, nil
}

// Delete removes a claim unless it has been paid out.
func (s *claimService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	blocked := false
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		claim, err := tx.GetClaim(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckClaimDeletable(claim.Status); err != nil {
			blocked = true
			return err
		}
		return tx.DeleteClaim(ctx, userID, id)
	})
	if blocked {
		s.metrics.IncrementBlockedDeletions()
	}
	if err != nil {
		return err
	}

	s.log.Info("Claim deleted", map[string]interface{}{
		"claim_id": id,
		"user_id":  userID,
	})
	return nil
}

// notifyClaim delivers a claim lifecycle notification to the landlord of the
// covering policy. Runs strictly after commit; failures are logged only.
func (s *claimService) notifyClaim(ctx context.Context, userID uuid.UUID, claim *models.Claim, kind notify.Kind) {
	detail, err := s.store.GetPolicyDetail(ctx, userID, claim.PolicyID)
	if err != nil {
		s.log.Error("Failed to resolve policy for claim notification", err, map[string]interface{}{
			"claim_id": claim.ID,
		})
		return
	}
	if err := s.sender.Send(ctx, detail.Landlord.Email, kind, map[string]any{
		"claimNumber":  claim.ClaimNumber,
		"policyNumber": detail.Policy.PolicyNumber,
		"tenantName":   detail.Tenant.FullName,
		"status":       string(claim.Status),
		"amount":       claim.AmountRequested,
	}); err != nil {
		s.log.Error("Failed to send claim notification", err, map[string]interface{}{
			"claim_id": claim.ID,
			"kind":     string(kind),
		})
	}
}

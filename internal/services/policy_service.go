package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/documents"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/lifecycle"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/metrics"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/notify"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/numbering"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/pricing"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/risk"
)

// numberAttempts bounds the issuance retries on a policy/claim number
// collision. With 10^8 random candidates, exhausting this means the random
// source is broken or the table is implausibly full.
const numberAttempts = 5

// CreatePolicyInput carries the caller-supplied fields of a new policy.
// EndDate, PremiumAmount, RiskScore and Decision are derived, never accepted
// from the caller.
type CreatePolicyInput struct {
	LandlordID     uuid.UUID
	PropertyID     uuid.UUID
	TenantID       uuid.UUID
	Status         models.PolicyStatus
	CoverageMonths int
	StartDate      time.Time
}

// PolicyService issues rent-guarantee policies and manages their lifecycle.
// Issuance runs the full underwriting pipeline: resolve the insured parties,
// score the tenancy, derive the financial fields and persist, with the
// policy-number collision retry hidden inside.
type PolicyService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePolicyInput) (*models.Policy, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Policy, error)
	GetDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Policy, error)
	ListByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.PolicyStatus) (*models.Policy, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Document(ctx context.Context, userID, id uuid.UUID) ([]byte, error)
}

type policyService struct {
	store    repository.Store
	numbers  numbering.Generator
	scorer   risk.Scorer
	renderer documents.Renderer
	sender   notify.Sender
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewPolicyService creates a PolicyService with its collaborators.
func NewPolicyService(
	store repository.Store,
	numbers numbering.Generator,
	scorer risk.Scorer,
	renderer documents.Renderer,
	sender notify.Sender,
	m *metrics.Metrics,
	log *logger.Logger,
) PolicyService {
	return &policyService{
		store:    store,
		numbers:  numbers,
		scorer:   scorer,
		renderer: renderer,
		sender:   sender,
		metrics:  m,
		log:      log,
	}
}

// Create issues a policy. Risk scoring happens before the transaction opens
// (the scorer may be remote and must not hold a transaction hostage); the
// references are re-resolved inside the transaction so the scored tenancy is
// the one that gets insured. On a policy-number collision the whole
// transaction is retried with a fresh candidate.
func (s *policyService) Create(ctx context.Context, userID uuid.UUID, input CreatePolicyInput) (*models.Policy, error) {
	start := time.Now()

	if input.CoverageMonths < 1 {
		return nil, domain.Validationf("coverage months must be at least 1")
	}
	if input.StartDate.IsZero() {
		return nil, domain.Validationf("start date is required")
	}
	if input.Status == "" {
		input.Status = models.PolicyStatusActive
	}
	if !models.ValidPolicyStatus(input.Status) {
		return nil, domain.Validationf("unknown policy status %q", input.Status)
	}

	landlord, property, tenant, err := policyParties(ctx, s.store, userID, input.LandlordID, input.PropertyID, input.TenantID)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.scorer.Evaluate(ctx, risk.QuoteInput{
		MonthlyRent:   property.RentAmount,
		PaymentStatus: tenant.PaymentStatus,
		LeaseMonths:   tenant.LeaseMonths(),
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate risk: %w", err)
	}
	if evaluation.Decision == models.DecisionDecline {
		s.log.Warn("Policy declined by risk evaluation", map[string]interface{}{
			"tenant_id": tenant.ID,
			"score":     evaluation.Score,
			"user_id":   userID,
		})
		return nil, domain.Conflictf("risk evaluation declined the tenancy (score %.0f)", evaluation.Score)
	}

	now := time.Now().UTC()
	policy := &models.Policy{
		ID:             uuid.New(),
		UserID:         userID,
		LandlordID:     input.LandlordID,
		PropertyID:     input.PropertyID,
		TenantID:       input.TenantID,
		Status:         input.Status,
		CoverageMonths: input.CoverageMonths,
		RiskScore:      evaluation.Score,
		Decision:       evaluation.Decision,
		StartDate:      input.StartDate.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Each attempt is a fresh transaction: Postgres aborts the transaction on
	// a unique violation, so the retry cannot loop inside one.
	for attempt := 0; attempt < numberAttempts; attempt++ {
		policy.PolicyNumber = s.numbers.PolicyNumber()
		err = s.store.RunInTx(ctx, func(tx repository.Store) error {
			_, txProperty, _, err := policyParties(ctx, tx, userID, input.LandlordID, input.PropertyID, input.TenantID)
			if err != nil {
				return err
			}
			policy.MonthlyRent = txProperty.RentAmount
			policy.EndDate = pricing.CoverageEnd(policy.StartDate, policy.CoverageMonths)
			policy.PremiumAmount = pricing.Premium(policy.MonthlyRent, policy.CoverageMonths, policy.RiskScore)
			return tx.CreatePolicy(ctx, policy)
		})
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			break
		}
		s.metrics.IncrementNumberRetries()
		s.log.Warn("Policy number collision, retrying", map[string]interface{}{
			"policy_number": policy.PolicyNumber,
			"attempt":       attempt + 1,
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateNumber) {
			return nil, fmt.Errorf("exhausted %d policy number attempts: %w", numberAttempts, err)
		}
		return nil, err
	}

	s.metrics.IncrementPoliciesIssued()
	s.metrics.ObserveIssuance(start)
	s.log.Info("Policy issued", map[string]interface{}{
		"policy_id":     policy.ID,
		"policy_number": policy.PolicyNumber,
		"premium":       policy.PremiumAmount,
		"decision":      policy.Decision,
		"user_id":       userID,
	})

	if err := s.sender.Send(ctx, landlord.Email, notify.KindPolicyIssued, map[string]any{
		"policyNumber": policy.PolicyNumber,
		"tenantName":   tenant.FullName,
		"premium":      policy.PremiumAmount,
		"startDate":    policy.StartDate.Format("2006-01-02"),
		"endDate":      policy.EndDate.Format("2006-01-02"),
	}); err != nil {
		s.log.Error("Failed to send policy issued notification", err, map[string]interface{}{
			"policy_id": policy.ID,
		})
	}

	return policy, nil
}

func (s *policyService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Policy, error) {
	return s.store.GetPolicy(ctx, userID, id)
}

func (s *policyService) GetDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error) {
	return s.store.GetPolicyDetail(ctx, userID, id)
}

func (s *policyService) List(ctx context.Context, userID uuid.UUID) ([]models.Policy, error) {
	return s.store.ListPolicies(ctx, userID)
}

func (s *policyService) ListByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error) {
	return s.store.ListPoliciesByLandlord(ctx, userID, landlordID)
}

// UpdateStatus is the only mutation a policy accepts after issuance.
func (s *policyService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.PolicyStatus) (*models.Policy, error) {
	var updated *models.Policy
	var changed bool
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		policy, err := tx.GetPolicy(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckPolicyTransition(policy.Status, status); err != nil {
			return err
		}
		changed = policy.Status != status
		policy.Status = status
		policy.UpdatedAt = time.Now().UTC()
		if err := tx.UpdatePolicy(ctx, policy); err != nil {
			return err
		}
		updated = policy
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info("Policy status changed", map[string]interface{}{
			"policy_id": id,
			"status":    status,
			"user_id":   userID,
		})
		s.notifyStatusChange(ctx, userID, updated)
	}
	return updated, nil
}

func (s *policyService) notifyStatusChange(ctx context.Context, userID uuid.UUID, policy *models.Policy) {
	landlord, err := s.store.GetLandlord(ctx, userID, policy.LandlordID)
	if err != nil {
		s.log.Error("Failed to resolve landlord for status notification", err, map[string]interface{}{
			"policy_id": policy.ID,
		})
		return
	}
	if err := s.sender.Send(ctx, landlord.Email, notify.KindPolicyStatusChanged, map[string]any{
		"policyNumber": policy.PolicyNumber,
		"status":       string(policy.Status),
	}); err != nil {
		s.log.Error("Failed to send policy status notification", err, map[string]interface{}{
			"policy_id": policy.ID,
		})
	}
}

// Delete removes a policy, but only when no claim references it. Claims are
// financial records: the deletion is blocked, never cascaded.
func (s *policyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	blocked := false
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetPolicy(ctx, userID, id); err != nil {
			return err
		}
		count, err := tx.CountClaimsByPolicy(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckPolicyDeletable(count); err != nil {
			blocked = true
			return err
		}
		return tx.DeletePolicies(ctx, userID, []uuid.UUID{id})
	})
	if blocked {
		s.metrics.IncrementBlockedDeletions()
	}
	if err != nil {
		return err
	}

	s.log.Info("Policy deleted", map[string]interface{}{
		"policy_id": id,
		"user_id":   userID,
	})
	return nil
}

// Document renders the policy schedule for the landlord.
func (s *policyService) Document(ctx context.Context, userID, id uuid.UUID) ([]byte, error) {
	detail, err := s.store.GetPolicyDetail(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.PolicySchedule(detail)
}

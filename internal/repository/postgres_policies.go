package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/domain"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

const policyColumns = "id, user_id, landlord_id, property_id, tenant_id, policy_number, status, coverage_months, monthly_rent, risk_score, decision, start_date, end_date, premium_amount, created_at, updated_at"

// policyFields returns scan destinations in policyColumns order.
func policyFields(p *models.Policy) []any {
	return []any{&p.ID, &p.UserID, &p.LandlordID, &p.PropertyID, &p.TenantID, &p.PolicyNumber, &p.Status, &p.CoverageMonths, &p.MonthlyRent, &p.RiskScore, &p.Decision, &p.StartDate, &p.EndDate, &p.PremiumAmount, &p.CreatedAt, &p.UpdatedAt}
}

func (s *postgresStore) CreatePolicy(ctx context.Context, policy *models.Policy) error {
	query := `
		INSERT INTO policies (` + policyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.q.Exec(ctx, query,
		policy.ID,
		policy.UserID,
		policy.LandlordID,
		policy.PropertyID,
		policy.TenantID,
		policy.PolicyNumber,
		policy.Status,
		policy.CoverageMonths,
		policy.MonthlyRent,
		policy.RiskScore,
		policy.Decision,
		policy.StartDate,
		policy.EndDate,
		policy.PremiumAmount,
		policy.CreatedAt,
		policy.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "policies_policy_number_key":
				return fmt.Errorf("%w: policy number %s", domain.ErrDuplicateNumber, policy.PolicyNumber)
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "policies_tenant_id_key":
				return domain.Conflictf("tenant %s already has a policy", policy.TenantID)
			case pgErr.Code == pgForeignKeyViolation:
				return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
			}
		}
		return fmt.Errorf("failed to insert policy: %w", err)
	}
	return nil
}

func (s *postgresStore) GetPolicy(ctx context.Context, userID, id uuid.UUID) (*models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE user_id = $1 AND id = $2`

	var policy models.Policy
	err := s.q.QueryRow(ctx, query, userID, id).Scan(policyFields(&policy)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("policy %s not found", id)
		}
		return nil, fmt.Errorf("failed to query policy %s: %w", id, err)
	}
	return &policy, nil
}

// GetPolicyDetail resolves a policy together with the tenant, property and
// landlord it references, in one round trip.
func (s *postgresStore) GetPolicyDetail(ctx context.Context, userID, id uuid.UUID) (*models.PolicyDetail, error) {
	query := `
		SELECT ` +
		prefixed("p", policyColumns) + `, ` +
		prefixed("t", tenantColumns) + `, ` +
		prefixed("pr", propertyColumns) + `, ` +
		prefixed("l", landlordColumns) + `
		FROM policies p
		JOIN tenants t ON t.id = p.tenant_id
		JOIN properties pr ON pr.id = p.property_id
		JOIN landlords l ON l.id = p.landlord_id
		WHERE p.user_id = $1 AND p.id = $2
	`

	var detail models.PolicyDetail
	fields := policyFields(&detail.Policy)
	fields = append(fields, tenantFields(&detail.Tenant)...)
	fields = append(fields, propertyFields(&detail.Property)...)
	fields = append(fields, landlordFields(&detail.Landlord)...)

	err := s.q.QueryRow(ctx, query, userID, id).Scan(fields...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("policy %s not found", id)
		}
		return nil, fmt.Errorf("failed to query policy detail %s: %w", id, err)
	}
	return &detail, nil
}

func (s *postgresStore) ListPolicies(ctx context.Context, userID uuid.UUID) ([]models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE user_id = $1 ORDER BY created_at, id`
	return s.queryPolicies(ctx, query, userID)
}

func (s *postgresStore) ListPoliciesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE user_id = $1 AND landlord_id = $2 ORDER BY created_at, id`
	return s.queryPolicies(ctx, query, userID, landlordID)
}

func (s *postgresStore) queryPolicies(ctx context.Context, query string, args ...any) ([]models.Policy, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	defer rows.Close()

	policies := []models.Policy{}
	for rows.Next() {
		var policy models.Policy
		if err := rows.Scan(policyFields(&policy)...); err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rows: %w", err)
	}
	return policies, nil
}

func (s *postgresStore) UpdatePolicy(ctx context.Context, policy *models.Policy) error {
	query := `
		UPDATE policies
		SET landlord_id = $3, property_id = $4, tenant_id = $5, status = $6, coverage_months = $7, monthly_rent = $8, risk_score = $9, decision = $10, start_date = $11, end_date = $12, premium_amount = $13, updated_at = $14
		WHERE user_id = $1 AND id = $2
	`

	tag, err := s.q.Exec(ctx, query,
		policy.UserID,
		policy.ID,
		policy.LandlordID,
		policy.PropertyID,
		policy.TenantID,
		policy.Status,
		policy.CoverageMonths,
		policy.MonthlyRent,
		policy.RiskScore,
		policy.Decision,
		policy.StartDate,
		policy.EndDate,
		policy.PremiumAmount,
		policy.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "policies_tenant_id_key":
				return domain.Conflictf("tenant %s already has a policy", policy.TenantID)
			case pgErr.Code == pgForeignKeyViolation:
				return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
			}
		}
		return fmt.Errorf("failed to update policy %s: %w", policy.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("policy %s not found", policy.ID)
	}
	return nil
}

func (s *postgresStore) DeletePolicies(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM policies WHERE user_id = $1 AND id = ANY($2)`, userID, ids); err != nil {
		return fmt.Errorf("failed to delete policies: %w", err)
	}
	return nil
}

func (s *postgresStore) PolicyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM policies WHERE user_id = $1 AND landlord_id = $2 ORDER BY created_at, id`
	return s.queryIDs(ctx, query, userID, landlordID)
}

func (s *postgresStore) PolicyIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(propertyIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	query := `SELECT id FROM policies WHERE user_id = $1 AND property_id = ANY($2) ORDER BY created_at, id`
	return s.queryIDs(ctx, query, userID, propertyIDs)
}

func (s *postgresStore) PolicyIDsByTenants(ctx context.Context, userID uuid.UUID, tenantIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(tenantIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	query := `SELECT id FROM policies WHERE user_id = $1 AND tenant_id = ANY($2) ORDER BY created_at, id`
	return s.queryIDs(ctx, query, userID, tenantIDs)
}

func (s *postgresStore) CountClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM claims WHERE user_id = $1 AND policy_id = $2`, userID, policyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims for policy %s: %w", policyID, err)
	}
	return count, nil
}

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

const claimColumns = "id, user_id, policy_id, claim_number, status, amount_requested, months_of_unpaid_rent, evidence_urls, notes, created_at, updated_at"

// claimFields returns scan destinations in claimColumns order.
func claimFields(c *models.Claim) []any {
	return []any{&c.ID, &c.UserID, &c.PolicyID, &c.ClaimNumber, &c.Status, &c.AmountRequested, &c.MonthsOfUnpaidRent, &c.EvidenceURLs, &c.Notes, &c.CreatedAt, &c.UpdatedAt}
}

func (s *postgresStore) CreateClaim(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	evidence := claim.EvidenceURLs
	if evidence == nil {
		evidence = []string{}
	}

	_, err := s.q.Exec(ctx, query,
		claim.ID,
		claim.UserID,
		claim.PolicyID,
		claim.ClaimNumber,
		claim.Status,
		claim.AmountRequested,
		claim.MonthsOfUnpaidRent,
		evidence,
		claim.Notes,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "claims_claim_number_key":
				return fmt.Errorf("%w: claim number %s", domain.ErrDuplicateNumber, claim.ClaimNumber)
			case pgErr.Code == pgForeignKeyViolation:
				return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
			}
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (s *postgresStore) GetClaim(ctx context.Context, userID, id uuid.UUID) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE user_id = $1 AND id = $2`

	var claim models.Claim
	err := s.q.QueryRow(ctx, query, userID, id).Scan(claimFields(&claim)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("claim %s not found", id)
		}
		return nil, fmt.Errorf("failed to query claim %s: %w", id, err)
	}
	return &claim, nil
}

func (s *postgresStore) ListClaims(ctx context.Context, userID uuid.UUID) ([]models.ClaimRow, error) {
	return s.queryClaimRows(ctx, `WHERE c.user_id = $1`, userID)
}

func (s *postgresStore) ListClaimsByPolicy(ctx context.Context, userID, policyID uuid.UUID) ([]models.ClaimRow, error) {
	return s.queryClaimRows(ctx, `WHERE c.user_id = $1 AND c.policy_id = $2`, userID, policyID)
}

// queryClaimRows serves the denormalized claim list: each row already carries
// the policy number and the names a list page needs, so rendering never fans
// out into per-row lookups.
func (s *postgresStore) queryClaimRows(ctx context.Context, where string, args ...any) ([]models.ClaimRow, error) {
	query := `
		SELECT ` + prefixed("c", claimColumns) + `, p.policy_number, t.full_name, pr.address, l.full_name
		FROM claims c
		JOIN policies p ON p.id = c.policy_id
		JOIN tenants t ON t.id = p.tenant_id
		JOIN properties pr ON pr.id = p.property_id
		JOIN landlords l ON l.id = p.landlord_id
		` + where + `
		ORDER BY c.created_at, c.id
	`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query claim rows: %w", err)
	}
	defer rows.Close()

	claims := []models.ClaimRow{}
	for rows.Next() {
		var row models.ClaimRow
		fields := claimFields(&row.Claim)
		fields = append(fields, &row.PolicyNumber, &row.TenantName, &row.PropertyAddress, &row.LandlordName)
		if err := rows.Scan(fields...); err != nil {
			return nil, fmt.Errorf("failed to scan claim row: %w", err)
		}
		claims = append(claims, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claim rows: %w", err)
	}
	return claims, nil
}

func (s *postgresStore) UpdateClaim(ctx context.Context, claim *models.Claim) error {
	query := `
		UPDATE claims
		SET status = $3, amount_requested = $4, months_of_unpaid_rent = $5, evidence_urls = $6, notes = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2
	`

	evidence := claim.EvidenceURLs
	if evidence == nil {
		evidence = []string{}
	}

	tag, err := s.q.Exec(ctx, query,
		claim.UserID,
		claim.ID,
		claim.Status,
		claim.AmountRequested,
		claim.MonthsOfUnpaidRent,
		evidence,
		claim.Notes,
		claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update claim %s: %w", claim.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("claim %s not found", claim.ID)
	}
	return nil
}

func (s *postgresStore) DeleteClaim(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM claims WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete claim %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("claim %s not found", id)
	}
	return nil
}

func (s *postgresStore) DeleteClaimsForPolicies(ctx context.Context, userID uuid.UUID, policyIDs []uuid.UUID) error {
	if len(policyIDs) == 0 {
		return nil
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM claims WHERE user_id = $1 AND policy_id = ANY($2)`, userID, policyIDs); err != nil {
		return fmt.Errorf("failed to delete claims for policies: %w", err)
	}
	return nil
}

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

const tenantColumns = "id, user_id, property_id, full_name, email, phone, rent_amount, payment_status, lease_start, lease_end, created_at, updated_at"

// tenantFields returns scan destinations in tenantColumns order.
func tenantFields(t *models.Tenant) []any {
	return []any{&t.ID, &t.UserID, &t.PropertyID, &t.FullName, &t.Email, &t.Phone, &t.RentAmount, &t.PaymentStatus, &t.LeaseStart, &t.LeaseEnd, &t.CreatedAt, &t.UpdatedAt}
}

func (s *postgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.q.Exec(ctx, query,
		tenant.ID,
		tenant.UserID,
		tenant.PropertyID,
		tenant.FullName,
		tenant.Email,
		tenant.Phone,
		tenant.RentAmount,
		tenant.PaymentStatus,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil && pgErr.Code == pgForeignKeyViolation {
			return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
		}
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

func (s *postgresStore) GetTenant(ctx context.Context, userID, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1 AND id = $2`

	var tenant models.Tenant
	err := s.q.QueryRow(ctx, query, userID, id).Scan(tenantFields(&tenant)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("tenant %s not found", id)
		}
		return nil, fmt.Errorf("failed to query tenant %s: %w", id, err)
	}
	return &tenant, nil
}

func (s *postgresStore) ListTenants(ctx context.Context, userID uuid.UUID) ([]models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1 ORDER BY created_at, id`
	return s.queryTenants(ctx, query, userID)
}

func (s *postgresStore) ListTenantsByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1 AND property_id = $2 ORDER BY created_at, id`
	return s.queryTenants(ctx, query, userID, propertyID)
}

func (s *postgresStore) queryTenants(ctx context.Context, query string, args ...any) ([]models.Tenant, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		var tenant models.Tenant
		if err := rows.Scan(tenantFields(&tenant)...); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}

func (s *postgresStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET property_id = $3, full_name = $4, email = $5, phone = $6, rent_amount = $7, payment_status = $8, lease_start = $9, lease_end = $10, updated_at = $11
		WHERE user_id = $1 AND id = $2
	`

	tag, err := s.q.Exec(ctx, query,
		tenant.UserID,
		tenant.ID,
		tenant.PropertyID,
		tenant.FullName,
		tenant.Email,
		tenant.Phone,
		tenant.RentAmount,
		tenant.PaymentStatus,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil && pgErr.Code == pgForeignKeyViolation {
			return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
		}
		return fmt.Errorf("failed to update tenant %s: %w", tenant.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("tenant %s not found", tenant.ID)
	}
	return nil
}

func (s *postgresStore) DeleteTenants(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM tenants WHERE user_id = $1 AND id = ANY($2)`, userID, ids); err != nil {
		return fmt.Errorf("failed to delete tenants: %w", err)
	}
	return nil
}

func (s *postgresStore) TenantIDsByProperties(ctx context.Context, userID uuid.UUID, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(propertyIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	query := `SELECT id FROM tenants WHERE user_id = $1 AND property_id = ANY($2) ORDER BY created_at, id`
	return s.queryIDs(ctx, query, userID, propertyIDs)
}

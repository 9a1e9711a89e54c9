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

const propertyColumns = "id, user_id, landlord_id, address, rent_amount, type, status, max_tenants, current_tenants, created_at, updated_at"

// propertyFields returns scan destinations in propertyColumns order.
func propertyFields(p *models.Property) []any {
	return []any{&p.ID, &p.UserID, &p.LandlordID, &p.Address, &p.RentAmount, &p.Type, &p.Status, &p.MaxTenants, &p.CurrentTenants, &p.CreatedAt, &p.UpdatedAt}
}

func (s *postgresStore) CreateProperty(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.q.Exec(ctx, query,
		property.ID,
		property.UserID,
		property.LandlordID,
		property.Address,
		property.RentAmount,
		property.Type,
		property.Status,
		property.MaxTenants,
		property.CurrentTenants,
		property.CreatedAt,
		property.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil && pgErr.Code == pgForeignKeyViolation {
			return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
		}
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (s *postgresStore) GetProperty(ctx context.Context, userID, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE user_id = $1 AND id = $2`

	var property models.Property
	err := s.q.QueryRow(ctx, query, userID, id).Scan(propertyFields(&property)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("property %s not found", id)
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}
	return &property, nil
}

func (s *postgresStore) ListProperties(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE user_id = $1 ORDER BY created_at, id`
	return s.queryProperties(ctx, query, userID)
}

func (s *postgresStore) ListPropertiesByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE user_id = $1 AND landlord_id = $2 ORDER BY created_at, id`
	return s.queryProperties(ctx, query, userID, landlordID)
}

func (s *postgresStore) queryProperties(ctx context.Context, query string, args ...any) ([]models.Property, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var property models.Property
		if err := rows.Scan(propertyFields(&property)...); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

func (s *postgresStore) UpdateProperty(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties
		SET landlord_id = $3, address = $4, rent_amount = $5, type = $6, status = $7, max_tenants = $8, updated_at = $9
		WHERE user_id = $1 AND id = $2
	`

	tag, err := s.q.Exec(ctx, query,
		property.UserID,
		property.ID,
		property.LandlordID,
		property.Address,
		property.RentAmount,
		property.Type,
		property.Status,
		property.MaxTenants,
		property.UpdatedAt,
	)
	if err != nil {
		if pgErr := pgError(err); pgErr != nil && pgErr.Code == pgForeignKeyViolation {
			return domain.Referencef("invalid %s", referencedEntity(pgErr.ConstraintName))
		}
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("property %s not found", property.ID)
	}
	return nil
}

func (s *postgresStore) DeleteProperties(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM properties WHERE user_id = $1 AND id = ANY($2)`, userID, ids); err != nil {
		return fmt.Errorf("failed to delete properties: %w", err)
	}
	return nil
}

func (s *postgresStore) PropertyIDsByLandlord(ctx context.Context, userID, landlordID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM properties WHERE user_id = $1 AND landlord_id = $2 ORDER BY created_at, id`
	return s.queryIDs(ctx, query, userID, landlordID)
}

func (s *postgresStore) RefreshPropertyTenantCount(ctx context.Context, userID, propertyID uuid.UUID) error {
	query := `
		UPDATE properties
		SET current_tenants = (
			SELECT COUNT(*) FROM tenants WHERE user_id = $1 AND property_id = $2
		)
		WHERE user_id = $1 AND id = $2
	`

	if _, err := s.q.Exec(ctx, query, userID, propertyID); err != nil {
		return fmt.Errorf("failed to refresh tenant count for property %s: %w", propertyID, err)
	}
	return nil
}

// queryIDs runs a query whose result set is a single uuid column.
func (s *postgresStore) queryIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}
	return ids, nil
}

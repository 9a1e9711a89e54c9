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

const landlordColumns = "id, user_id, full_name, email, phone, property_count, created_at, updated_at"

// landlordFields returns scan destinations in landlordColumns order.
func landlordFields(l *models.Landlord) []any {
	return []any{&l.ID, &l.UserID, &l.FullName, &l.Email, &l.Phone, &l.PropertyCount, &l.CreatedAt, &l.UpdatedAt}
}

func (s *postgresStore) CreateLandlord(ctx context.Context, landlord *models.Landlord) error {
	query := `
		INSERT INTO landlords (` + landlordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.q.Exec(ctx, query,
		landlord.ID,
		landlord.UserID,
		landlord.FullName,
		landlord.Email,
		landlord.Phone,
		landlord.PropertyCount,
		landlord.CreatedAt,
		landlord.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert landlord: %w", err)
	}
	return nil
}

func (s *postgresStore) GetLandlord(ctx context.Context, userID, id uuid.UUID) (*models.Landlord, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlords WHERE user_id = $1 AND id = $2`

	var landlord models.Landlord
	err := s.q.QueryRow(ctx, query, userID, id).Scan(landlordFields(&landlord)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("landlord %s not found", id)
		}
		return nil, fmt.Errorf("failed to query landlord %s: %w", id, err)
	}
	return &landlord, nil
}

func (s *postgresStore) ListLandlords(ctx context.Context, userID uuid.UUID) ([]models.Landlord, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlords WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := s.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query landlords: %w", err)
	}
	defer rows.Close()

	landlords := []models.Landlord{}
	for rows.Next() {
		var landlord models.Landlord
		if err := rows.Scan(landlordFields(&landlord)...); err != nil {
			return nil, fmt.Errorf("failed to scan landlord row: %w", err)
		}
		landlords = append(landlords, landlord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating landlord rows: %w", err)
	}
	return landlords, nil
}

func (s *postgresStore) UpdateLandlord(ctx context.Context, landlord *models.Landlord) error {
	query := `
		UPDATE landlords
		SET full_name = $3, email = $4, phone = $5, updated_at = $6
		WHERE user_id = $1 AND id = $2
	`

	tag, err := s.q.Exec(ctx, query,
		landlord.UserID,
		landlord.ID,
		landlord.FullName,
		landlord.Email,
		landlord.Phone,
		landlord.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update landlord %s: %w", landlord.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("landlord %s not found", landlord.ID)
	}
	return nil
}

func (s *postgresStore) DeleteLandlord(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM landlords WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete landlord %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("landlord %s not found", id)
	}
	return nil
}

func (s *postgresStore) RefreshLandlordPropertyCount(ctx context.Context, userID, landlordID uuid.UUID) error {
	query := `
		UPDATE landlords
		SET property_count = (
			SELECT COUNT(*) FROM properties WHERE user_id = $1 AND landlord_id = $2
		)
		WHERE user_id = $1 AND id = $2
	`

	if _, err := s.q.Exec(ctx, query, userID, landlordID); err != nil {
		return fmt.Errorf("failed to refresh property count for landlord %s: %w", landlordID, err)
	}
	return nil
}

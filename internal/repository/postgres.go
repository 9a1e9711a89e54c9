package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/database"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the tables and indexes the store needs. Every statement
// in the schema is idempotent, so calling this on every boot is safe.
func ApplySchema(ctx context.Context, db *database.Database) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// querier is the subset of pgx operations the store needs. It is satisfied by
// both *pgxpool.Pool and pgx.Tx, which lets every query method run unchanged
// inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresStore is the PostgreSQL-backed Store implementation. pool is nil
// when the store is a transactional view handed to a RunInTx callback.
type postgresStore struct {
	pool *pgxpool.Pool
	q    querier
}

// NewPostgres creates a Store backed by the given connection pool.
func NewPostgres(db *database.Database) Store {
	return &postgresStore{pool: db.Pool, q: db.Pool}
}

// RunInTx runs fn inside a database transaction. The store passed to fn
// issues all its queries on that transaction, so everything fn does commits
// or rolls back as one unit.
func (s *postgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		// Already inside a transaction; reuse it.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&postgresStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PostgreSQL error codes the store translates into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgError unwraps err into a *pgconn.PgError, or nil if it is not one.
func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// referencedEntity extracts the referenced entity name from a foreign-key
// constraint name such as "properties_landlord_id_fkey".
func referencedEntity(constraint string) string {
	name := strings.TrimSuffix(constraint, "_id_fkey")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// prefixed qualifies every column in a comma-separated list with a table
// alias, for use in join queries.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

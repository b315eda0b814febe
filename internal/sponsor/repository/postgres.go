package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sponsor-platform/backend/internal/sponsor/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a sponsor repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sponsorColumns = "id, name, display_name, address1, address2, city, state, postal_code, phone, individual, status, deleted_at, created_at, updated_at"

// GetByID returns the live sponsor for id, or nil if not found or soft-deleted.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sponsorColumns+" FROM sponsors WHERE id = $1 AND deleted_at IS NULL", id)
	s, err := scanSponsor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create persists the sponsor. The sponsor must have ID set. Only the
// attribute columns are written; the validation error set never reaches storage.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Sponsor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sponsors (id, name, display_name, address1, address2, city, state, postal_code, phone, individual, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.Name, s.DisplayName, s.Address1, s.Address2, s.City, s.State,
		s.PostalCode, s.Phone, s.Individual, s.Status, s.CreatedAt, s.UpdatedAt)
	return err
}

// Update rewrites the sponsor's attribute columns. Soft-deleted rows are not touched.
func (r *PostgresRepository) Update(ctx context.Context, s *domain.Sponsor) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sponsors SET name = $1, display_name = $2, address1 = $3, address2 = $4, city = $5,
		 state = $6, postal_code = $7, phone = $8, individual = $9, status = $10, updated_at = $11
		 WHERE id = $12 AND deleted_at IS NULL`,
		s.Name, s.DisplayName, s.Address1, s.Address2, s.City, s.State,
		s.PostalCode, s.Phone, s.Individual, s.Status, s.UpdatedAt, s.ID)
	return err
}

// SoftDelete marks the sponsor deleted at the given time. The row remains.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sponsors SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		at, id)
	return err
}

func scanSponsor(row *sql.Row) (*domain.Sponsor, error) {
	var s domain.Sponsor
	var deletedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.Name, &s.DisplayName, &s.Address1, &s.Address2, &s.City,
		&s.State, &s.PostalCode, &s.Phone, &s.Individual, &s.Status, &deletedAt,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		s.DeletedAt = &t
	}
	return &s, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"sponsor-platform/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = "id, email, first_name, last_name, address1, address2, city, state, postal_code, phone, password_hash, status, created_at, updated_at"

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByEmail returns the user for email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

// Create persists the user. The user must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	hash := sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, address1, address2, city, state, postal_code, phone, password_hash, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.Email, u.FirstName, u.LastName, u.Address1, u.Address2, u.City,
		u.State, u.PostalCode, u.Phone, hash, u.Status, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *PostgresRepository) getWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	var u domain.User
	var hash sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Address1, &u.Address2,
		&u.City, &u.State, &u.PostalCode, &u.Phone, &hash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if hash.Valid {
		u.PasswordHash = hash.String
	}
	return &u, nil
}

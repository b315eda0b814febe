package repository

import (
	"context"
	"database/sql"
	"errors"

	"sponsor-platform/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const memberColumns = "id, sponsor_id, user_id, role, created_at, updated_at"

// GetBySponsorAndUser returns the membership for the given sponsor and user, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetBySponsorAndUser(ctx context.Context, sponsorID, userID string) (*domain.SponsorMember, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM sponsor_members WHERE sponsor_id = $1 AND user_id = $2",
		sponsorID, userID)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListBySponsor returns all memberships for the given sponsor, oldest first.
func (r *PostgresRepository) ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.SponsorMember, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM sponsor_members WHERE sponsor_id = $1 ORDER BY created_at",
		sponsorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

// ListBySponsorAndRole returns memberships for the given sponsor holding exactly role, oldest first.
func (r *PostgresRepository) ListBySponsorAndRole(ctx context.Context, sponsorID string, role domain.Role) ([]*domain.SponsorMember, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM sponsor_members WHERE sponsor_id = $1 AND role = $2 ORDER BY created_at",
		sponsorID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMembers(rows)
}

// Create persists the membership. The membership must have ID set. The
// UNIQUE(sponsor_id, user_id) constraint rejects duplicate pairs.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.SponsorMember) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sponsor_members (id, sponsor_id, user_id, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		m.ID, m.SponsorID, m.UserID, m.Role, m.CreatedAt, m.UpdatedAt)
	return err
}

// UpdateRole sets the role for the (sponsor, user) membership and returns the
// updated record, or nil if no membership exists.
func (r *PostgresRepository) UpdateRole(ctx context.Context, sponsorID, userID string, role domain.Role) (*domain.SponsorMember, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE sponsor_members SET role = $1, updated_at = now() WHERE sponsor_id = $2 AND user_id = $3 RETURNING "+memberColumns,
		role, sponsorID, userID)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.SponsorMember, error) {
	var m domain.SponsorMember
	if err := row.Scan(&m.ID, &m.SponsorID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMembers(rows *sql.Rows) ([]*domain.SponsorMember, error) {
	var out []*domain.SponsorMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

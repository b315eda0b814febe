package repository

import (
	"context"
	"database/sql"
	"errors"

	"sponsor-platform/backend/internal/policy/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a policy repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const policyColumns = "id, sponsor_id, name, rules, enabled, created_at, updated_at"

// GetByID returns the policy for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Policy, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+policyColumns+" FROM policies WHERE id = $1", id)
	p, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListBySponsor returns all policies for the given sponsor. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error) {
	return r.listWhere(ctx, "sponsor_id = $1", sponsorID)
}

// GetEnabledPoliciesBySponsor returns the enabled policies for the given sponsor.
func (r *PostgresRepository) GetEnabledPoliciesBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error) {
	return r.listWhere(ctx, "sponsor_id = $1 AND enabled", sponsorID)
}

// Create persists the policy to the database. The policy must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Policy) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO policies (id, sponsor_id, name, rules, enabled, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		p.ID, p.SponsorID, p.Name, p.Rules, p.Enabled, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update updates the existing policy record. Returns an error if the update fails.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Policy) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE policies SET name = $1, rules = $2, enabled = $3, updated_at = now() WHERE id = $4",
		p.Name, p.Rules, p.Enabled, p.ID)
	return err
}

// Delete removes the policy record. Missing policies are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM policies WHERE id = $1", id)
	return err
}

func (r *PostgresRepository) listWhere(ctx context.Context, where string, arg any) ([]*domain.Policy, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+policyColumns+" FROM policies WHERE "+where+" ORDER BY created_at", arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*domain.Policy, error) {
	var p domain.Policy
	if err := row.Scan(&p.ID, &p.SponsorID, &p.Name, &p.Rules, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

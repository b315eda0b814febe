package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sponsor-platform/backend/internal/rbac/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an authority repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateRole persists the role. The role must have ID and Name set; names are unique.
func (r *PostgresRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	scope := sql.NullString{String: role.SponsorID, Valid: role.SponsorID != ""}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO roles (id, name, sponsor_id, created_at) VALUES ($1, $2, $3, $4)",
		role.ID, role.Name, scope, role.CreatedAt)
	return err
}

// GetRoleByName returns the role with the given name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, sponsor_id, created_at FROM roles WHERE name = $1", name)
	var role domain.Role
	var scope sql.NullString
	if err := row.Scan(&role.ID, &role.Name, &scope, &role.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if scope.Valid {
		role.SponsorID = scope.String
	}
	return &role, nil
}

// DeleteRoleByName deletes the role record; its permission and user
// assignments go with it (ON DELETE CASCADE). Missing roles are a no-op.
func (r *PostgresRepository) DeleteRoleByName(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE name = $1", name)
	return err
}

// CreatePermission persists the permission. The permission must have ID and Name set; names are unique.
func (r *PostgresRepository) CreatePermission(ctx context.Context, p *domain.Permission) error {
	scope := sql.NullString{String: p.SponsorID, Valid: p.SponsorID != ""}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO permissions (id, name, label, sponsor_id, created_at) VALUES ($1, $2, $3, $4, $5)",
		p.ID, p.Name, p.Label, scope, p.CreatedAt)
	return err
}

// GetPermissionByName returns the permission with the given name, or nil if not found.
func (r *PostgresRepository) GetPermissionByName(ctx context.Context, name string) (*domain.Permission, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, label, sponsor_id, created_at FROM permissions WHERE name = $1", name)
	var p domain.Permission
	var scope sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Label, &scope, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if scope.Valid {
		p.SponsorID = scope.String
	}
	return &p, nil
}

// DeletePermissionByName deletes the permission record and its role
// assignments (ON DELETE CASCADE). Missing permissions are a no-op.
func (r *PostgresRepository) DeletePermissionByName(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM permissions WHERE name = $1", name)
	return err
}

// SyncRolePermissions replaces the role's permission set with exactly
// permissionIDs. Runs in one transaction so readers never observe a
// partially-synced set.
func (r *PostgresRepository) SyncRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM permission_role WHERE role_id = $1", roleID); err != nil {
		return fmt.Errorf("sync role permissions: %w", err)
	}
	for _, pid := range permissionIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO permission_role (permission_id, role_id) VALUES ($1, $2)", pid, roleID); err != nil {
			return fmt.Errorf("sync role permissions: %w", err)
		}
	}
	return tx.Commit()
}

// ListPermissionIDsByRole returns the permission ids currently assigned to the role.
func (r *PostgresRepository) ListPermissionIDsByRole(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT permission_id FROM permission_role WHERE role_id = $1", roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

// AttachRoleToUser assigns the role to the user's account. Already-attached
// pairs are a no-op.
func (r *PostgresRepository) AttachRoleToUser(ctx context.Context, roleID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO role_user (role_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		roleID, userID)
	return err
}

// DetachRoleFromUser removes the role from the user's account. Missing
// assignments are a no-op.
func (r *PostgresRepository) DetachRoleFromUser(ctx context.Context, roleID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM role_user WHERE role_id = $1 AND user_id = $2", roleID, userID)
	return err
}

// ListRoleNamesByUser returns the names of every authority role attached to the user.
func (r *PostgresRepository) ListRoleNamesByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.name FROM roles r JOIN role_user ru ON ru.role_id = r.id WHERE ru.user_id = $1 ORDER BY r.name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

package repository

import (
	"context"

	"sponsor-platform/backend/internal/rbac/domain"
)

// Repository defines persistence for the role/permission authority:
// role and permission records, the role→permission assignment, and the
// user→role assignment.
type Repository interface {
	CreateRole(ctx context.Context, r *domain.Role) error
	GetRoleByName(ctx context.Context, name string) (*domain.Role, error)
	DeleteRoleByName(ctx context.Context, name string) error

	CreatePermission(ctx context.Context, p *domain.Permission) error
	GetPermissionByName(ctx context.Context, name string) (*domain.Permission, error)
	DeletePermissionByName(ctx context.Context, name string) error

	// SyncRolePermissions replaces the role's permission set with exactly
	// permissionIDs, independent of prior state.
	SyncRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error
	ListPermissionIDsByRole(ctx context.Context, roleID string) ([]string, error)

	AttachRoleToUser(ctx context.Context, roleID, userID string) error
	DetachRoleFromUser(ctx context.Context, roleID, userID string) error
	ListRoleNamesByUser(ctx context.Context, userID string) ([]string, error)
}

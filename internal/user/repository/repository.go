package repository

import (
	"context"

	"sponsor-platform/backend/internal/user/domain"
)

// Repository defines persistence for the user directory.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

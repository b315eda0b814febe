package repository

import (
	"context"

	"sponsor-platform/backend/internal/policy/domain"
)

// Repository defines persistence for policies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Policy, error)
	ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error)
	GetEnabledPoliciesBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error)
	Create(ctx context.Context, p *domain.Policy) error
	Update(ctx context.Context, p *domain.Policy) error
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"sponsor-platform/backend/internal/membership/domain"
)

// Repository defines persistence for sponsor memberships.
type Repository interface {
	GetBySponsorAndUser(ctx context.Context, sponsorID, userID string) (*domain.SponsorMember, error)
	ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.SponsorMember, error)
	ListBySponsorAndRole(ctx context.Context, sponsorID string, role domain.Role) ([]*domain.SponsorMember, error)
	Create(ctx context.Context, m *domain.SponsorMember) error
	UpdateRole(ctx context.Context, sponsorID, userID string, role domain.Role) (*domain.SponsorMember, error)
}

package repository

import (
	"context"
	"time"

	"sponsor-platform/backend/internal/sponsor/domain"
)

// Repository defines persistence for sponsors. Soft-deleted sponsors are
// invisible to lookups; rows are never physically removed here.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Sponsor, error)
	Create(ctx context.Context, s *domain.Sponsor) error
	Update(ctx context.Context, s *domain.Sponsor) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

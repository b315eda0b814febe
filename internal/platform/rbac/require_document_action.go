// Package rbac provides authorization helpers that join the membership
// roster with the policy engine for application-wide checks.
package rbac

import (
	"context"
	"errors"
	"fmt"

	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	"sponsor-platform/backend/internal/policy/engine"
	sponsordomain "sponsor-platform/backend/internal/sponsor/domain"
)

// ErrNotMember is returned when the user has no membership in the sponsor.
var ErrNotMember = errors.New("not a member of this sponsor")

// ErrActionForbidden is returned when policy denies the document action.
var ErrActionForbidden = errors.New("document action not permitted")

// SponsorMembershipGetter returns a user's membership in a sponsor. Used by
// RequireDocumentAction to resolve the caller's role.
type SponsorMembershipGetter interface {
	GetBySponsorAndUser(ctx context.Context, sponsorID, userID string) (*membershipdomain.SponsorMember, error)
}

// RequireDocumentAction ensures the user is a member of the sponsor and that
// policy allows the document action for the member's role. Returns nil on
// success; ErrNotMember or ErrActionForbidden on denial.
func RequireDocumentAction(
	ctx context.Context,
	getter SponsorMembershipGetter,
	evaluator engine.Evaluator,
	sponsorID, userID string,
	action sponsordomain.DocumentAction,
) error {
	m, err := getter.GetBySponsorAndUser(ctx, sponsorID, userID)
	if err != nil {
		return fmt.Errorf("resolve membership: %w", err)
	}
	if m == nil {
		return ErrNotMember
	}
	allowed, err := evaluator.EvaluateDocumentAccess(ctx, sponsorID, m.Role, action)
	if err != nil {
		return fmt.Errorf("evaluate policy: %w", err)
	}
	if !allowed {
		return ErrActionForbidden
	}
	return nil
}

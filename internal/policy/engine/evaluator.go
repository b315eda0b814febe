package engine

import (
	"context"

	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	sponsordomain "sponsor-platform/backend/internal/sponsor/domain"
)

// Evaluator decides document-access policy using OPA or other engines.
type Evaluator interface {
	// EvaluateDocumentAccess reports whether a member holding role in the
	// given sponsor may perform action on documents. Sponsor-level enabled
	// policies override the built-in default.
	EvaluateDocumentAccess(
		ctx context.Context,
		sponsorID string,
		role membershipdomain.Role,
		action sponsordomain.DocumentAction,
	) (bool, error)
}

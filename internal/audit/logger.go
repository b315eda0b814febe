package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"sponsor-platform/backend/internal/audit/domain"
	auditrepo "sponsor-platform/backend/internal/audit/repository"
)

// SentinelSponsorID is the sponsor_id used for audit events that have no sponsor.
const SentinelSponsorID = "_system"

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, sponsorID, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, sponsorID, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	if sponsorID == "" {
		sponsorID = SentinelSponsorID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		SponsorID: sponsorID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}

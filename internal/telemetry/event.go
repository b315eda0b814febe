// Package telemetry defines the event type and emitter interface used for
// best-effort operational telemetry (OTel Logs, Kafka, Loki).
package telemetry

import "time"

// Severity levels carried on events. Validation failures are emitted at
// SeverityError; everything else defaults to SeverityInfo.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Well-known event types emitted by the sponsor service.
const (
	EventSponsorSaved            = "sponsor.saved"
	EventSponsorValidationFailed = "sponsor.validation_failed"
	EventMemberAdded             = "sponsor.member_added"
	EventRbacProvisioned         = "sponsor.rbac_provisioned"
	EventRbacDestroyed           = "sponsor.rbac_destroyed"
)

// Event is a single telemetry event. It is serialized as JSON for Kafka and
// parsed back by the Loki worker, so the field tags are part of the wire format.
type Event struct {
	SponsorID string    `json:"sponsorId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	EventType string    `json:"eventType"`
	Source    string    `json:"source,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEvent returns an Event with CreatedAt set to now and severity defaulted to info.
func NewEvent(sponsorID, userID, eventType string) *Event {
	return &Event{
		SponsorID: sponsorID,
		UserID:    userID,
		EventType: eventType,
		Source:    "backend",
		Severity:  SeverityInfo,
		CreatedAt: time.Now().UTC(),
	}
}

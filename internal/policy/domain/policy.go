package domain

import "time"

// Policy is a sponsor-level document-access policy written in Rego.
// Enabled policies override the built-in default for that sponsor.
type Policy struct {
	ID        string
	SponsorID string
	Name      string
	Rules     string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

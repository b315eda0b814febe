// Package domain holds the role/permission authority records used for
// authorization checks application-wide. The authority is sponsor-agnostic;
// sponsor scoping is carried by the name convention and, redundantly, by
// the SponsorID column for indexed lookups.
package domain

import "time"

// Role is a named authority role (e.g. sponsor_42_owner).
type Role struct {
	ID        string
	Name      string
	SponsorID string // empty for roles not scoped to a sponsor
	CreatedAt time.Time
}

// Permission is a named authority permission with a display label
// (e.g. sponsor_42_create_document, "Create Documents").
type Permission struct {
	ID        string
	Name      string
	Label     string
	SponsorID string // empty for permissions not scoped to a sponsor
	CreatedAt time.Time
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// SponsorMember links a user to a sponsor with an assigned role.
// At most one record exists per (sponsor, user) pair.
type SponsorMember struct {
	ID        string
	SponsorID string
	UserID    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleStaff  Role = "staff"
)

// ErrInvalidRole is returned when a role string is not owner, editor, or staff.
var ErrInvalidRole = errors.New("invalid sponsor role")

// Roles returns all valid sponsor roles in a stable order.
func Roles() []Role {
	return []Role{RoleOwner, RoleEditor, RoleStaff}
}

// ParseRole lowercases s and validates it against the known sponsor roles.
// Returns ErrInvalidRole for anything else. There is no role hierarchy:
// owner does not imply editor.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(s)) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleStaff:
		return RoleStaff, nil
	}
	return "", ErrInvalidRole
}

// Validate validates the member record for persistence.
func (m *SponsorMember) Validate() error {
	if m.SponsorID == "" {
		return errors.New("sponsor id is required")
	}
	if m.UserID == "" {
		return errors.New("user id is required")
	}
	if _, err := ParseRole(string(m.Role)); err != nil {
		return err
	}
	return nil
}

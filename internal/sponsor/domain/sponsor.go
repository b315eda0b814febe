// Package domain holds the Sponsor entity: an organization or individual
// that owns documents and has a membership roster.
package domain

import (
	"fmt"
	"time"

	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	"sponsor-platform/backend/internal/validation"
)

// Sponsor is an organization (or an individual acting alone) that owns
// documents. DeletedAt is a soft-delete marker; nil means live.
type Sponsor struct {
	ID          string
	Name        string
	DisplayName string
	Address1    string
	Address2    string
	City        string
	State       string
	PostalCode  string
	Phone       string
	Individual  bool
	Status      Status
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// errs is the transient validation error set from the last failed
	// validation. Never persisted.
	errs validation.Errors
}

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

// GetDisplayName returns DisplayName, falling back to Name, then "".
func (s *Sponsor) GetDisplayName() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// IsActive reports whether the sponsor status is active.
func (s *Sponsor) IsActive() bool {
	return s.Status == StatusActive
}

// IsDeleted reports whether the sponsor has been soft-deleted.
func (s *Sponsor) IsDeleted() bool {
	return s.DeletedAt != nil
}

// RoleID lowercases and validates role, then returns the sponsor-scoped
// authority role name (sponsor_{id}_{role}). Returns ErrInvalidRole for
// anything outside owner/editor/staff.
func (s *Sponsor) RoleID(role string) (string, error) {
	r, err := membershipdomain.ParseRole(role)
	if err != nil {
		return "", err
	}
	return RoleName(s.ID, r), nil
}

// SetErrors replaces the sponsor's validation error set.
func (s *Sponsor) SetErrors(errs validation.Errors) {
	s.errs = errs
}

// GetErrors returns the validation error set from the last failed
// validation, or nil.
func (s *Sponsor) GetErrors() validation.Errors {
	return s.errs
}

// Fields returns the sponsor's validatable attribute set, keyed by the
// persisted column names. The validation error set is not part of it.
func (s *Sponsor) Fields() map[string]string {
	return map[string]string{
		"name":         s.Name,
		"display_name": s.DisplayName,
		"address1":     s.Address1,
		"address2":     s.Address2,
		"city":         s.City,
		"state":        s.State,
		"postal_code":  s.PostalCode,
		"phone":        s.Phone,
	}
}

// ApplyFields sets known attributes from the given field map. Unknown keys
// are ignored. Used to merge caller-supplied overrides.
func (s *Sponsor) ApplyFields(fields map[string]string) {
	for k, v := range fields {
		switch k {
		case "name":
			s.Name = v
		case "display_name":
			s.DisplayName = v
		case "address1":
			s.Address1 = v
		case "address2":
			s.Address2 = v
		case "city":
			s.City = v
		case "state":
			s.State = v
		case "postal_code":
			s.PostalCode = v
		case "phone":
			s.Phone = v
		case "status":
			s.Status = Status(v)
		}
	}
}

// RequiredFieldRules is the fixed validation rule set applied before every save.
func RequiredFieldRules() map[string]string {
	return map[string]string{
		"name":         "required",
		"address1":     "required",
		"city":         "required",
		"state":        "required",
		"postal_code":  "required",
		"phone":        "required",
		"display_name": "required",
	}
}

// ValidationMessages returns the per-field messages reported on validation failure.
func ValidationMessages() map[string]string {
	return map[string]string{
		"name":         "A sponsor name is required.",
		"address1":     "A street address is required.",
		"city":         "A city is required.",
		"state":        "A state is required.",
		"postal_code":  "A postal code is required.",
		"phone":        "A phone number is required.",
		"display_name": "A display name is required.",
	}
}

// DocumentAction is a document capability granted through sponsor-scoped permissions.
type DocumentAction string

const (
	ActionCreate DocumentAction = "create"
	ActionEdit   DocumentAction = "edit"
	ActionDelete DocumentAction = "delete"
	ActionManage DocumentAction = "manage"
)

// DocumentActions returns all document actions in a stable order.
func DocumentActions() []DocumentAction {
	return []DocumentAction{ActionCreate, ActionEdit, ActionDelete, ActionManage}
}

// RoleName returns the sponsor-scoped authority role name for role.
// The sponsor id is encoded in the name; the authority itself is sponsor-agnostic.
func RoleName(sponsorID string, role membershipdomain.Role) string {
	return fmt.Sprintf("sponsor_%s_%s", sponsorID, role)
}

// PermissionName returns the sponsor-scoped authority permission name for a document action.
func PermissionName(sponsorID string, action DocumentAction) string {
	return fmt.Sprintf("sponsor_%s_%s_document", sponsorID, action)
}

// PermissionLabel returns the human-readable display label for a document action permission.
func PermissionLabel(action DocumentAction) string {
	switch action {
	case ActionCreate:
		return "Create Documents"
	case ActionEdit:
		return "Edit Documents"
	case ActionDelete:
		return "Delete Documents"
	case ActionManage:
		return "Manage Documents"
	}
	return string(action)
}

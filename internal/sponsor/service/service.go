// Package service implements sponsor lifecycle operations: validated saves,
// membership management, and sponsor-scoped role/permission provisioning.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"sponsor-platform/backend/internal/audit"
	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	membershiprepo "sponsor-platform/backend/internal/membership/repository"
	"sponsor-platform/backend/internal/platform/keylock"
	rbacdomain "sponsor-platform/backend/internal/rbac/domain"
	rbacrepo "sponsor-platform/backend/internal/rbac/repository"
	"sponsor-platform/backend/internal/sponsor/domain"
	sponsorrepo "sponsor-platform/backend/internal/sponsor/repository"
	"sponsor-platform/backend/internal/telemetry"
	userdomain "sponsor-platform/backend/internal/user/domain"
	userrepo "sponsor-platform/backend/internal/user/repository"
	"sponsor-platform/backend/internal/validation"
)

var (
	// ErrMissingSponsorID is returned when an operation needs a persisted
	// sponsor id and none was given.
	ErrMissingSponsorID = errors.New("sponsor: sponsor id is required")

	// ErrMissingRole is returned when AddMember creates a membership without a role.
	ErrMissingRole = errors.New("sponsor: role is required for a new member")

	// ErrMemberNotFound is returned by IsSponsorOwner and GetMemberRole when
	// the user has no membership for the sponsor.
	ErrMemberNotFound = errors.New("sponsor: member not found")

	// ErrValidationFailed is returned when a save was aborted by validation.
	// The field errors are available via the sponsor's GetErrors.
	ErrValidationFailed = errors.New("sponsor: validation failed")

	// ErrUserNotFound is returned when a referenced user does not exist in the directory.
	ErrUserNotFound = errors.New("sponsor: user not found")
)

// Service orchestrates sponsor persistence, membership, and the sponsor-scoped
// role/permission authority. Provisioning and teardown for one sponsor are
// serialized through a per-sponsor lock.
type Service struct {
	sponsorRepo    sponsorrepo.Repository
	membershipRepo membershiprepo.Repository
	userRepo       userrepo.Repository
	rbacRepo       rbacrepo.Repository
	validator      *validation.Service
	auditLogger    audit.AuditLogger
	emitter        telemetry.EventEmitter

	provisionLocks *keylock.KeyLock
}

// NewService returns a sponsor service. auditLogger and emitter may be nil;
// audit and telemetry are best-effort.
func NewService(
	sponsorRepo sponsorrepo.Repository,
	membershipRepo membershiprepo.Repository,
	userRepo userrepo.Repository,
	rbacRepo rbacrepo.Repository,
	validator *validation.Service,
	auditLogger audit.AuditLogger,
	emitter telemetry.EventEmitter,
) *Service {
	return &Service{
		sponsorRepo:    sponsorRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		rbacRepo:       rbacRepo,
		validator:      validator,
		auditLogger:    auditLogger,
		emitter:        emitter,
		provisionLocks: keylock.New(),
	}
}

// FindByID returns the sponsor for id, or nil if not found or soft-deleted.
func (s *Service) FindByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	return s.sponsorRepo.GetByID(ctx, id)
}

// Save validates sp against the required-field rules and persists it. On
// validation failure nothing is persisted: the field errors are stored on sp,
// logged at error severity with the raw attributes, and (false, nil) is
// returned. Store errors are returned unchanged.
func (s *Service) Save(ctx context.Context, sp *domain.Sponsor) (bool, error) {
	ok, errs := s.validator.Validate(sp.Fields(), domain.RequiredFieldRules(), domain.ValidationMessages())
	if !ok {
		sp.SetErrors(errs)
		log.Printf("ERROR sponsor: save aborted, validation failed: %s; attributes: %v", errs, sp.Fields())
		ev := telemetry.NewEvent(sp.ID, "", telemetry.EventSponsorValidationFailed)
		ev.Severity = telemetry.SeverityError
		ev.Metadata = errs.String()
		telemetry.EmitAsync(s.emitter, ctx, ev)
		return false, nil
	}
	sp.SetErrors(nil)

	now := time.Now().UTC()
	action := "update"
	if sp.ID == "" {
		sp.ID = uuid.New().String()
		sp.CreatedAt = now
		sp.UpdatedAt = now
		if sp.Status == "" {
			sp.Status = domain.StatusPending
		}
		action = "create"
		if err := s.sponsorRepo.Create(ctx, sp); err != nil {
			return false, err
		}
	} else {
		sp.UpdatedAt = now
		if err := s.sponsorRepo.Update(ctx, sp); err != nil {
			return false, err
		}
	}

	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, sp.ID, "", action, "sponsor", sp.GetDisplayName())
	}
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(sp.ID, "", telemetry.EventSponsorSaved))
	return true, nil
}

// Delete soft-deletes the sponsor. The row is kept with a deletion timestamp
// and becomes invisible to lookups.
func (s *Service) Delete(ctx context.Context, sponsorID string) error {
	if sponsorID == "" {
		return ErrMissingSponsorID
	}
	if err := s.sponsorRepo.SoftDelete(ctx, sponsorID, time.Now().UTC()); err != nil {
		return err
	}
	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, sponsorID, "", "delete", "sponsor", "")
	}
	return nil
}

// FindMemberByUserID returns the membership record for (sponsorID, userID),
// or nil if the user is not a member.
func (s *Service) FindMemberByUserID(ctx context.Context, sponsorID, userID string) (*membershipdomain.SponsorMember, error) {
	if sponsorID == "" {
		return nil, ErrMissingSponsorID
	}
	return s.membershipRepo.GetBySponsorAndUser(ctx, sponsorID, userID)
}

// UserHasRole reports whether the user holds exactly the given role for the
// sponsor. There is no hierarchy: owner does not satisfy an editor check.
func (s *Service) UserHasRole(ctx context.Context, sponsorID, userID, role string) (bool, error) {
	m, err := s.FindMemberByUserID(ctx, sponsorID, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return string(m.Role) == strings.ToLower(role), nil
}

// IsSponsorOwner reports whether the user's membership role is owner.
// Returns ErrMemberNotFound when the user has no membership.
func (s *Service) IsSponsorOwner(ctx context.Context, sponsorID, userID string) (bool, error) {
	role, err := s.GetMemberRole(ctx, sponsorID, userID)
	if err != nil {
		return false, err
	}
	return role == membershipdomain.RoleOwner, nil
}

// GetMemberRole returns the user's membership role for the sponsor.
// Returns ErrMemberNotFound when the user has no membership.
func (s *Service) GetMemberRole(ctx context.Context, sponsorID, userID string) (membershipdomain.Role, error) {
	m, err := s.FindMemberByUserID(ctx, sponsorID, userID)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrMemberNotFound
	}
	return m.Role, nil
}

// AddMember upserts the membership for (sponsorID, userID). For a new member,
// role is required. For an existing member, a non-empty role replaces the
// current one and an empty role leaves it unchanged; either way the record is
// re-persisted so updated_at advances.
func (s *Service) AddMember(ctx context.Context, sponsorID, userID, role string) (*membershipdomain.SponsorMember, error) {
	if sponsorID == "" {
		return nil, ErrMissingSponsorID
	}
	existing, err := s.membershipRepo.GetBySponsorAndUser(ctx, sponsorID, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if role == "" {
			return nil, ErrMissingRole
		}
		r, err := membershipdomain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		m := &membershipdomain.SponsorMember{
			ID:        uuid.New().String(),
			SponsorID: sponsorID,
			UserID:    userID,
			Role:      r,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.membershipRepo.Create(ctx, m); err != nil {
			return nil, err
		}
		if s.auditLogger != nil {
			s.auditLogger.LogEvent(ctx, sponsorID, userID, "add_member", "membership", string(r))
		}
		telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(sponsorID, userID, telemetry.EventMemberAdded))
		return m, nil
	}

	next := existing.Role
	if role != "" {
		r, err := membershipdomain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		next = r
	}
	updated, err := s.membershipRepo.UpdateRole(ctx, sponsorID, userID, next)
	if err != nil {
		return nil, err
	}
	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, sponsorID, userID, "update_member", "membership", string(next))
	}
	return updated, nil
}

// FindUsersByRole returns every resolvable user holding the given role for the
// sponsor. An invalid role yields an empty result, not an error. Members whose
// user record no longer exists are skipped.
func (s *Service) FindUsersByRole(ctx context.Context, sponsorID, role string) ([]*userdomain.User, error) {
	r, err := membershipdomain.ParseRole(role)
	if err != nil {
		return nil, nil
	}
	members, err := s.membershipRepo.ListBySponsorAndRole(ctx, sponsorID, r)
	if err != nil {
		return nil, err
	}
	users := make([]*userdomain.User, 0, len(members))
	for _, m := range members {
		u, err := s.userRepo.GetByID(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// UserCanCreateDocument reports whether the user holds the owner or editor
// role for the sponsor. Staff and non-members cannot create documents.
func (s *Service) UserCanCreateDocument(ctx context.Context, sponsorID, userID string) (bool, error) {
	m, err := s.FindMemberByUserID(ctx, sponsorID, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	return m.Role == membershipdomain.RoleOwner || m.Role == membershipdomain.RoleEditor, nil
}

// CreateIndividualSponsor builds a sponsor from the user's profile, marks it
// individual with pending status, merges overrides (overrides win), saves it,
// and adds the user as owner. Empty profile fields default to a single space
// so the fixed required-field rules pass for sparse profiles.
// Returns ErrValidationFailed with the sponsor (carrying its field errors)
// when an override blanks a required field.
func (s *Service) CreateIndividualSponsor(ctx context.Context, userID string, overrides map[string]string) (*domain.Sponsor, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	sp := &domain.Sponsor{
		Name:        orSpace(u.FullName()),
		DisplayName: orSpace(u.FullName()),
		Address1:    orSpace(u.Address1),
		Address2:    orSpace(u.Address2),
		City:        orSpace(u.City),
		State:       orSpace(u.State),
		PostalCode:  orSpace(u.PostalCode),
		Phone:       orSpace(u.Phone),
		Individual:  true,
		Status:      domain.StatusPending,
	}
	sp.ApplyFields(overrides)

	ok, err := s.Save(ctx, sp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sp, ErrValidationFailed
	}
	if _, err := s.AddMember(ctx, sp.ID, userID, string(membershipdomain.RoleOwner)); err != nil {
		return nil, err
	}
	return sp, nil
}

// orSpace returns v, or a single space when v is empty.
func orSpace(v string) string {
	if v == "" {
		return " "
	}
	return v
}

// editorActions is the permission set assigned to the editor role. Editors may
// not delete documents.
var editorActions = []domain.DocumentAction{domain.ActionCreate, domain.ActionEdit, domain.ActionManage}

// CreateRbacRules provisions the sponsor-scoped authority roles and
// permissions: owner gets all four document permissions, editor gets
// create/edit/manage, staff gets none, and each current member is attached to
// the authority role matching their membership role. Any prior sponsor-scoped
// state is torn down first, so the call is idempotent by reconstruction.
// Calls for the same sponsor are serialized by a per-sponsor lock.
func (s *Service) CreateRbacRules(ctx context.Context, sponsorID string) error {
	if sponsorID == "" {
		return ErrMissingSponsorID
	}
	unlock := s.provisionLocks.Lock(sponsorID)
	defer unlock()

	if err := s.destroyRbacRulesLocked(ctx, sponsorID); err != nil {
		return err
	}

	now := time.Now().UTC()

	permIDs := make(map[domain.DocumentAction]string, len(domain.DocumentActions()))
	for _, action := range domain.DocumentActions() {
		p := &rbacdomain.Permission{
			ID:        uuid.New().String(),
			Name:      domain.PermissionName(sponsorID, action),
			Label:     domain.PermissionLabel(action),
			SponsorID: sponsorID,
			CreatedAt: now,
		}
		if err := s.rbacRepo.CreatePermission(ctx, p); err != nil {
			return err
		}
		permIDs[action] = p.ID
	}

	rolePerms := map[membershipdomain.Role][]string{
		membershipdomain.RoleOwner:  permissionIDs(permIDs, domain.DocumentActions()),
		membershipdomain.RoleEditor: permissionIDs(permIDs, editorActions),
		membershipdomain.RoleStaff:  nil,
	}

	for _, role := range membershipdomain.Roles() {
		r := &rbacdomain.Role{
			ID:        uuid.New().String(),
			Name:      domain.RoleName(sponsorID, role),
			SponsorID: sponsorID,
			CreatedAt: now,
		}
		if err := s.rbacRepo.CreateRole(ctx, r); err != nil {
			return err
		}
		if err := s.rbacRepo.SyncRolePermissions(ctx, r.ID, rolePerms[role]); err != nil {
			return err
		}
		users, err := s.FindUsersByRole(ctx, sponsorID, string(role))
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := s.rbacRepo.AttachRoleToUser(ctx, r.ID, u.ID); err != nil {
				return err
			}
		}
	}

	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, sponsorID, "", "provision_rbac", "rbac", "")
	}
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(sponsorID, "", telemetry.EventRbacProvisioned))
	return nil
}

// DestroyRbacRules removes the sponsor-scoped authority roles and permissions.
// For each existing role, current members are detached before the role record
// is deleted; permission records are deleted afterwards. Missing roles,
// permissions, and user records are skipped.
func (s *Service) DestroyRbacRules(ctx context.Context, sponsorID string) error {
	if sponsorID == "" {
		return ErrMissingSponsorID
	}
	unlock := s.provisionLocks.Lock(sponsorID)
	defer unlock()

	if err := s.destroyRbacRulesLocked(ctx, sponsorID); err != nil {
		return err
	}

	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, sponsorID, "", "destroy_rbac", "rbac", "")
	}
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(sponsorID, "", telemetry.EventRbacDestroyed))
	return nil
}

// destroyRbacRulesLocked does the teardown work. Caller holds the sponsor lock.
func (s *Service) destroyRbacRulesLocked(ctx context.Context, sponsorID string) error {
	members, err := s.membershipRepo.ListBySponsor(ctx, sponsorID)
	if err != nil {
		return err
	}
	for _, role := range membershipdomain.Roles() {
		name := domain.RoleName(sponsorID, role)
		r, err := s.rbacRepo.GetRoleByName(ctx, name)
		if err != nil {
			return err
		}
		if r == nil {
			continue
		}
		for _, m := range members {
			if err := s.rbacRepo.DetachRoleFromUser(ctx, r.ID, m.UserID); err != nil {
				return err
			}
		}
		if err := s.rbacRepo.DeleteRoleByName(ctx, name); err != nil {
			return err
		}
	}
	for _, action := range domain.DocumentActions() {
		name := domain.PermissionName(sponsorID, action)
		p, err := s.rbacRepo.GetPermissionByName(ctx, name)
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		if err := s.rbacRepo.DeletePermissionByName(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func permissionIDs(ids map[domain.DocumentAction]string, actions []domain.DocumentAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, ids[a])
	}
	return out
}

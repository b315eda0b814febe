package engine

import (
	"context"
	"errors"
	"testing"

	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	"sponsor-platform/backend/internal/policy/domain"
	"sponsor-platform/backend/internal/policy/repository"
	sponsordomain "sponsor-platform/backend/internal/sponsor/domain"
)

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	// HealthCheck does not use the policy repo.
	e := NewOPAEvaluator(nil)
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

// mockPolicyRepo implements repository.Repository for tests.
type mockPolicyRepo struct {
	policies map[string][]*domain.Policy
	err      error
}

var _ repository.Repository = (*mockPolicyRepo)(nil)

func (m *mockPolicyRepo) GetByID(ctx context.Context, id string) (*domain.Policy, error) {
	return nil, nil
}

func (m *mockPolicyRepo) ListBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error) {
	return nil, nil
}

func (m *mockPolicyRepo) GetEnabledPoliciesBySponsor(ctx context.Context, sponsorID string) ([]*domain.Policy, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.policies == nil {
		return nil, nil
	}
	return m.policies[sponsorID], nil
}

func (m *mockPolicyRepo) Create(ctx context.Context, p *domain.Policy) error { return nil }

func (m *mockPolicyRepo) Update(ctx context.Context, p *domain.Policy) error { return nil }

func (m *mockPolicyRepo) Delete(ctx context.Context, id string) error { return nil }

func TestOPAEvaluator_DefaultPolicy(t *testing.T) {
	e := NewOPAEvaluator(&mockPolicyRepo{policies: map[string][]*domain.Policy{}})
	ctx := context.Background()

	testCases := []struct {
		role   membershipdomain.Role
		action sponsordomain.DocumentAction
		want   bool
	}{
		{membershipdomain.RoleOwner, sponsordomain.ActionCreate, true},
		{membershipdomain.RoleOwner, sponsordomain.ActionEdit, true},
		{membershipdomain.RoleOwner, sponsordomain.ActionDelete, true},
		{membershipdomain.RoleOwner, sponsordomain.ActionManage, true},
		{membershipdomain.RoleEditor, sponsordomain.ActionCreate, true},
		{membershipdomain.RoleEditor, sponsordomain.ActionEdit, true},
		{membershipdomain.RoleEditor, sponsordomain.ActionDelete, false},
		{membershipdomain.RoleEditor, sponsordomain.ActionManage, true},
		{membershipdomain.RoleStaff, sponsordomain.ActionCreate, false},
		{membershipdomain.RoleStaff, sponsordomain.ActionEdit, false},
		{membershipdomain.RoleStaff, sponsordomain.ActionDelete, false},
		{membershipdomain.RoleStaff, sponsordomain.ActionManage, false},
	}
	for _, tc := range testCases {
		t.Run(string(tc.role)+"_"+string(tc.action), func(t *testing.T) {
			got, err := e.EvaluateDocumentAccess(ctx, "sponsor-1", tc.role, tc.action)
			if err != nil {
				t.Fatalf("EvaluateDocumentAccess: %v", err)
			}
			if got != tc.want {
				t.Errorf("allow(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
			}
		})
	}
}

func TestOPAEvaluator_SponsorOverridePolicy(t *testing.T) {
	// Override grants staff create access for this sponsor only.
	override := `package sponsorplatform.document_access

default allow = false

allow if {
	input.role == "staff"
	input.action == "create"
}
`
	repo := &mockPolicyRepo{policies: map[string][]*domain.Policy{
		"sponsor-1": {{ID: "p1", SponsorID: "sponsor-1", Rules: override, Enabled: true}},
	}}
	e := NewOPAEvaluator(repo)
	ctx := context.Background()

	got, err := e.EvaluateDocumentAccess(ctx, "sponsor-1", membershipdomain.RoleStaff, sponsordomain.ActionCreate)
	if err != nil {
		t.Fatalf("EvaluateDocumentAccess: %v", err)
	}
	if !got {
		t.Error("override policy should allow staff create")
	}

	// The override replaces the default entirely: owner is no longer allowed.
	got, err = e.EvaluateDocumentAccess(ctx, "sponsor-1", membershipdomain.RoleOwner, sponsordomain.ActionCreate)
	if err != nil {
		t.Fatalf("EvaluateDocumentAccess: %v", err)
	}
	if got {
		t.Error("override policy should not carry the default owner grant")
	}

	// Other sponsors keep the default.
	got, err = e.EvaluateDocumentAccess(ctx, "sponsor-2", membershipdomain.RoleOwner, sponsordomain.ActionCreate)
	if err != nil {
		t.Fatalf("EvaluateDocumentAccess: %v", err)
	}
	if !got {
		t.Error("sponsor without overrides should use the default policy")
	}
}

func TestOPAEvaluator_RepoErrorFallsBackToDefault(t *testing.T) {
	e := NewOPAEvaluator(&mockPolicyRepo{err: errors.New("db down")})
	got, err := e.EvaluateDocumentAccess(context.Background(), "sponsor-1", membershipdomain.RoleOwner, sponsordomain.ActionManage)
	if err != nil {
		t.Fatalf("EvaluateDocumentAccess: %v", err)
	}
	if !got {
		t.Error("default policy should apply when loading sponsor policies fails")
	}
}

func TestOPAEvaluator_InvalidPolicyRules(t *testing.T) {
	repo := &mockPolicyRepo{policies: map[string][]*domain.Policy{
		"sponsor-1": {{ID: "p1", SponsorID: "sponsor-1", Rules: "not valid rego {", Enabled: true}},
	}}
	e := NewOPAEvaluator(repo)
	if _, err := e.EvaluateDocumentAccess(context.Background(), "sponsor-1", membershipdomain.RoleOwner, sponsordomain.ActionCreate); err == nil {
		t.Error("EvaluateDocumentAccess should surface compile errors for broken sponsor policies")
	}
}

package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	membershipdomain "sponsor-platform/backend/internal/membership/domain"
	"sponsor-platform/backend/internal/policy/repository"
	sponsordomain "sponsor-platform/backend/internal/sponsor/domain"
)

// Default Rego policy encoding the flat sponsor role model: owners hold
// every document capability, editors everything but delete, staff nothing.
const defaultRegoPolicy = `package sponsorplatform.document_access

default allow = false

allow if {
	input.role == "owner"
}

allow if {
	input.role == "editor"
	input.action != "delete"
}
`

const allowQuery = "data.sponsorplatform.document_access.allow"

// OPAEvaluator evaluates document-access policies using OPA Rego.
type OPAEvaluator struct {
	policyRepo repository.Repository
}

// NewOPAEvaluator returns an OPA-based policy evaluator. policyRepo may be
// nil; then only the default policy is used.
func NewOPAEvaluator(policyRepo repository.Repository) *OPAEvaluator {
	return &OPAEvaluator{policyRepo: policyRepo}
}

// HealthCheck verifies that the in-process OPA Rego engine can compile and
// evaluate the default policy. Does not call the policy repo or database.
// Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	modules := map[string]string{"policy_0.rego": defaultRegoPolicy}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return fmt.Errorf("compile default policy: %w", err)
	}
	q := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(compiler),
		rego.Input(map[string]interface{}{"role": "owner", "action": "create"}),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval default policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

// EvaluateDocumentAccess evaluates document-access policy using OPA Rego policies.
func (e *OPAEvaluator) EvaluateDocumentAccess(
	ctx context.Context,
	sponsorID string,
	role membershipdomain.Role,
	action sponsordomain.DocumentAction,
) (bool, error) {
	input := map[string]interface{}{
		"sponsor_id": sponsorID,
		"role":       string(role),
		"action":     string(action),
	}

	// Load enabled policies for the sponsor
	var policies []string
	if e.policyRepo != nil && sponsorID != "" {
		enabled, err := e.policyRepo.GetEnabledPoliciesBySponsor(ctx, sponsorID)
		if err != nil {
			log.Printf("policy: failed to load policies for sponsor %s: %v", sponsorID, err)
		} else {
			for _, p := range enabled {
				if p.Enabled && p.Rules != "" {
					policies = append(policies, p.Rules)
				}
			}
		}
	}

	// Use the default policy if no sponsor policies exist
	if len(policies) == 0 {
		policies = []string{defaultRegoPolicy}
	}

	allow, err := e.evaluatePolicies(ctx, policies, input)
	if err != nil {
		return false, fmt.Errorf("evaluate document access: %w", err)
	}
	return allow, nil
}

func (e *OPAEvaluator) evaluatePolicies(ctx context.Context, policies []string, input map[string]interface{}) (bool, error) {
	modules := make(map[string]string)
	for i, policy := range policies {
		modules[fmt.Sprintf("policy_%d.rego", i)] = policy
	}

	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return false, fmt.Errorf("compile policies: %w", err)
	}

	q := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval policies: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, nil
	}
	return v, nil
}

// Package validation validates dynamic field sets against named rules,
// producing per-field human-readable error messages.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to its ordered list of validation messages.
// It is transient request-scoped data and is never persisted.
type Errors map[string][]string

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// String renders the error set as "field: msg; field: msg" for log output.
func (e Errors) String() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], ", ")))
	}
	return strings.Join(parts, "; ")
}

// Service validates field maps using go-playground/validator rules
// (e.g. "required", "required,max=64").
type Service struct {
	validate *validator.Validate
}

// NewService returns a validation service with a fresh validator instance.
func NewService() *Service {
	return &Service{validate: validator.New()}
}

// Validate checks fields against rules. messages supplies a custom message per
// field; fields without one get a generic message naming the failed rule.
// Returns (true, nil) when every rule passes.
func (s *Service) Validate(fields map[string]string, rules map[string]string, messages map[string]string) (bool, Errors) {
	if len(rules) == 0 {
		return true, nil
	}

	data := make(map[string]interface{}, len(rules))
	ruleSet := make(map[string]interface{}, len(rules))
	for field, rule := range rules {
		data[field] = fields[field]
		ruleSet[field] = rule
	}

	failures := s.validate.ValidateMap(data, ruleSet)
	if len(failures) == 0 {
		return true, nil
	}

	errs := make(Errors, len(failures))
	for field, raw := range failures {
		if custom, ok := messages[field]; ok && custom != "" {
			errs[field] = append(errs[field], custom)
			continue
		}
		if verrs, ok := raw.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs[field] = append(errs[field], genericMessage(field, fe.Tag()))
			}
			continue
		}
		errs[field] = append(errs[field], genericMessage(field, "valid"))
	}
	return false, errs
}

func genericMessage(field, tag string) string {
	if tag == "required" {
		return fmt.Sprintf("The %s field is required.", field)
	}
	return fmt.Sprintf("The %s field must be %s.", field, tag)
}

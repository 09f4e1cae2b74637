package policy

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// contractDrift compares route claims against recorded API contracts: a
// claim whose context implies an HTTP method the contract does not record
// is drifting from the verified interface.
type contractDrift struct {
	cfg model.RuleToggle
}

func newContractDrift(cfg model.RuleToggle) *contractDrift {
	return &contractDrift{cfg: cfg}
}

func (r *contractDrift) Name() string { return "ContractDrift" }

func (r *contractDrift) Description() string {
	return "warns when a route is used with a method the recorded API contract does not allow"
}

func (r *contractDrift) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	var drifted []string
	var first *model.Claim

	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeAPIEndpoint {
			continue
		}
		ev, ok := pctx.EvidenceFor(claim.ID)
		if !ok || !ev.Found || ev.Details == nil {
			continue
		}
		recorded := contractMethods(ev.Details)
		if len(recorded) == 0 {
			continue
		}
		hint := methodFromContext(claim.Context)
		if hint == "" {
			continue
		}
		if !contains(recorded, hint) {
			drifted = append(drifted, fmt.Sprintf("%s %s (contract allows %s)",
				hint, claim.Value, strings.Join(recorded, "/")))
			if first == nil {
				first = &pctx.Claims[i]
			}
		}
	}

	if len(drifted) == 0 {
		return nil
	}
	return &model.PolicyViolation{
		Policy:     r.Name(),
		Severity:   severityOr(r.cfg.Severity, model.SeverityWarning),
		Message:    "method drift from recorded contract: " + strings.Join(drifted, "; "),
		Claim:      first,
		Suggestion: "use a method the contract records, or refresh the truthpack contracts scan",
	}
}

// contractMethods pulls the recorded method list out of evidence details.
// Details come back as []any after a cache round-trip through JSON.
func contractMethods(details map[string]any) []string {
	switch v := details["contract_methods"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, m := range v {
			if s, ok := m.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func methodFromContext(context string) string {
	m := methodHint.FindStringSubmatch(context)
	if len(m) < 2 {
		return ""
	}
	return strings.ToUpper(m[1])
}

func contains(values []string, wanted string) bool {
	for _, v := range values {
		if strings.EqualFold(v, wanted) {
			return true
		}
	}
	return false
}

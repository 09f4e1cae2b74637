package policy

import (
	"fmt"

	"github.com/ppiankov/truthgate/internal/model"
)

// authDrift watches for auth posture weakening: bypass constructs in claim
// contexts, auth-related imports the truthpack cannot verify, and bypass
// constructs in content next to route claims that carry no auth evidence.
type authDrift struct {
	cfg model.RuleToggle
}

func newAuthDrift(cfg model.RuleToggle) *authDrift {
	return &authDrift{cfg: cfg}
}

func (r *authDrift) Name() string { return "AuthDrift" }

func (r *authDrift) Description() string {
	return "warns when a change weakens authentication relative to the verified auth configuration"
}

func (r *authDrift) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	// Bypass construct in any claim context
	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if matched, ok := matchesAuthBypass(claim.Context); ok {
			return r.violation(
				fmt.Sprintf("suspicious auth bypass pattern %q near %s", matched, claim.Value),
				&pctx.Claims[i],
			)
		}
	}

	// Auth-related import the truthpack cannot verify
	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeImport && claim.Type != model.ClaimTypePackageDependency {
			continue
		}
		ev, ok := pctx.EvidenceFor(claim.ID)
		if !ok || ev.Source != model.SourceAuth || ev.Found {
			continue
		}
		return r.violation(
			fmt.Sprintf("auth-related import %q does not match any verified auth provider", claim.Value),
			&pctx.Claims[i],
		)
	}

	// Bypass construct anywhere in content while a route claim has no auth
	// evidence
	matched, ok := matchesAuthBypass(pctx.Content)
	if !ok {
		return nil
	}
	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeAPIEndpoint {
			continue
		}
		ev, found := pctx.EvidenceFor(claim.ID)
		unprotected := !found || !ev.Found
		if !unprotected && ev.Details != nil {
			if auth, _ := ev.Details["auth"].(string); auth == "" {
				unprotected = true
			}
		}
		if unprotected {
			return r.violation(
				fmt.Sprintf("auth bypass pattern %q appears alongside route %s which has no auth evidence", matched, claim.Value),
				&pctx.Claims[i],
			)
		}
	}
	return nil
}

func (r *authDrift) violation(message string, claim *model.Claim) *model.PolicyViolation {
	return &model.PolicyViolation{
		Policy:     r.Name(),
		Severity:   severityOr(r.cfg.Severity, model.SeverityWarning),
		Message:    message,
		Claim:      claim,
		Suggestion: "confirm the auth change is intentional and matches the recorded auth configuration",
	}
}

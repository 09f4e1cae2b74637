package policy

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// ghostEnv flags env_variable claims with no supporting evidence.
// Builtin runtime variables and allow-listed names are exempt.
type ghostEnv struct {
	cfg      model.GhostEnvConfig
	builtins map[string]bool
	failOpen bool
}

func newGhostEnv(cfg model.GhostEnvConfig, failOpen bool) *ghostEnv {
	builtins := make(map[string]bool, len(cfg.Builtins))
	for _, name := range cfg.Builtins {
		builtins[name] = true
	}
	return &ghostEnv{cfg: cfg, builtins: builtins, failOpen: failOpen}
}

func (r *ghostEnv) Name() string { return "GhostEnv" }

func (r *ghostEnv) Description() string {
	return "blocks references to environment variables that are not declared anywhere in the project"
}

func (r *ghostEnv) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	var missing []string
	var first *model.Claim

	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeEnvVariable {
			continue
		}
		if r.builtins[claim.Value] {
			continue
		}
		if allowMatch(r.cfg.AllowList, claim.Value) {
			continue
		}

		ev, ok := pctx.EvidenceFor(claim.ID)
		if !ok {
			continue
		}
		if ev.Source == model.SourceUnavailable && r.failOpen {
			continue
		}
		if ev.Found {
			continue
		}
		missing = append(missing, claim.Value)
		if first == nil {
			first = &pctx.Claims[i]
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return &model.PolicyViolation{
		Policy:   r.Name(),
		Severity: severityOr(r.cfg.Severity, model.SeverityError),
		Message: fmt.Sprintf("environment variable %s is not declared in the project",
			strings.Join(missing, ", ")),
		Claim: first,
		Suggestion: fmt.Sprintf("add %s to .env.example and refresh the truthpack env scan",
			strings.Join(missing, ", ")),
	}
}

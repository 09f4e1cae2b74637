package policy

import (
	"fmt"

	"github.com/ppiankov/truthgate/internal/model"
)

// scopeExplosion flags a claim set touching far more surface than the
// declared intent scope allows. Surface is the number of distinct routes,
// imports, dependencies, and env variables the change references.
type scopeExplosion struct {
	cfg model.ScopeExplosionConfig
}

func newScopeExplosion(cfg model.ScopeExplosionConfig) *scopeExplosion {
	return &scopeExplosion{cfg: cfg}
}

func (r *scopeExplosion) Name() string { return "ScopeExplosion" }

func (r *scopeExplosion) Description() string {
	return "warns when a change references far more surface than its declared scope"
}

func (r *scopeExplosion) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	if pctx.Intent == nil {
		return nil
	}
	limit := r.cfg.MaxSurfaces[string(pctx.Intent.Scope)]
	if limit <= 0 {
		return nil
	}

	surfaces := make(map[string]bool)
	var first *model.Claim
	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		switch claim.Type {
		case model.ClaimTypeAPIEndpoint, model.ClaimTypeImport,
			model.ClaimTypePackageDependency, model.ClaimTypeEnvVariable:
			surfaces[string(claim.Type)+":"+claim.Value] = true
			if first == nil {
				first = &pctx.Claims[i]
			}
		}
	}

	if len(surfaces) <= limit {
		return nil
	}
	return &model.PolicyViolation{
		Policy:   r.Name(),
		Severity: severityOr(r.cfg.Severity, model.SeverityWarning),
		Message: fmt.Sprintf("change touches %d distinct surfaces but declares %q scope (limit %d)",
			len(surfaces), pctx.Intent.Scope, limit),
		Claim:      first,
		Suggestion: "split the change, or declare a broader intent scope",
	}
}

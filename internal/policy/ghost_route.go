package policy

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// ghostRoute flags api_endpoint claims with no supporting evidence.
// External URLs and paths outside the configured API prefixes are exempt,
// as are allow-listed values.
type ghostRoute struct {
	cfg      model.GhostRouteConfig
	failOpen bool
}

func newGhostRoute(cfg model.GhostRouteConfig, failOpen bool) *ghostRoute {
	return &ghostRoute{cfg: cfg, failOpen: failOpen}
}

func (r *ghostRoute) Name() string { return "GhostRoute" }

func (r *ghostRoute) Description() string {
	return "blocks references to routes that do not exist in the verified route table"
}

func (r *ghostRoute) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	var missing []string
	var first *model.Claim

	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeAPIEndpoint {
			continue
		}
		if strings.HasPrefix(claim.Value, "http://") || strings.HasPrefix(claim.Value, "https://") {
			continue
		}
		if allowMatch(r.cfg.AllowList, claim.Value) {
			continue
		}
		if len(r.cfg.APIPrefixes) > 0 && !hasAnyPrefix(claim.Value, r.cfg.APIPrefixes) {
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
		Message: fmt.Sprintf("route %s not found in truthpack (%d unverified route reference(s))",
			strings.Join(missing, ", "), len(missing)),
		Claim:      first,
		Suggestion: "verify the route exists in the backend, or refresh the truthpack routes scan",
	}
}

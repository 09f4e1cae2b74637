package policy

import (
	"strings"
	"testing"

	"github.com/ppiankov/truthgate/internal/model"
)

func TestGhostRouteMissingEvidence(t *testing.T) {
	r := newGhostRoute(defaultRules().GhostRoute, false)

	claims := []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: "/api/admin/reports"},
	}
	evidence := []model.Evidence{
		{ClaimID: "claim-001", Found: false, Source: model.SourceRoutes},
	}

	v := r.Evaluate(pctx(claims, evidence))
	if v == nil {
		t.Fatal("unverified route should produce a violation")
	}
	if v.Severity != model.SeverityError {
		t.Errorf("severity = %q, want error", v.Severity)
	}
	if !strings.Contains(v.Message, "/api/admin/reports") {
		t.Errorf("message = %q, want the route path", v.Message)
	}
	if v.Claim == nil || v.Claim.ID != "claim-001" {
		t.Errorf("claim = %+v, want the offending claim attached", v.Claim)
	}
}

func TestGhostRouteVerifiedEvidence(t *testing.T) {
	r := newGhostRoute(defaultRules().GhostRoute, false)

	claims := []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: "/api/users"},
	}
	evidence := []model.Evidence{
		{ClaimID: "claim-001", Found: true, Source: model.SourceRoutes},
	}

	if v := r.Evaluate(pctx(claims, evidence)); v != nil {
		t.Errorf("verified route produced a violation: %+v", v)
	}
}

func TestGhostRouteExemptions(t *testing.T) {
	cfg := defaultRules().GhostRoute
	cfg.AllowList = append(cfg.AllowList, "/api/legacy*")
	r := newGhostRoute(cfg, false)

	tests := []struct {
		name  string
		value string
	}{
		{"external url", "https://api.stripe.com/v1/charges"},
		{"allow-listed prefix", "/api/legacy/v0/orders"},
		{"outside api prefixes", "/static/logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := []model.Claim{
				{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: tt.value},
			}
			evidence := []model.Evidence{
				{ClaimID: "claim-001", Found: false, Source: model.SourceRoutes},
			}
			if v := r.Evaluate(pctx(claims, evidence)); v != nil {
				t.Errorf("exempt value %q produced a violation: %+v", tt.value, v)
			}
		})
	}
}

func TestGhostRouteAggregatesIntoOneViolation(t *testing.T) {
	r := newGhostRoute(defaultRules().GhostRoute, false)

	claims := []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: "/api/ghost/one"},
		{ID: "claim-002", Type: model.ClaimTypeAPIEndpoint, Value: "/api/ghost/two"},
	}
	evidence := []model.Evidence{
		{ClaimID: "claim-001", Found: false, Source: model.SourceRoutes},
		{ClaimID: "claim-002", Found: false, Source: model.SourceRoutes},
	}

	v := r.Evaluate(pctx(claims, evidence))
	if v == nil {
		t.Fatal("expected one aggregated violation")
	}
	if !strings.Contains(v.Message, "/api/ghost/one") || !strings.Contains(v.Message, "/api/ghost/two") {
		t.Errorf("message = %q, want both routes mentioned", v.Message)
	}
	if v.Claim == nil || v.Claim.ID != "claim-001" {
		t.Errorf("claim = %+v, want the first offending claim", v.Claim)
	}
}

func TestGhostRouteFailOpen(t *testing.T) {
	claims := []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: "/api/users"},
	}
	evidence := []model.Evidence{
		{ClaimID: "claim-001", Found: false, Source: model.SourceUnavailable},
	}

	// Fail-closed (default): store failure still blocks
	closed := newGhostRoute(defaultRules().GhostRoute, false)
	if v := closed.Evaluate(pctx(claims, evidence)); v == nil {
		t.Error("fail-closed should flag routes the store could not verify")
	}

	// Fail-open: store failure is forgiven
	open := newGhostRoute(defaultRules().GhostRoute, true)
	if v := open.Evaluate(pctx(claims, evidence)); v != nil {
		t.Errorf("fail-open flagged an unavailable lookup: %+v", v)
	}
}

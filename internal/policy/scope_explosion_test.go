package policy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/truthgate/internal/model"
)

func surfaceClaims(n int) []model.Claim {
	claims := make([]model.Claim, n)
	for i := range claims {
		claims[i] = model.Claim{
			ID:    fmt.Sprintf("claim-%03d", i+1),
			Type:  model.ClaimTypeAPIEndpoint,
			Value: fmt.Sprintf("/api/surface/%d", i),
		}
	}
	return claims
}

func TestScopeExplosionOverLimit(t *testing.T) {
	r := newScopeExplosion(defaultRules().ScopeExplosion)

	p := pctx(surfaceClaims(6), nil)
	p.Intent = &model.Intent{Scope: model.ScopeFunction} // limit 5

	v := r.Evaluate(p)
	if v == nil {
		t.Fatal("6 surfaces against a function-scoped intent should produce a violation")
	}
	if v.Severity != model.SeverityWarning {
		t.Errorf("severity = %q, want warning", v.Severity)
	}
	if !strings.Contains(v.Message, "6 distinct surfaces") {
		t.Errorf("message = %q, want the surface count", v.Message)
	}
}

func TestScopeExplosionWithinLimit(t *testing.T) {
	r := newScopeExplosion(defaultRules().ScopeExplosion)

	p := pctx(surfaceClaims(5), nil)
	p.Intent = &model.Intent{Scope: model.ScopeFunction}

	if v := r.Evaluate(p); v != nil {
		t.Errorf("5 surfaces at the function limit produced a violation: %+v", v)
	}
}

func TestScopeExplosionCountsDistinctSurfaces(t *testing.T) {
	r := newScopeExplosion(defaultRules().ScopeExplosion)

	// Six claims, but only three distinct type:value surfaces
	claims := []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeAPIEndpoint, Value: "/api/users"},
		{ID: "claim-002", Type: model.ClaimTypeAPIEndpoint, Value: "/api/users"},
		{ID: "claim-003", Type: model.ClaimTypeEnvVariable, Value: "DATABASE_URL"},
		{ID: "claim-004", Type: model.ClaimTypeEnvVariable, Value: "DATABASE_URL"},
		{ID: "claim-005", Type: model.ClaimTypePackageDependency, Value: "express"},
		{ID: "claim-006", Type: model.ClaimTypeFunctionCall, Value: "eval"}, // Not a surface
	}
	p := pctx(claims, nil)
	p.Intent = &model.Intent{Scope: model.ScopeFunction}

	if v := r.Evaluate(p); v != nil {
		t.Errorf("3 distinct surfaces produced a violation: %+v", v)
	}
}

func TestScopeExplosionNoIntent(t *testing.T) {
	r := newScopeExplosion(defaultRules().ScopeExplosion)

	if v := r.Evaluate(pctx(surfaceClaims(50), nil)); v != nil {
		t.Errorf("missing intent should skip the rule, got %+v", v)
	}
}

func TestScopeExplosionUnknownScope(t *testing.T) {
	r := newScopeExplosion(defaultRules().ScopeExplosion)

	p := pctx(surfaceClaims(50), nil)
	p.Intent = &model.Intent{Scope: model.IntentScope("galaxy")}

	if v := r.Evaluate(p); v != nil {
		t.Errorf("unconfigured scope should skip the rule, got %+v", v)
	}
}

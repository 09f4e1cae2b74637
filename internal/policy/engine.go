// Package policy evaluates configured rules over extracted claims and
// resolved evidence. Rules are independent: every enabled rule always runs,
// violations from all rules are collected before any decision is made, and
// a rule that panics is converted into an info violation instead of
// aborting the remaining rules.
package policy

import (
	"fmt"

	"github.com/ppiankov/truthgate/internal/model"
)

// Rule is one named, configurable check. Evaluate returns at most one
// violation per call; when several claims match, a rule reports the first
// and aggregates the affected values into the message.
type Rule interface {
	Name() string
	Description() string
	Evaluate(pctx *model.PolicyContext) *model.PolicyViolation
}

// Engine holds an ordered rule set built once from configuration.
// No global registry: the set is explicit per instance and testable.
type Engine struct {
	rules []Rule
}

// NewEngine builds the full rule set in fixed evaluation order
func NewEngine(cfg *model.Config) *Engine {
	rc := cfg.Rules
	failOpen := cfg.Evidence.FailOpen

	var rules []Rule
	if rc.GhostRoute.Enabled {
		rules = append(rules, newGhostRoute(rc.GhostRoute, failOpen))
	}
	if rc.GhostEnv.Enabled {
		rules = append(rules, newGhostEnv(rc.GhostEnv, failOpen))
	}
	if rc.AuthDrift.Enabled {
		rules = append(rules, newAuthDrift(rc.AuthDrift))
	}
	if rc.ContractDrift.Enabled {
		rules = append(rules, newContractDrift(rc.ContractDrift))
	}
	if rc.ScopeExplosion.Enabled {
		rules = append(rules, newScopeExplosion(rc.ScopeExplosion))
	}
	if rc.UnsafeSideEffect.Enabled {
		rules = append(rules, newUnsafeSideEffect(rc.UnsafeSideEffect))
	}
	return &Engine{rules: rules}
}

// NewQuickEngine builds the minimal high-severity subset used by
// latency-sensitive call sites (editor hooks): ghost detection plus
// dangerous constructs, nothing else.
func NewQuickEngine(cfg *model.Config) *Engine {
	rc := cfg.Rules
	failOpen := cfg.Evidence.FailOpen

	var rules []Rule
	if rc.GhostRoute.Enabled {
		rules = append(rules, newGhostRoute(rc.GhostRoute, failOpen))
	}
	if rc.GhostEnv.Enabled {
		rules = append(rules, newGhostEnv(rc.GhostEnv, failOpen))
	}
	if rc.UnsafeSideEffect.Enabled {
		rules = append(rules, newUnsafeSideEffect(rc.UnsafeSideEffect))
	}
	return &Engine{rules: rules}
}

// Rules exposes the configured rule names in evaluation order
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Evaluate runs every rule and collects all non-nil violations.
// There is no early exit on the first error: multiple unrelated violations
// are valuable to surface together.
func (e *Engine) Evaluate(pctx *model.PolicyContext) []model.PolicyViolation {
	violations := make([]model.PolicyViolation, 0)
	for _, rule := range e.rules {
		if v := safeEvaluate(rule, pctx); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

// safeEvaluate converts a rule panic into a synthetic info violation
// naming the failing rule
func safeEvaluate(rule Rule, pctx *model.PolicyContext) (violation *model.PolicyViolation) {
	defer func() {
		if r := recover(); r != nil {
			violation = &model.PolicyViolation{
				Policy:   rule.Name(),
				Severity: model.SeverityInfo,
				Message:  fmt.Sprintf("rule %s failed internally: %v", rule.Name(), r),
			}
		}
	}()
	return rule.Evaluate(pctx)
}

// severityOr returns the configured override or the rule default
func severityOr(override, fallback model.Severity) model.Severity {
	if override == "" {
		return fallback
	}
	return override
}

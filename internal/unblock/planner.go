// Package unblock derives an ordered remediation plan from a violation
// list. The plan is purely derivational: following it should make the same
// request pass re-evaluation. No I/O.
package unblock

import (
	"fmt"
	"sort"

	"github.com/ppiankov/truthgate/internal/model"
)

// severityOrder puts blocking problems first in the plan
var severityOrder = map[model.Severity]int{
	model.SeverityError:   0,
	model.SeverityWarning: 1,
	model.SeverityInfo:    2,
}

// BuildPlan converts violations into ordered remediation steps.
// Returns nil when there is nothing to fix.
func BuildPlan(violations []model.PolicyViolation) *model.UnblockPlan {
	if len(violations) == 0 {
		return nil
	}

	// Stable order: errors first, then by policy name, preserving input
	// order inside a bucket so plans stay deterministic.
	indexed := make([]int, len(violations))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		va, vb := violations[indexed[a]], violations[indexed[b]]
		if severityOrder[va.Severity] != severityOrder[vb.Severity] {
			return severityOrder[va.Severity] < severityOrder[vb.Severity]
		}
		return false
	})

	steps := make([]model.UnblockStep, 0, len(violations))
	for order, idx := range indexed {
		v := violations[idx]
		step := model.UnblockStep{
			Order:  order + 1,
			Action: actionFor(v),
			Policy: v.Policy,
		}
		if v.Claim != nil {
			step.ClaimID = v.Claim.ID
		}
		steps = append(steps, step)
	}
	return &model.UnblockPlan{Steps: steps}
}

// actionFor templates one remediation action per rule, falling back to the
// violation's own suggestion
func actionFor(v model.PolicyViolation) string {
	value := ""
	if v.Claim != nil {
		value = v.Claim.Value
	}
	switch v.Policy {
	case "GhostRoute":
		if value != "" {
			return fmt.Sprintf("implement route %s in the backend (or fix the path), then re-run the truthpack routes scan", value)
		}
	case "GhostEnv":
		if value != "" {
			return fmt.Sprintf("declare %s in .env.example, then re-run the truthpack env scan", value)
		}
	case "AuthDrift":
		return "remove the auth bypass or record the auth change in the verified auth configuration"
	case "ContractDrift":
		return "align the request with the recorded API contract, or update the contract and re-scan"
	case "ScopeExplosion":
		return "split the change into smaller pieces or declare a broader intent scope"
	case "UnsafeSideEffect":
		return "replace the dangerous construct with a safe equivalent, or isolate it in test code"
	}
	if v.Suggestion != "" {
		return v.Suggestion
	}
	return "review: " + v.Message
}

package firewall

import "github.com/ppiankov/truthgate/internal/model"

// ViolationsToIssues is the sole interface exposed to remediation tooling:
// a pure mapping producing one issue per violation. The firewall never
// generates patches itself.
func ViolationsToIssues(violations []model.PolicyViolation) []model.Issue {
	issues := make([]model.Issue, 0, len(violations))
	for _, v := range violations {
		issues = append(issues, model.Issue{
			Type:     v.Policy,
			Severity: v.Severity,
			Message:  v.Message,
			Claim:    v.Claim,
		})
	}
	return issues
}

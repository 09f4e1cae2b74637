package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/truthgate/internal/model"
)

// renderReport prints one evaluation report for humans
func renderReport(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "%s  %s\n", decisionBadge(report.Decision), report.Target)

	if verbose {
		fmt.Fprintf(w, "  snapshot: %s\n", report.SnapshotID)
		fmt.Fprintf(w, "  intent:   %s/%s (confidence %.2f)\n",
			report.Intent.Intent.Type, report.Intent.Intent.Scope, report.Intent.Intent.Confidence)
		fmt.Fprintf(w, "  claims:   %d extracted\n", len(report.Claims))
	}

	for _, warning := range report.Intent.Warnings {
		fmt.Fprintf(w, "  intent warning: %s\n", warning)
	}

	for _, v := range report.Violations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Policy, v.Message)
		if v.Claim != nil && v.Claim.Line > 0 {
			fmt.Fprintf(w, "      at %s:%d\n", v.Claim.File, v.Claim.Line)
		}
		if v.Suggestion != "" {
			fmt.Fprintf(w, "      suggestion: %s\n", v.Suggestion)
		}
	}

	if report.UnblockPlan != nil && len(report.UnblockPlan.Steps) > 0 {
		fmt.Fprintf(w, "  to unblock:\n")
		for _, step := range report.UnblockPlan.Steps {
			fmt.Fprintf(w, "    %d. %s\n", step.Order, step.Action)
		}
	}

	if report.LLM != nil && report.LLM.SummaryMD != "" {
		fmt.Fprintf(w, "  advisory summary (%s/%s):\n%s\n", report.LLM.Provider, report.LLM.Model, report.LLM.SummaryMD)
	}
}

func decisionBadge(decision model.Decision) string {
	switch decision {
	case model.DecisionBlock:
		return "BLOCK"
	case model.DecisionWarn:
		return "WARN "
	default:
		return "ALLOW"
	}
}

// writeJSONReport writes a report document to path
func writeJSONReport(path string, report *model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

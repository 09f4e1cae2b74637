package model

import "time"

// Report represents the complete truthgate evaluation report for one target.
// This is the JSON document written by the check and watch commands.
type Report struct {
	Target      string    `json:"target"`       // File the candidate content came from
	Action      string    `json:"action"`       // Requested action
	EvaluatedAt time.Time `json:"evaluated_at"` // When the evaluation occurred
	SnapshotID  string    `json:"snapshot_id"`  // Truthpack digest used for evidence

	Decision   Decision          `json:"decision"`
	Mode       Mode              `json:"mode"`
	Intent     IntentValidation  `json:"intent"`
	Claims     []Claim           `json:"claims"`
	Evidence   []Evidence        `json:"evidence"`
	Violations []PolicyViolation `json:"violations"`

	UnblockPlan *UnblockPlan `json:"unblock_plan,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional advisory summary (never affects the decision)
}

// LLMSummary contains an optional LLM-generated remediation summary.
// CRITICAL: this never affects the decision or the violation list and is
// clearly separated from the deterministic pipeline output.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// NewReport assembles a report from an evaluation result
func NewReport(req FirewallRequest, mode Mode, result *FirewallResult) *Report {
	return &Report{
		Target:      req.Target,
		Action:      req.Action,
		EvaluatedAt: result.EvaluatedAt,
		SnapshotID:  result.SnapshotID,
		Decision:    result.Decision,
		Mode:        mode,
		Intent:      result.Intent,
		Claims:      result.Claims,
		Evidence:    result.Evidence,
		Violations:  result.Violations,
		UnblockPlan: result.UnblockPlan,
	}
}

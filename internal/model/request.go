package model

import "time"

// Mode selects how the firewall treats BLOCK-worthy violations
type Mode string

const (
	ModeEnforce Mode = "enforce" // Violations can block the action
	ModeObserve Mode = "observe" // Violations are computed but never block
)

// Decision is the firewall's three-valued outcome
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionWarn  Decision = "WARN"
	DecisionBlock Decision = "BLOCK"
)

// FirewallRequest describes one candidate change to evaluate
type FirewallRequest struct {
	Action    string            `json:"action"`               // e.g. "modify", "create_file"
	Target    string            `json:"target"`               // Path the change applies to
	Content   string            `json:"content"`              // Candidate text
	Context   map[string]string `json:"context,omitempty"`    // Free-form caller metadata
	SessionID string            `json:"session_id,omitempty"` // For mission/intent drift checks
}

// FirewallResult is the outcome of one evaluation
type FirewallResult struct {
	Decision    Decision          `json:"decision"`
	Violations  []PolicyViolation `json:"violations"`
	Intent      IntentValidation  `json:"intent"`
	UnblockPlan *UnblockPlan      `json:"unblock_plan,omitempty"`
	Claims      []Claim           `json:"claims"`                // Extracted claims, kept for audit
	Evidence    []Evidence        `json:"evidence"`              // One record per claim
	SnapshotID  string            `json:"snapshot_id,omitempty"` // Truthpack digest pinned for this evaluation
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

// UnblockStep is one remediation action derived from a violation
type UnblockStep struct {
	Order   int    `json:"order"`
	Action  string `json:"action"`
	Policy  string `json:"policy"`
	ClaimID string `json:"claim_id,omitempty"`
}

// UnblockPlan is an ordered list of steps that, if followed, would make
// the same request pass re-evaluation
type UnblockPlan struct {
	Steps []UnblockStep `json:"steps"`
}

// Issue is the sole outward interface for remediation tooling:
// a pure, one-per-violation mapping consumed by autofix subsystems
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Claim    *Claim   `json:"claim,omitempty"`
}

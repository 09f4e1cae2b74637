package model

// Severity indicates how serious a policy violation is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// PolicyViolation is produced by a rule evaluation. A rule returns at most
// one violation per call; when several claims match it reports the first
// and aggregates the affected values into the message.
type PolicyViolation struct {
	Policy     string   `json:"policy"`               // Rule name
	Severity   Severity `json:"severity"`             // error, warning, info
	Message    string   `json:"message"`              // Human-readable description
	Claim      *Claim   `json:"claim,omitempty"`      // Offending claim, if any
	Suggestion string   `json:"suggestion,omitempty"` // Remediation hint
}

// PolicyContext is the read-only bundle passed to every rule.
// Rules never mutate it.
type PolicyContext struct {
	Claims   []Claim    `json:"claims"`
	Evidence []Evidence `json:"evidence"`
	Intent   *Intent    `json:"intent,omitempty"`  // Validated intent, for scope checks
	Target   string     `json:"target,omitempty"`  // Candidate file path
	Content  string     `json:"content,omitempty"` // Raw candidate content, for pattern scans
}

// EvidenceFor returns the evidence record for a claim id.
// The bool is false only if the pipeline invariant was broken upstream.
func (c *PolicyContext) EvidenceFor(claimID string) (Evidence, bool) {
	for _, ev := range c.Evidence {
		if ev.ClaimID == claimID {
			return ev, true
		}
	}
	return Evidence{}, false
}

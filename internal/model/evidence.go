package model

// Evidence represents the verification result for one claim.
// Every claim gets exactly one evidence record; an unresolvable claim
// still gets a record with Found=false, never a missing record.
type Evidence struct {
	ClaimID string         `json:"claim_id"`          // Back-reference to the claim
	Found   bool           `json:"found"`             // Whether the truthpack verified the claim
	Source  EvidenceSource `json:"source,omitempty"`  // Which truthpack category resolved it
	Details map[string]any `json:"details,omitempty"` // Structured data from the truthpack (roles, methods, ...)
}

// EvidenceSource identifies the truthpack category that produced a record
type EvidenceSource string

const (
	SourceRoutes    EvidenceSource = "routes"
	SourceEnv       EvidenceSource = "env"
	SourceAuth      EvidenceSource = "auth"
	SourceContracts EvidenceSource = "contracts"

	// SourceUnavailable marks records produced while the truthpack was
	// unreachable (timeout or read failure). Ghost rules treat these as
	// not-found unless the resolver is configured fail-open.
	SourceUnavailable EvidenceSource = "unavailable"
)

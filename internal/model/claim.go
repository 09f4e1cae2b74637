package model

// Claim represents a single factual assertion extracted from candidate content
type Claim struct {
	ID         string    `json:"id"`                  // Unique within one request (deterministic ordering)
	Type       ClaimType `json:"type"`                // Category of the assertion
	Value      string    `json:"value"`               // The literal string (path, variable name, module, call)
	Context    string    `json:"context,omitempty"`   // Surrounding snippet, used for pattern matching
	File       string    `json:"file,omitempty"`      // Target file the claim came from
	Line       int       `json:"line,omitempty"`      // 1-based line in the candidate content
	Confidence float64   `json:"confidence"`          // 0-1, how unambiguous the match was
	Heuristic  string    `json:"heuristic,omitempty"` // Which extraction rule matched (e.g., "regex:process_env")
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeAPIEndpoint       ClaimType = "api_endpoint"       // Route or external URL usage
	ClaimTypeEnvVariable       ClaimType = "env_variable"       // Environment variable access
	ClaimTypeImport            ClaimType = "import"             // Local/relative import
	ClaimTypePackageDependency ClaimType = "package_dependency" // Third-party module reference
	ClaimTypeFunctionCall      ClaimType = "function_call"      // Call-expression of interest
)

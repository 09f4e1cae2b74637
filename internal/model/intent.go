package model

import "time"

// IntentType classifies the requested action
type IntentType string

const (
	IntentCreate   IntentType = "create"
	IntentModify   IntentType = "modify"
	IntentDelete   IntentType = "delete"
	IntentRefactor IntentType = "refactor"
	IntentFix      IntentType = "fix"
	IntentTest     IntentType = "test"
)

// IntentScope describes how much surface the intent declares to touch
type IntentScope string

const (
	ScopeFile     IntentScope = "file"
	ScopeFunction IntentScope = "function"
	ScopeClass    IntentScope = "class"
	ScopeModule   IntentScope = "module"
	ScopeProject  IntentScope = "project"
)

// ValidScopes enumerates the accepted scope values
var ValidScopes = []IntentScope{ScopeFile, ScopeFunction, ScopeClass, ScopeModule, ScopeProject}

// Intent is the classified action derived from a request
type Intent struct {
	Type        IntentType  `json:"type"`
	Target      string      `json:"target"`
	Scope       IntentScope `json:"scope"`
	Description string      `json:"description,omitempty"`
	Confidence  float64     `json:"confidence"`
}

// IntentValidation is the output of the intent validator.
// A malformed request produces warnings, never an error.
type IntentValidation struct {
	Valid       bool     `json:"valid"`
	Intent      Intent   `json:"intent"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// MissionStatus tracks the lifecycle of a declared intent
type MissionStatus string

const (
	MissionActive  MissionStatus = "active"
	MissionExpired MissionStatus = "expired"
)

// Mission is a session-scoped declared goal, used to detect when a new
// request's intent diverges from a previously declared one
type Mission struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Scope       IntentScope   `json:"scope"`
	Status      MissionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
}

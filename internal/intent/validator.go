// Package intent classifies what a firewall request is trying to do and
// how much surface it declares to touch, and tracks declared missions for
// cross-call drift checks.
package intent

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// actionTypes maps request actions to intent types. Unknown actions
// default to modify with reduced confidence.
var actionTypes = map[string]model.IntentType{
	"create":      model.IntentCreate,
	"create_file": model.IntentCreate,
	"add":         model.IntentCreate,
	"new":         model.IntentCreate,
	"write":       model.IntentModify,
	"modify":      model.IntentModify,
	"update":      model.IntentModify,
	"edit":        model.IntentModify,
	"change":      model.IntentModify,
	"delete":      model.IntentDelete,
	"remove":      model.IntentDelete,
	"refactor":    model.IntentRefactor,
	"fix":         model.IntentFix,
	"bugfix":      model.IntentFix,
	"patch":       model.IntentFix,
	"test":        model.IntentTest,
}

// projectFiles are target names whose change affects the whole project
var projectFiles = map[string]bool{
	"package.json":       true,
	"package-lock.json":  true,
	"go.mod":             true,
	"go.sum":             true,
	"requirements.txt":   true,
	"pyproject.toml":     true,
	"cargo.toml":         true,
	"makefile":           true,
	"dockerfile":         true,
	"docker-compose.yml": true,
	".env":               true,
	".env.example":       true,
	"tsconfig.json":      true,
}

// sourceExts are extensions inferred as single-file scope
var sourceExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".go": true, ".py": true, ".rb": true, ".java": true, ".rs": true,
	".html": true, ".htm": true, ".css": true, ".vue": true, ".svelte": true,
}

// ValidationRule is one configurable intent check
type ValidationRule struct {
	Name    string
	Check   func(model.Intent) bool
	Message string
}

// Validator derives and validates intents. Side-effect free; never panics
// on malformed requests; those produce warnings instead.
type Validator struct {
	minConfidence float64
	rules         []ValidationRule
	missions      *MissionStore // Optional; enables the scope-creep check
}

// NewValidator builds a validator with the built-in rule list.
// missions may be nil, which stubs the scope-creep heuristic to always-false.
func NewValidator(cfg model.IntentConfig, missions *MissionStore) *Validator {
	v := &Validator{
		minConfidence: cfg.MinConfidence,
		missions:      missions,
	}
	v.rules = []ValidationRule{
		{
			Name:    "target_required",
			Check:   func(i model.Intent) bool { return strings.TrimSpace(i.Target) != "" },
			Message: "request has no target path",
		},
		{
			Name: "scope_valid",
			Check: func(i model.Intent) bool {
				for _, s := range model.ValidScopes {
					if i.Scope == s {
						return true
					}
				}
				return false
			},
			Message: "intent scope is not a recognized value",
		},
		{
			Name:    "confidence_floor",
			Check:   func(i model.Intent) bool { return i.Confidence >= v.minConfidence },
			Message: fmt.Sprintf("intent confidence is below %.2f", cfg.MinConfidence),
		},
	}
	return v
}

// Validate classifies the request and runs every validation rule.
// All rules run; failures accumulate as warnings and flip Valid to false.
func (v *Validator) Validate(req model.FirewallRequest) model.IntentValidation {
	derived := v.classify(req)
	out := model.IntentValidation{Valid: true, Intent: derived}

	for _, rule := range v.rules {
		if !rule.Check(derived) {
			out.Valid = false
			out.Warnings = append(out.Warnings, rule.Message)
		}
	}

	if warning, suggestion, creep := v.scopeCreep(derived); creep {
		out.Warnings = append(out.Warnings, warning)
		out.Suggestions = append(out.Suggestions, suggestion)
	}

	return out
}

// classify maps the action and target shape onto an intent
func (v *Validator) classify(req model.FirewallRequest) model.Intent {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	confidence := 0.9

	intentType, known := actionTypes[action]
	if !known {
		intentType = model.IntentModify
		confidence = 0.5
	}
	if strings.TrimSpace(req.Target) == "" {
		confidence -= 0.3
	}
	if confidence < 0 {
		confidence = 0
	}

	return model.Intent{
		Type:        intentType,
		Target:      req.Target,
		Scope:       inferScope(req.Target),
		Description: req.Context["description"],
		Confidence:  confidence,
	}
}

// inferScope guesses scope from the target path shape
func inferScope(target string) model.IntentScope {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(target)))
	if base == "" || base == "." {
		return model.ScopeModule
	}
	if projectFiles[base] {
		return model.ScopeProject
	}
	if sourceExts[strings.ToLower(filepath.Ext(base))] {
		return model.ScopeFile
	}
	return model.ScopeModule
}

// scopeRank orders scopes narrowest to broadest
func scopeRank(scope model.IntentScope) int {
	switch scope {
	case model.ScopeFunction:
		return 1
	case model.ScopeClass:
		return 2
	case model.ScopeFile:
		return 3
	case model.ScopeModule:
		return 4
	case model.ScopeProject:
		return 5
	default:
		return 0
	}
}

// scopeCreep compares the intent against declared missions. Without a
// mission store (or with no active mission) it is always false.
func (v *Validator) scopeCreep(derived model.Intent) (string, string, bool) {
	if v.missions == nil {
		return "", "", false
	}
	for _, mission := range v.missions.Active() {
		if scopeRank(derived.Scope) > scopeRank(mission.Scope) {
			warning := fmt.Sprintf(
				"intent scope %q exceeds the declared mission scope %q (%s)",
				derived.Scope, mission.Scope, mission.Description,
			)
			suggestion := "narrow the change to the declared mission, or declare a broader mission first"
			return warning, suggestion, true
		}
	}
	return "", "", false
}

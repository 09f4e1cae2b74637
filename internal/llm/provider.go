// Package llm generates optional advisory summaries of evaluation
// reports. The summary is produced AFTER the decision, never feeds back
// into it, and failures degrade to a warning; the deterministic pipeline
// does not depend on this package.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates an advisory summary of an evaluation report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest contains the input for advisory summarization
type SummarizeRequest struct {
	// Report is the evaluation report to summarize
	Report model.Report

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated summary
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// NewProvider creates a provider from configuration. An empty provider
// name disables summarization and returns (nil, nil).
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.Provider)
	}
}

// BuildPrompt renders the violation set into the summarization prompt.
// Only facts already present in the report go in; the model is asked to
// explain remediation, not to re-judge the decision.
func BuildPrompt(report model.Report) string {
	var b strings.Builder
	b.WriteString("Summarize the following code-change policy report for a developer.\n")
	b.WriteString("Explain, briefly and concretely, what was flagged and how to fix it.\n")
	b.WriteString("Do not dispute the decision and do not invent routes, variables, or files.\n\n")
	fmt.Fprintf(&b, "Target: %s\nDecision: %s\n\n", report.Target, report.Decision)

	if len(report.Violations) == 0 {
		b.WriteString("No violations.\n")
		return b.String()
	}
	b.WriteString("Violations:\n")
	for _, v := range report.Violations {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", v.Severity, v.Policy, v.Message)
		if v.Suggestion != "" {
			fmt.Fprintf(&b, "  suggestion: %s\n", v.Suggestion)
		}
	}
	if report.UnblockPlan != nil {
		b.WriteString("\nRemediation steps:\n")
		for _, s := range report.UnblockPlan.Steps {
			fmt.Fprintf(&b, "%d. %s\n", s.Order, s.Action)
		}
	}
	return b.String()
}

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/truthgate/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(model.LLMConfig{})
	if err != nil {
		t.Fatalf("empty provider name should disable, got error: %v", err)
	}
	if provider != nil {
		t.Errorf("provider = %+v, want nil when disabled", provider)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Fatal("unknown provider name should error")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Fatal("openai provider without an API key should error")
	}
}

func TestBuildPrompt(t *testing.T) {
	report := model.Report{
		Target:   "src/handlers/payment.ts",
		Decision: model.DecisionBlock,
		Violations: []model.PolicyViolation{
			{Policy: "GhostRoute", Severity: model.SeverityError,
				Message:    "route /api/ghost not found in truthpack",
				Suggestion: "refresh the routes scan"},
		},
		UnblockPlan: &model.UnblockPlan{Steps: []model.UnblockStep{
			{Order: 1, Action: "implement route /api/ghost in the backend"},
		}},
	}

	prompt := BuildPrompt(report)
	for _, want := range []string{
		"src/handlers/payment.ts",
		"BLOCK",
		"GhostRoute",
		"/api/ghost",
		"refresh the routes scan",
		"1. implement route /api/ghost",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptNoViolations(t *testing.T) {
	prompt := BuildPrompt(model.Report{Target: "src/app.ts", Decision: model.DecisionAllow})
	if !strings.Contains(prompt, "No violations") {
		t.Errorf("prompt = %q, want the no-violations marker", prompt)
	}
}

// stubProvider returns a canned summary or error
type stubProvider struct {
	summary string
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &SummarizeResponse{Summary: s.summary, Model: req.Model}, nil
}

func TestSummarizerSuccess(t *testing.T) {
	s := &Summarizer{
		provider: &stubProvider{summary: "two routes are unverified"},
		config:   model.LLMConfig{Model: "stub-1"},
	}

	out := s.Summarize(context.Background(), model.Report{Target: "src/app.ts"})
	if out == nil || !out.Enabled {
		t.Fatalf("summary = %+v, want enabled", out)
	}
	if out.SummaryMD != "two routes are unverified" {
		t.Errorf("summary text = %q", out.SummaryMD)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", out.Warnings)
	}
}

func TestSummarizerFailureDegradesToWarning(t *testing.T) {
	s := &Summarizer{
		provider: &stubProvider{err: errors.New("rate limited")},
		config:   model.LLMConfig{Model: "stub-1"},
	}

	out := s.Summarize(context.Background(), model.Report{Target: "src/app.ts"})
	if out == nil {
		t.Fatal("failure should still return a summary envelope")
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "rate limited") {
		t.Errorf("warnings = %v, want the provider error surfaced", out.Warnings)
	}
	if out.SummaryMD != "" {
		t.Errorf("summary text = %q, want empty on failure", out.SummaryMD)
	}
}

func TestSummarizerDisabled(t *testing.T) {
	var s *Summarizer
	if s.IsEnabled() {
		t.Error("nil summarizer should report disabled")
	}
	if out := s.Summarize(context.Background(), model.Report{}); out != nil {
		t.Errorf("disabled summarizer produced %+v", out)
	}

	s = &Summarizer{}
	if s.IsEnabled() {
		t.Error("summarizer without a provider should report disabled")
	}
}

package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/truthgate/internal/model"
)

// Summarizer wraps a provider and attaches advisory summaries to reports
type Summarizer struct {
	provider Provider
	config   model.LLMConfig
}

// NewSummarizer creates a summarizer from configuration. Returns an error
// only for a misconfigured provider; a disabled one yields IsEnabled false.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: cfg}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// Summarize generates an LLMSummary for a finished report. The decision
// and violations are already final; a failure here produces a summary with
// a warning, never an error for the pipeline.
func (s *Summarizer) Summarize(ctx context.Context, report model.Report) *model.LLMSummary {
	if !s.IsEnabled() {
		return nil
	}

	summary := &model.LLMSummary{
		Enabled:  true,
		Provider: s.provider.Name(),
		Model:    s.config.Model,
	}
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("summary generation failed: %v", err))
		return summary
	}
	summary.Model = resp.Model
	summary.SummaryMD = resp.Summary
	return summary
}

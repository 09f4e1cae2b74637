// Package firewall composes intent validation, claim extraction, evidence
// resolution, policy evaluation, and unblock planning into one
// request→result evaluation. Evaluations are request-scoped and
// independent: the only shared state is the immutable truthpack snapshot
// and the session mission store.
package firewall

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/truthgate/internal/cache"
	"github.com/ppiankov/truthgate/internal/evidence"
	"github.com/ppiankov/truthgate/internal/extract"
	"github.com/ppiankov/truthgate/internal/intent"
	"github.com/ppiankov/truthgate/internal/model"
	"github.com/ppiankov/truthgate/internal/policy"
	"github.com/ppiankov/truthgate/internal/unblock"
)

// Firewall evaluates candidate changes against the truthpack
type Firewall struct {
	cfg       *model.Config
	validator *intent.Validator
	extractor *extract.Extractor
	resolver  *evidence.Resolver
	engine    *policy.Engine
	quick     *policy.Engine
	source    evidence.Source
	now       func() time.Time // Injectable for tests
}

// New constructs a firewall. All collaborators are passed in explicitly,
// with no hidden singletons, so concurrent evaluations stay isolated and tests
// stay hermetic. A nil truthpack source is the one fatal configuration
// error: evidence resolution would be meaningless without it.
func New(cfg *model.Config, source evidence.Source, missions *intent.MissionStore) (*Firewall, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if source == nil {
		return nil, fmt.Errorf("firewall: truthpack source is required")
	}

	var c cache.Cache
	if cfg.Evidence.CacheTTL > 0 {
		c = cache.NewMemoryCache(cfg.Evidence.CacheTTL, 2*cfg.Evidence.CacheTTL)
	}

	return &Firewall{
		cfg:       cfg,
		validator: intent.NewValidator(cfg.Intent, missions),
		extractor: extract.NewExtractor(),
		resolver:  evidence.NewResolver(source, cfg.Evidence, c),
		engine:    policy.NewEngine(cfg),
		quick:     policy.NewQuickEngine(cfg),
		source:    source,
		now:       time.Now,
	}, nil
}

// Evaluate runs the full pipeline. The context cancels cooperatively at
// each stage boundary; a cancelled evaluation discards partial results and
// performs no writes.
func (f *Firewall) Evaluate(ctx context.Context, req model.FirewallRequest, mode model.Mode) (*model.FirewallResult, error) {
	validation := f.validator.Validate(req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := f.extractor.Extract(req.Content, req.Target)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := f.resolver.Resolve(ctx, claims)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pctx := &model.PolicyContext{
		Claims:   claims,
		Evidence: records,
		Intent:   &validation.Intent,
		Target:   req.Target,
		Content:  req.Content,
	}
	violations := f.engine.Evaluate(pctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &model.FirewallResult{
		Decision:    Decide(violations, mode),
		Violations:  violations,
		Intent:      validation,
		Claims:      claims,
		Evidence:    records,
		SnapshotID:  f.source.SnapshotID(),
		EvaluatedAt: f.now().UTC(),
	}
	if len(violations) > 0 {
		result.UnblockPlan = unblock.BuildPlan(violations)
	}
	return result, nil
}

// QuickCheck runs the latency-sensitive subset: extraction, resolution,
// and the high-severity rules only, skipping intent validation and the
// unblock plan. Returns whether the change may proceed and the first
// blocking violation if not.
func (f *Firewall) QuickCheck(ctx context.Context, req model.FirewallRequest) (bool, *model.PolicyViolation, error) {
	claims := f.extractor.Extract(req.Content, req.Target)
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}

	records := f.resolver.Resolve(ctx, claims)
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}

	violations := f.quick.Evaluate(&model.PolicyContext{
		Claims:   claims,
		Evidence: records,
		Target:   req.Target,
		Content:  req.Content,
	})
	for i := range violations {
		if violations[i].Severity == model.SeverityError {
			return false, &violations[i], nil
		}
	}
	return true, nil, nil
}

// Mode returns the firewall's configured operating mode
func (f *Firewall) Mode() model.Mode {
	if f.cfg.Mode == "" {
		return model.ModeEnforce
	}
	return f.cfg.Mode
}

// SnapshotID exposes the pinned truthpack digest
func (f *Firewall) SnapshotID() string {
	return f.source.SnapshotID()
}

// Decide reduces a violation set to one decision. The decision is a pure
// function of the violations and the mode; rules never set it directly.
// In observe mode violations are still computed, but the decision is
// always ALLOW.
func Decide(violations []model.PolicyViolation, mode model.Mode) model.Decision {
	if mode == model.ModeObserve {
		return model.DecisionAllow
	}
	decision := model.DecisionAllow
	for _, v := range violations {
		switch v.Severity {
		case model.SeverityError:
			return model.DecisionBlock
		case model.SeverityWarning:
			decision = model.DecisionWarn
		}
	}
	return decision
}

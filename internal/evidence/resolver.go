// Package evidence looks claims up against the truthpack and produces one
// evidence record per claim. This is the only pipeline stage allowed to
// block on I/O, so every resolution runs under a bounded timeout and fails
// closed: a timeout or read failure resolves every pending claim to
// not-found rather than hanging or aborting the caller.
package evidence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ppiankov/truthgate/internal/cache"
	"github.com/ppiankov/truthgate/internal/model"
	"github.com/ppiankov/truthgate/internal/truthpack"
)

// Source is the read-only truthpack view the resolver consumes.
// *truthpack.Store satisfies it; tests use fakes.
type Source interface {
	SnapshotID() string
	FindRoute(path string) (truthpack.Route, bool)
	FindEnv(name string) (truthpack.EnvVar, bool)
	Auth() truthpack.AuthDoc
	FindContracts(path string) []truthpack.Contract
}

// authHints mark import values worth resolving against the auth category
var authHints = []string{"auth", "jwt", "passport", "oauth", "session", "jsonwebtoken"}

// Resolver resolves claims to evidence
type Resolver struct {
	source   Source
	timeout  time.Duration
	cache    cache.Cache // Optional; nil disables caching
	cacheTTL time.Duration
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(source Source, cfg model.EvidenceConfig, c cache.Cache) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		source:   source,
		timeout:  timeout,
		cache:    c,
		cacheTTL: cfg.CacheTTL,
	}
}

// Resolve produces exactly one evidence record per claim, in claim order.
// On timeout or cancellation, every pending claim resolves to a not-found
// record with SourceUnavailable.
func (r *Resolver) Resolve(ctx context.Context, claims []model.Claim) []model.Evidence {
	resolveCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records := make([]model.Evidence, len(claims))
	for i, claim := range claims {
		select {
		case <-resolveCtx.Done():
			records[i] = model.Evidence{ClaimID: claim.ID, Found: false, Source: model.SourceUnavailable}
			continue
		default:
		}
		records[i] = r.resolveOne(claim)
	}
	return records
}

// resolveOne matches one claim against the category its type maps to.
// Claim types with no matching category resolve to found=false with an
// empty source; they are carried through silently.
func (r *Resolver) resolveOne(claim model.Claim) model.Evidence {
	if cached, ok := r.fromCache(claim); ok {
		return cached
	}

	ev := model.Evidence{ClaimID: claim.ID, Found: false}
	switch claim.Type {
	case model.ClaimTypeAPIEndpoint:
		if strings.HasPrefix(claim.Value, "http://") || strings.HasPrefix(claim.Value, "https://") {
			break // External URL; no truthpack category covers it
		}
		route, ok := r.source.FindRoute(claim.Value)
		if !ok {
			ev.Source = model.SourceRoutes
			break
		}
		ev.Found = true
		ev.Source = model.SourceRoutes
		ev.Details = map[string]any{
			"method": route.Method,
			"auth":   route.Auth,
			"roles":  route.Roles,
			"file":   route.File,
			"line":   route.Line,
		}
		if contracts := r.source.FindContracts(claim.Value); len(contracts) > 0 {
			methods := make([]string, 0, len(contracts))
			for _, c := range contracts {
				methods = append(methods, strings.ToUpper(c.Method))
			}
			ev.Details["contract_methods"] = methods
		}

	case model.ClaimTypeEnvVariable:
		v, ok := r.source.FindEnv(claim.Value)
		ev.Source = model.SourceEnv
		if ok {
			ev.Found = true
			ev.Details = map[string]any{
				"required":  v.Required,
				"sensitive": v.Sensitive,
				"file":      v.File,
			}
		}

	case model.ClaimTypeImport, model.ClaimTypePackageDependency:
		if !isAuthRelated(claim.Value) {
			break // No matching category; carried through silently
		}
		ev.Source = model.SourceAuth
		auth := r.source.Auth()
		for _, provider := range auth.Providers {
			if strings.Contains(strings.ToLower(claim.Value), strings.ToLower(provider)) {
				ev.Found = true
				ev.Details = map[string]any{"provider": provider}
				break
			}
		}
	}

	r.toCache(claim, ev)
	return ev
}

func isAuthRelated(value string) bool {
	lower := strings.ToLower(value)
	for _, hint := range authHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func (r *Resolver) fromCache(claim model.Claim) (model.Evidence, bool) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return model.Evidence{}, false
	}
	key := cache.Key(r.source.SnapshotID(), string(claim.Type), claim.Value)
	raw, ok := r.cache.Get(key)
	if !ok {
		return model.Evidence{}, false
	}
	var ev model.Evidence
	if err := json.Unmarshal(raw, &ev); err != nil {
		return model.Evidence{}, false
	}
	ev.ClaimID = claim.ID // Cached records are claim-id agnostic
	return ev, true
}

func (r *Resolver) toCache(claim model.Claim, ev model.Evidence) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return
	}
	stored := ev
	stored.ClaimID = ""
	raw, err := json.Marshal(stored)
	if err != nil {
		return
	}
	key := cache.Key(r.source.SnapshotID(), string(claim.Type), claim.Value)
	_ = r.cache.Set(key, raw, r.cacheTTL)
}

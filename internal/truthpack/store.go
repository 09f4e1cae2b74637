// Package truthpack reads the versioned, read-only ground-truth snapshot
// produced by an external scanner: verified routes, environment variables,
// auth configuration, and API contracts. The firewall only consumes this
// store; it never regenerates it.
package truthpack

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gowebpki/jcs"
)

// Store is an immutable in-memory view of one truthpack snapshot.
// Safe to share across concurrent evaluations.
type Store struct {
	routes    RoutesDoc
	env       EnvDoc
	auth      AuthDoc
	contracts ContractsDoc

	envByName      map[string]EnvVar
	contractByPath map[string][]Contract

	snapshotID string
}

// Load reads and validates all category documents from dir.
// The env and contracts categories are optional; routes must exist since a
// truthpack without a single category is indistinguishable from a missing one.
func Load(dir string) (*Store, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("truthpack directory is required")
	}
	if info, err := os.Stat(trimmed); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("truthpack directory not found: %s", trimmed)
	}

	store := &Store{
		envByName:      make(map[string]EnvVar),
		contractByPath: make(map[string][]Contract),
	}
	digests := make(map[string]string)

	required := map[string]bool{"routes": true, "env": false, "auth": false, "contracts": false}
	for _, category := range []string{"routes", "env", "auth", "contracts"} {
		path := filepath.Join(trimmed, category+".json")
		// #nosec G304 -- truthpack path is explicit local user input.
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && !required[category] {
				continue
			}
			return nil, fmt.Errorf("read truthpack %s: %w", category, err)
		}
		if err := validateCategory(category, data); err != nil {
			return nil, fmt.Errorf("load truthpack: %w", err)
		}
		if err := store.decode(category, data); err != nil {
			return nil, fmt.Errorf("decode truthpack %s: %w", category, err)
		}
		digest, err := digestJCS(data)
		if err != nil {
			return nil, fmt.Errorf("digest truthpack %s: %w", category, err)
		}
		digests[category] = digest
	}

	for _, v := range store.env.Vars {
		store.envByName[v.Name] = v
	}
	for _, c := range store.contracts.Contracts {
		store.contractByPath[c.Path] = append(store.contractByPath[c.Path], c)
	}

	store.snapshotID = combineDigests(digests)
	return store, nil
}

func (s *Store) decode(category string, data []byte) error {
	switch category {
	case "routes":
		return json.Unmarshal(data, &s.routes)
	case "env":
		return json.Unmarshal(data, &s.env)
	case "auth":
		return json.Unmarshal(data, &s.auth)
	case "contracts":
		return json.Unmarshal(data, &s.contracts)
	}
	return fmt.Errorf("unknown category %s", category)
}

// SnapshotID returns the sha256 digest pinning this snapshot's content.
// Each evaluation records it so results stay reproducible even when the
// truthpack is regenerated between requests.
func (s *Store) SnapshotID() string {
	return s.snapshotID
}

// FindRoute matches a claimed path against verified routes. Exact matches
// win; otherwise route templates with :param or {param} segments match
// segment-wise.
func (s *Store) FindRoute(path string) (Route, bool) {
	for _, r := range s.routes.Routes {
		if r.Path == path {
			return r, true
		}
	}
	for _, r := range s.routes.Routes {
		if templateMatch(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

// FindEnv looks up a claimed environment variable by name
func (s *Store) FindEnv(name string) (EnvVar, bool) {
	v, ok := s.envByName[name]
	return v, ok
}

// Auth returns the auth configuration document
func (s *Store) Auth() AuthDoc {
	return s.auth
}

// FindContracts returns the recorded contracts for a path (all methods).
// Template paths match the same way routes do.
func (s *Store) FindContracts(path string) []Contract {
	if cs, ok := s.contractByPath[path]; ok {
		return cs
	}
	for tmpl, cs := range s.contractByPath {
		if templateMatch(tmpl, path) {
			return cs
		}
	}
	return nil
}

// Summary describes the loaded categories for the CLI
func (s *Store) Summary() map[string]CategorySummary {
	return map[string]CategorySummary{
		"routes":    {Version: s.routes.Version, GeneratedAt: s.routes.GeneratedAt.String(), Count: len(s.routes.Routes)},
		"env":       {Version: s.env.Version, GeneratedAt: s.env.GeneratedAt.String(), Count: len(s.env.Vars)},
		"auth":      {Version: s.auth.Version, GeneratedAt: s.auth.GeneratedAt.String(), Count: len(s.auth.Providers)},
		"contracts": {Version: s.contracts.Version, GeneratedAt: s.contracts.GeneratedAt.String(), Count: len(s.contracts.Contracts)},
	}
}

// CategorySummary is one row of the truthpack show output
type CategorySummary struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
	Count       int    `json:"count"`
}

// templateMatch compares a route template against a concrete path,
// treating :param and {param} segments as single-segment wildcards
func templateMatch(template, path string) bool {
	tSegs := strings.Split(strings.Trim(template, "/"), "/")
	pSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(tSegs) != len(pSegs) {
		return false
	}
	for i, seg := range tSegs {
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			continue
		}
		if seg != pSegs[i] {
			return false
		}
	}
	return true
}

// digestJCS canonicalizes JSON (RFC 8785) and returns a sha256 hex digest
func digestJCS(data []byte) (string, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// combineDigests folds per-category digests into one stable snapshot id
func combineDigests(digests map[string]string) string {
	categories := make([]string, 0, len(digests))
	for c := range digests {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	for _, c := range categories {
		b.WriteString(c)
		b.WriteString(":")
		b.WriteString(digests[c])
		b.WriteString("\n")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Package extract turns candidate content into typed, located,
// confidence-scored claims. Extraction is lexical and pattern-based: fast,
// deterministic, and purely a function of the content. It performs no I/O
// and no semantic analysis.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// pattern couples a compiled regex with the claim it produces
type pattern struct {
	re         *regexp.Regexp
	claimType  model.ClaimType
	heuristic  string
	confidence float64
	group      int // Capture group holding the claim value
}

// Extractor extracts claims from candidate content
type Extractor struct {
	patterns []pattern
	calls    *regexp.Regexp
	boosts   []string
}

// NewExtractor creates an extractor with the built-in pattern set compiled once
func NewExtractor() *Extractor {
	return &Extractor{
		patterns: []pattern{
			{
				re:         regexp.MustCompile(`['"` + "`" + `](https?://[^'"` + "`" + `\s]+)['"` + "`" + `]`),
				claimType:  model.ClaimTypeAPIEndpoint,
				heuristic:  "regex:external_url",
				confidence: 0.9,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`['"` + "`" + `](/[A-Za-z0-9_{}:.-]+(?:/[A-Za-z0-9_{}:.$-]+)*)['"` + "`" + `]`),
				claimType:  model.ClaimTypeAPIEndpoint,
				heuristic:  "regex:path_literal",
				confidence: 0.6,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`process\.env\.([A-Z][A-Z0-9_]*)`),
				claimType:  model.ClaimTypeEnvVariable,
				heuristic:  "regex:process_env",
				confidence: 0.95,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`process\.env\[['"]([A-Z][A-Z0-9_]*)['"]\]`),
				claimType:  model.ClaimTypeEnvVariable,
				heuristic:  "regex:process_env_index",
				confidence: 0.95,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`os\.Getenv\(\s*"([A-Z][A-Z0-9_]*)"\s*\)`),
				claimType:  model.ClaimTypeEnvVariable,
				heuristic:  "regex:os_getenv",
				confidence: 0.95,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`os\.environ(?:\.get\(|\[)['"]([A-Z][A-Z0-9_]*)['"]`),
				claimType:  model.ClaimTypeEnvVariable,
				heuristic:  "regex:os_environ",
				confidence: 0.95,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`import\s+(?:[\w{},*\s]+?\s+from\s+)?['"]([^'"]+)['"]`),
				claimType:  model.ClaimTypeImport,
				heuristic:  "regex:import",
				confidence: 0.85,
				group:      1,
			},
			{
				re:         regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
				claimType:  model.ClaimTypeImport,
				heuristic:  "regex:require",
				confidence: 0.85,
				group:      1,
			},
		},
		// Call expressions worth claiming: side-effecting constructs and
		// auth-related helpers. Everything else is noise at the lexical level.
		calls: regexp.MustCompile(`\b(eval|Function|execSync|exec|spawnSync|spawn|system|popen|unlinkSync|unlink|rmSync|rimraf|authenticate|authorize|requireAuth|verifyToken|checkPermission)\s*\(`),
		boosts: []string{
			"fetch(", "axios.", "http.get", "http.post", "request(", "$.ajax",
		},
	}
}

// Extract scans candidate content and returns the ordered claim list.
// HTML targets are peeled to their script/text content first.
func (e *Extractor) Extract(content, target string) []model.Claim {
	switch strings.ToLower(filepath.Ext(target)) {
	case ".html", ".htm":
		content = scriptContent(content)
	}

	var claims []model.Claim
	seen := make(map[string]bool)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNo := i + 1
		commented := isComment(line)

		for _, p := range e.patterns {
			for _, match := range p.re.FindAllStringSubmatch(line, -1) {
				value := match[p.group]
				claimType := p.claimType
				heuristic := p.heuristic

				// Bare module names are dependency claims; relative and
				// absolute paths stay plain imports.
				if claimType == model.ClaimTypeImport && !strings.HasPrefix(value, ".") && !strings.HasPrefix(value, "/") {
					claimType = model.ClaimTypePackageDependency
				}

				key := string(claimType) + "\x00" + value
				if seen[key] {
					continue
				}
				seen[key] = true

				claims = append(claims, model.Claim{
					Type:       claimType,
					Value:      value,
					Context:    snippet(line),
					File:       target,
					Line:       lineNo,
					Confidence: e.score(p.confidence, line, commented, claimType),
					Heuristic:  heuristic,
				})
			}
		}

		for _, match := range e.calls.FindAllStringSubmatch(line, -1) {
			name := match[1]
			key := string(model.ClaimTypeFunctionCall) + "\x00" + name
			if seen[key] {
				continue
			}
			seen[key] = true
			claims = append(claims, model.Claim{
				Type:       model.ClaimTypeFunctionCall,
				Value:      name,
				Context:    snippet(line),
				File:       target,
				Line:       lineNo,
				Confidence: e.score(0.8, line, commented, model.ClaimTypeFunctionCall),
				Heuristic:  "regex:call:" + name,
			})
		}
	}

	// Deterministic ids in extraction order
	for i := range claims {
		claims[i].ID = fmt.Sprintf("claim-%03d", i+1)
	}
	return claims
}

// score adjusts a pattern's base confidence for the surrounding line
func (e *Extractor) score(base float64, line string, commented bool, claimType model.ClaimType) float64 {
	confidence := base
	if commented {
		confidence -= 0.4
	}
	if claimType == model.ClaimTypeAPIEndpoint {
		for _, boost := range e.boosts {
			if strings.Contains(line, boost) {
				confidence += 0.2
				break
			}
		}
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0.05 {
		confidence = 0.05
	}
	return confidence
}

// isComment reports whether a line is (lexically) a comment
func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

// snippet returns the smallest reasonable context for pattern matching
func snippet(line string) string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 200 {
		return trimmed[:200]
	}
	return trimmed
}

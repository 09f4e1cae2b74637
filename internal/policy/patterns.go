package policy

import (
	"regexp"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// dangerousPattern is one row of the unsafe-construct table. The table is
// data compiled once into reusable matchers, never re-parsed per
// evaluation.
type dangerousPattern struct {
	name        string
	re          *regexp.Regexp
	description string
	severity    model.Severity
}

var dangerousPatterns = []dangerousPattern{
	{
		name:        "eval",
		re:          regexp.MustCompile(`\beval\s*\(`),
		description: "dynamic code evaluation via eval()",
		severity:    model.SeverityError,
	},
	{
		name:        "dynamic_function",
		re:          regexp.MustCompile(`\bnew\s+Function\s*\(|\bFunction\s*\(\s*['"]`),
		description: "dynamic code construction via Function()",
		severity:    model.SeverityError,
	},
	{
		name:        "shell_exec",
		re:          regexp.MustCompile(`\b(?:execSync|exec|spawnSync|spawn|system|popen)\s*\(`),
		description: "shell command execution",
		severity:    model.SeverityError,
	},
	{
		name:        "sql_drop",
		re:          regexp.MustCompile(`(?i)\b(?:drop\s+table|truncate\s+table|truncate\s+\w+\s*;)`),
		description: "destructive SQL statement (DROP/TRUNCATE)",
		severity:    model.SeverityError,
	},
	{
		name:        "sql_unguarded_delete",
		re:          regexp.MustCompile(`(?i)delete\s+from\s+[\w.` + "`" + `"]+\s*(?:;|$|['"])`),
		description: "SQL DELETE without a WHERE clause",
		severity:    model.SeverityError,
	},
	{
		name:        "inner_html",
		re:          regexp.MustCompile(`\.innerHTML\s*=`),
		description: "direct innerHTML assignment",
		severity:    model.SeverityWarning,
	},
	{
		name:        "prototype_pollution",
		re:          regexp.MustCompile(`__proto__|constructor\s*\[\s*['"]prototype`),
		description: "prototype pollution access",
		severity:    model.SeverityError,
	},
	{
		name:        "file_deletion",
		re:          regexp.MustCompile(`\bfs\.(?:unlinkSync|unlink|rmSync|rmdirSync)\s*\(|\brimraf\s*\(|\brm\s+-rf\b`),
		description: "file deletion outside test code",
		severity:    model.SeverityWarning,
	},
	{
		name:        "dynamic_require",
		re:          regexp.MustCompile(`\brequire\s*\(\s*[^'")\s]|\bimport\s*\(\s*[^'")\s]`),
		description: "dynamic require/import with a non-literal argument",
		severity:    model.SeverityWarning,
	},
}

// authBypassPatterns flag suspicious auth-weakening constructs
var authBypassPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bskip[_]?[Aa]uth\b`),
	regexp.MustCompile(`\bbypass[_]?[Aa]uth\b`),
	regexp.MustCompile(`\bno[_]?[Aa]uth\b`),
	regexp.MustCompile(`isPublic\s*:\s*true`),
	regexp.MustCompile(`public\s*:\s*true`),
	regexp.MustCompile(`authRequired\s*:\s*false`),
	regexp.MustCompile(`requireAuth\s*:\s*false`),
	regexp.MustCompile(`auth\s*:\s*false`),
}

// methodHint extracts an HTTP method from a claim context, when present
var methodHint = regexp.MustCompile(`(?i)(?:method\s*:\s*['"]?|axios\.|\.)(get|post|put|patch|delete|head)\b`)

// allowMatch checks a value against allow-list patterns. A trailing '*'
// makes the pattern a prefix match; anything else is exact.
func allowMatch(patterns []string, value string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(value, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if p == value {
			return true
		}
	}
	return false
}

// hasAnyPrefix reports whether the path sits under one of the prefixes
func hasAnyPrefix(value string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// containsTestKeyword reports whether a context marks test code
func containsTestKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// matchesAuthBypass reports whether text hits any bypass pattern
func matchesAuthBypass(text string) (string, bool) {
	for _, re := range authBypassPatterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

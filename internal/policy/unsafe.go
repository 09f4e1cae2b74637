package policy

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthgate/internal/model"
)

// unsafeSideEffect scans candidate content against the dangerous-construct
// pattern table. Test code is exempt: a target path or matching line that
// carries a test-context keyword never fires the rule.
type unsafeSideEffect struct {
	cfg model.UnsafeConfig
}

func newUnsafeSideEffect(cfg model.UnsafeConfig) *unsafeSideEffect {
	return &unsafeSideEffect{cfg: cfg}
}

func (r *unsafeSideEffect) Name() string { return "UnsafeSideEffect" }

func (r *unsafeSideEffect) Description() string {
	return "flags dangerous constructs: dynamic evaluation, shell execution, destructive SQL, DOM injection"
}

func (r *unsafeSideEffect) Evaluate(pctx *model.PolicyContext) *model.PolicyViolation {
	if containsTestKeyword(pctx.Target, r.cfg.TestKeywords) {
		return nil
	}

	var matched []string
	var severity model.Severity
	var firstLine int
	var firstPattern dangerousPattern
	seen := make(map[string]bool)

	lines := strings.Split(pctx.Content, "\n")
	for lineNo, line := range lines {
		if containsTestKeyword(line, r.cfg.TestKeywords) {
			continue
		}
		for _, p := range dangerousPatterns {
			if seen[p.name] || !p.re.MatchString(line) {
				continue
			}
			seen[p.name] = true
			matched = append(matched, p.description)
			if len(matched) == 1 {
				severity = p.severity
				firstLine = lineNo + 1
				firstPattern = p
			} else if p.severity == model.SeverityError && severity != model.SeverityError {
				severity = model.SeverityError
			}
		}
	}

	if len(matched) == 0 {
		return nil
	}
	return &model.PolicyViolation{
		Policy:     r.Name(),
		Severity:   severityOr(r.cfg.Severity, severity),
		Message:    fmt.Sprintf("dangerous construct at line %d: %s", firstLine, strings.Join(matched, "; ")),
		Claim:      r.matchingClaim(pctx, firstPattern),
		Suggestion: "replace the dangerous construct with a safe equivalent, or move it into test-only code",
	}
}

// matchingClaim attaches the function_call claim the first pattern
// corresponds to, when the extractor produced one
func (r *unsafeSideEffect) matchingClaim(pctx *model.PolicyContext, p dangerousPattern) *model.Claim {
	for i := range pctx.Claims {
		claim := pctx.Claims[i]
		if claim.Type != model.ClaimTypeFunctionCall {
			continue
		}
		if p.re.MatchString(claim.Context) {
			return &pctx.Claims[i]
		}
	}
	return nil
}

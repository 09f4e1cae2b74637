package policy

import (
	"strings"
	"testing"

	"github.com/ppiankov/truthgate/internal/model"
)

func unsafeCtx(target, content string) *model.PolicyContext {
	return &model.PolicyContext{Target: target, Content: content}
}

func TestUnsafeDangerousConstructs(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	tests := []struct {
		name         string
		content      string
		wantSeverity model.Severity
		wantPart     string
	}{
		{"eval", `eval(userInput);`, model.SeverityError, "eval()"},
		{"new Function", `const fn = new Function(body);`, model.SeverityError, "Function()"},
		{"shell exec", `execSync(cmd);`, model.SeverityError, "shell command"},
		{"drop table", `db.query("DROP TABLE users");`, model.SeverityError, "DROP/TRUNCATE"},
		{"unguarded delete", `db.query("DELETE FROM orders");`, model.SeverityError, "WHERE"},
		{"inner html", `el.innerHTML = userContent;`, model.SeverityWarning, "innerHTML"},
		{"prototype pollution", `obj.__proto__.isAdmin = true;`, model.SeverityError, "prototype"},
		{"file deletion", `fs.rmSync(dir, { recursive: true });`, model.SeverityWarning, "file deletion"},
		{"dynamic require", `const mod = require(moduleName);`, model.SeverityWarning, "non-literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := r.Evaluate(unsafeCtx("src/handlers/payment.go", tt.content))
			if v == nil {
				t.Fatalf("content %q should produce a violation", tt.content)
			}
			if v.Severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", v.Severity, tt.wantSeverity)
			}
			if !strings.Contains(v.Message, tt.wantPart) {
				t.Errorf("message = %q, want %q mentioned", v.Message, tt.wantPart)
			}
			if !strings.Contains(v.Message, "line 1") {
				t.Errorf("message = %q, want the line number", v.Message)
			}
		})
	}
}

func TestUnsafeTestTargetExempt(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	targets := []string{
		"src/__tests__/payment.test.ts",
		"src/handlers/payment.spec.ts",
		"src/mocks/db.ts",
	}
	for _, target := range targets {
		if v := r.Evaluate(unsafeCtx(target, `eval(userInput);`)); v != nil {
			t.Errorf("test target %s produced a violation: %+v", target, v)
		}
	}
}

func TestUnsafeTestLineExempt(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	content := `const mockResult = eval(fixture); // test helper`
	if v := r.Evaluate(unsafeCtx("src/handlers/payment.ts", content)); v != nil {
		t.Errorf("test-marked line produced a violation: %+v", v)
	}
}

func TestUnsafeSeverityEscalation(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	// Warning pattern first, error pattern later: the violation escalates
	content := "el.innerHTML = html;\neval(payload);"
	v := r.Evaluate(unsafeCtx("src/handlers/render.ts", content))
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Severity != model.SeverityError {
		t.Errorf("severity = %q, want escalation to error", v.Severity)
	}
	if !strings.Contains(v.Message, "innerHTML") || !strings.Contains(v.Message, "eval()") {
		t.Errorf("message = %q, want both constructs listed", v.Message)
	}
}

func TestUnsafeSamePatternCountedOnce(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	content := "eval(a);\neval(b);\neval(c);"
	v := r.Evaluate(unsafeCtx("src/app.ts", content))
	if v == nil {
		t.Fatal("expected a violation")
	}
	if strings.Count(v.Message, "eval()") != 1 {
		t.Errorf("message = %q, want the pattern listed once", v.Message)
	}
}

func TestUnsafeAttachesMatchingClaim(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	p := unsafeCtx("src/handlers/payment.ts", `eval(userInput);`)
	p.Claims = []model.Claim{
		{ID: "claim-001", Type: model.ClaimTypeFunctionCall, Value: "eval", Context: "eval(userInput);"},
	}

	v := r.Evaluate(p)
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Claim == nil || v.Claim.ID != "claim-001" {
		t.Errorf("claim = %+v, want the eval claim attached", v.Claim)
	}
}

func TestUnsafeCleanContent(t *testing.T) {
	r := newUnsafeSideEffect(defaultRules().UnsafeSideEffect)

	content := "const users = await fetch('/api/users');\nreturn users.json();"
	if v := r.Evaluate(unsafeCtx("src/app.ts", content)); v != nil {
		t.Errorf("clean content produced a violation: %+v", v)
	}
}

package truthpack

import (
	"os"
	"path/filepath"
	"testing"
)

const routesJSON = `{
	"version": "1.0.0",
	"generated_at": "2026-01-10T12:00:00Z",
	"routes": [
		{"path": "/api/users", "method": "GET", "auth": "jwt", "file": "src/routes/users.ts", "line": 12},
		{"path": "/api/users/:id", "method": "GET", "auth": "jwt"},
		{"path": "/api/orders/{orderId}/items", "method": "POST"}
	]
}`

const envJSON = `{
	"version": "1.0.0",
	"generated_at": "2026-01-10T12:00:00Z",
	"vars": [
		{"name": "DATABASE_URL", "required": true, "sensitive": true, "file": ".env.example"},
		{"name": "LOG_LEVEL", "required": false}
	]
}`

const authJSON = `{
	"version": "1.0.0",
	"generated_at": "2026-01-10T12:00:00Z",
	"providers": ["jwt", "passport"],
	"roles": ["admin", "user"],
	"protected": ["/api/admin"]
}`

const contractsJSON = `{
	"version": "1.0.0",
	"generated_at": "2026-01-10T12:00:00Z",
	"contracts": [
		{"path": "/api/users", "method": "GET"},
		{"path": "/api/users", "method": "POST"},
		{"path": "/api/users/:id", "method": "GET"}
	]
}`

func writeTruthpack(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func fullTruthpack(t *testing.T) string {
	return writeTruthpack(t, map[string]string{
		"routes.json":    routesJSON,
		"env.json":       envJSON,
		"auth.json":      authJSON,
		"contracts.json": contractsJSON,
	})
}

func TestLoadFullTruthpack(t *testing.T) {
	store, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := store.FindRoute("/api/users"); !ok {
		t.Error("exact route lookup failed")
	}
	if v, ok := store.FindEnv("DATABASE_URL"); !ok || !v.Sensitive {
		t.Errorf("env lookup = %+v/%v, want the sensitive var", v, ok)
	}
	if auth := store.Auth(); len(auth.Providers) != 2 {
		t.Errorf("auth providers = %v, want two", auth.Providers)
	}
	if cs := store.FindContracts("/api/users"); len(cs) != 2 {
		t.Errorf("contracts = %+v, want both methods", cs)
	}
}

func TestLoadRequiresRoutes(t *testing.T) {
	dir := writeTruthpack(t, map[string]string{"env.json": envJSON})
	if _, err := Load(dir); err == nil {
		t.Fatal("truthpack without routes.json should fail to load")
	}
}

func TestLoadOptionalCategories(t *testing.T) {
	dir := writeTruthpack(t, map[string]string{"routes.json": routesJSON})
	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := store.FindEnv("DATABASE_URL"); ok {
		t.Error("missing env category should resolve nothing")
	}
	if cs := store.FindContracts("/api/users"); cs != nil {
		t.Errorf("missing contracts category returned %+v", cs)
	}
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing required fields", `{"routes": []}`},
		{"wrong type", `{"version": "1", "generated_at": "2026-01-10T12:00:00Z", "routes": "nope"}`},
		{"route without path", `{"version": "1", "generated_at": "2026-01-10T12:00:00Z", "routes": [{"method": "GET"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTruthpack(t, map[string]string{"routes.json": tt.content})
			if _, err := Load(dir); err == nil {
				t.Error("invalid document should fail validation")
			}
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("empty dir should fail")
	}
	if _, err := Load("/does/not/exist"); err == nil {
		t.Error("missing dir should fail")
	}
}

func TestFindRouteTemplates(t *testing.T) {
	store, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		path     string
		wantPath string
		found    bool
	}{
		{"/api/users", "/api/users", true},
		{"/api/users/123", "/api/users/:id", true},
		{"/api/orders/42/items", "/api/orders/{orderId}/items", true},
		{"/api/users/123/posts", "", false}, // Segment count mismatch
		{"/api/unknown", "", false},
	}

	for _, tt := range tests {
		route, ok := store.FindRoute(tt.path)
		if ok != tt.found {
			t.Errorf("FindRoute(%q) found = %v, want %v", tt.path, ok, tt.found)
			continue
		}
		if ok && route.Path != tt.wantPath {
			t.Errorf("FindRoute(%q) matched %q, want %q", tt.path, route.Path, tt.wantPath)
		}
	}
}

func TestFindContractsTemplates(t *testing.T) {
	store, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cs := store.FindContracts("/api/users/99"); len(cs) != 1 {
		t.Errorf("template contract lookup = %+v, want one match", cs)
	}
}

func TestSnapshotIDStability(t *testing.T) {
	first, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if first.SnapshotID() != second.SnapshotID() {
		t.Errorf("identical truthpacks produced different ids: %s vs %s",
			first.SnapshotID(), second.SnapshotID())
	}
	if len(first.SnapshotID()) == 0 || first.SnapshotID()[:7] != "sha256:" {
		t.Errorf("snapshot id = %q, want a sha256: prefix", first.SnapshotID())
	}
}

func TestSnapshotIDIgnoresKeyOrder(t *testing.T) {
	reordered := `{
	"generated_at": "2026-01-10T12:00:00Z",
	"routes": [
		{"method": "GET", "path": "/api/users", "file": "src/routes/users.ts", "auth": "jwt", "line": 12},
		{"auth": "jwt", "path": "/api/users/:id", "method": "GET"},
		{"method": "POST", "path": "/api/orders/{orderId}/items"}
	],
	"version": "1.0.0"
}`

	canonical, err := Load(writeTruthpack(t, map[string]string{"routes.json": routesJSON}))
	if err != nil {
		t.Fatalf("Load canonical: %v", err)
	}
	shuffled, err := Load(writeTruthpack(t, map[string]string{"routes.json": reordered}))
	if err != nil {
		t.Fatalf("Load reordered: %v", err)
	}

	if canonical.SnapshotID() != shuffled.SnapshotID() {
		t.Error("key order changed the snapshot id; canonicalization should absorb it")
	}
}

func TestSnapshotIDChangesWithContent(t *testing.T) {
	base, err := Load(writeTruthpack(t, map[string]string{"routes.json": routesJSON}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	extended, err := Load(writeTruthpack(t, map[string]string{
		"routes.json": routesJSON,
		"env.json":    envJSON,
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if base.SnapshotID() == extended.SnapshotID() {
		t.Error("different truthpack content produced the same snapshot id")
	}
}

func TestSummary(t *testing.T) {
	store, err := Load(fullTruthpack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	summary := store.Summary()
	if summary["routes"].Count != 3 {
		t.Errorf("routes count = %d, want 3", summary["routes"].Count)
	}
	if summary["env"].Count != 2 {
		t.Errorf("env count = %d, want 2", summary["env"].Count)
	}
	if summary["routes"].Version != "1.0.0" {
		t.Errorf("routes version = %q, want 1.0.0", summary["routes"].Version)
	}
}

package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache reported a hit")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get = %q/%v, want v/true", got, found)
	}

	if err := c.Set("k", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ = c.Get("k")
	if string(got) != "v2" {
		t.Errorf("overwritten value = %q, want v2", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired key still served")
	}
}

func TestKeyBindsSnapshot(t *testing.T) {
	a := Key("sha256:one", "api_endpoint", "/api/users")
	b := Key("sha256:two", "api_endpoint", "/api/users")
	if a == b {
		t.Error("keys for different snapshots must differ")
	}

	c := Key("sha256:one", "env_variable", "/api/users")
	if a == c {
		t.Error("keys for different claim types must differ")
	}

	if a != Key("sha256:one", "api_endpoint", "/api/users") {
		t.Error("key generation must be deterministic")
	}
}

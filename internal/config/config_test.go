package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("ALLOW_CSV_OVERRIDE", "")
	t.Setenv("CSV_OVERRIDE_HOSTS", "")
	t.Setenv("INSTAGRAM_HANDLE", "@somehandle")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("want default port 8080, got %q", cfg.Port)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("want 15m cache ttl, got %s", cfg.CacheTTL)
	}
	if cfg.AllowCSVOverride {
		t.Fatal("csv override should default to off")
	}
	if len(cfg.OverrideHosts) != 1 || cfg.OverrideHosts[0] != "docs.google.com" {
		t.Fatalf("want google docs as the only override host, got %v", cfg.OverrideHosts)
	}
	if cfg.InstagramHandle != "somehandle" {
		t.Fatalf("handle should drop the @, got %q", cfg.InstagramHandle)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("MAX_OVERRIDE_SOURCES", "3")
	t.Setenv("ALLOW_CSV_OVERRIDE", "true")
	t.Setenv("CSV_OVERRIDE_HOSTS", " Docs.Google.com, ,sheets.example ")
	t.Setenv("FETCH_TIMEOUT", "garbage")

	cfg := Load()
	if cfg.CacheTTL != 2*time.Minute || cfg.MaxOverrideSources != 3 || !cfg.AllowCSVOverride {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.OverrideHosts) != 2 || cfg.OverrideHosts[0] != "docs.google.com" || cfg.OverrideHosts[1] != "sheets.example" {
		t.Fatalf("unexpected override hosts %v", cfg.OverrideHosts)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Fatalf("invalid duration should fall back, got %s", cfg.FetchTimeout)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "auth:\n  secret: s3cret\ncurrency:\n  timezone: UTC\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":4001" {
		t.Fatalf("expected default address got %q", cfg.Server.Address)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("expected memory driver got %q", cfg.Storage.Driver)
	}
	if cfg.Search.PageThreshold != 10 || cfg.Search.TransitionDelay != 100*time.Millisecond {
		t.Fatalf("unexpected search defaults %+v", cfg.Search)
	}
	if !cfg.Search.LegacyHasMore || !cfg.Search.CityFallback {
		t.Fatalf("expected bare array guessing and city fallback on by default %+v", cfg.Search)
	}
	if got, min := cfg.WriteTimeout(), 2*cfg.Backend.Timeout+cfg.Search.TransitionDelay; got <= min {
		t.Fatalf("expected write timeout above %v, got %v", min, got)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
backend:
  base_url: "http://api.internal:8000"
  timeout: 5s
storage:
  driver: redis
  redis:
    addr: "localhost:6379"
auth:
  secret: from-file
  token_ttl: 2h
currency:
  timezone: UTC
search:
  city_fallback: true
  legacy_has_more: false
  session_ttl: 10m
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SEARCH_PAGE_THRESHOLD", "20")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Backend.BaseURL != "http://api.internal:8000" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Backend.Timeout != 5*time.Second || cfg.Auth.TokenTTL != 2*time.Hour || cfg.Search.SessionTTL != 10*time.Minute {
		t.Fatalf("durations not parsed: %+v", cfg)
	}
	if cfg.Auth.Secret != "from-env" {
		t.Fatalf("env must override file, got %q", cfg.Auth.Secret)
	}
	if cfg.Search.PageThreshold != 20 || !cfg.Search.CityFallback || cfg.Search.LegacyHasMore {
		t.Fatalf("unexpected search config %+v", cfg.Search)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"missing secret", "currency:\n  timezone: UTC\n", map[string]string{"JWT_SECRET": ""}},
		{"unknown driver", "auth:\n  secret: x\ncurrency:\n  timezone: UTC\nstorage:\n  driver: mongo\n", nil},
		{"redis without addr", "auth:\n  secret: x\ncurrency:\n  timezone: UTC\nstorage:\n  driver: redis\n", nil},
		{"bad int env", "auth:\n  secret: x\ncurrency:\n  timezone: UTC\n", map[string]string{"SEARCH_PAGE_THRESHOLD": "ten"}},
		{"bad yaml", "auth: [\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", writeConfig(t, tt.yaml))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

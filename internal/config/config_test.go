package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with clean env: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q, want /api", cfg.APIBasePath)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.CacheCleanupInterval != 30*time.Minute {
		t.Errorf("CacheCleanupInterval = %v, want 30m", cfg.CacheCleanupInterval)
	}
	if cfg.Bridge.PrimaryTimeout != 15*time.Second {
		t.Errorf("PrimaryTimeout = %v, want 15s", cfg.Bridge.PrimaryTimeout)
	}
	if cfg.Bridge.SecondaryTimeout != 10*time.Second {
		t.Errorf("SecondaryTimeout = %v, want 10s", cfg.Bridge.SecondaryTimeout)
	}
	if cfg.SearchDefaultLimit != 12 {
		t.Errorf("SearchDefaultLimit = %d, want 12", cfg.SearchDefaultLimit)
	}
	if !strings.HasPrefix(cfg.Bridge.BaseURL, "https://") {
		t.Errorf("Bridge.BaseURL = %q, want https default", cfg.Bridge.BaseURL)
	}
	if strings.HasSuffix(cfg.Bridge.BaseURL, "/") {
		t.Errorf("Bridge.BaseURL = %q, trailing slash should be trimmed", cfg.Bridge.BaseURL)
	}
}

func TestLoadOverridesAndNormalization(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_BASE_PATH", "api/")
	t.Setenv("VRCHAT_BRIDGE_API_URL", "http://bridge.local/api/")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release fallback", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q, want /api", cfg.APIBasePath)
	}
	if cfg.Bridge.BaseURL != "http://bridge.local/api" {
		t.Errorf("Bridge.BaseURL = %q", cfg.Bridge.BaseURL)
	}
	if cfg.CacheTTL != 2*time.Hour {
		t.Errorf("CacheTTL = %v, want 2h", cfg.CacheTTL)
	}
	if got := len(cfg.CORS.AllowedOrigins); got != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad bridge url", "VRCHAT_BRIDGE_API_URL", "bridge.local"},
		{"zero cache ttl", "CACHE_TTL", "0s"},
		{"zero sweep", "CACHE_CLEANUP_INTERVAL", "-1m"},
		{"zero search limit", "SEARCH_DEFAULT_LIMIT", "0"},
		{"max below default", "SEARCH_MAX_LIMIT", "1"},
		{"zero burst", "RATE_BURST", "0"},
		{"bad sampler", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s: want error", tc.key, tc.val)
			}
		})
	}
}

func TestMustLoadPanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nope")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad did not panic")
		}
	}()
	MustLoad()
}

package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")
	t.Setenv("BASE_URL", "http://localhost:8080")
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BackendBaseURL != "http://localhost:8000" {
		t.Errorf("BackendBaseURL = %q, want %q", cfg.BackendBaseURL, "http://localhost:8000")
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "http://localhost:8080")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("BackendTimeout = %v, want 0", cfg.BackendTimeout)
	}
	if cfg.TokenCookieName != "access_token" {
		t.Errorf("TokenCookieName = %q, want %q", cfg.TokenCookieName, "access_token")
	}
	if cfg.TokenMaxAge != 720*time.Hour {
		t.Errorf("TokenMaxAge = %v, want %v", cfg.TokenMaxAge, 720*time.Hour)
	}
	if cfg.TokenFile != filepath.Join("/home/tester", ".workerhub", "token") {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.RateLimitSubmit != 20 {
		t.Errorf("RateLimitSubmit = %d, want %d", cfg.RateLimitSubmit, 20)
	}
	if cfg.TrailingSlash != TrailingSlashStrip {
		t.Errorf("TrailingSlash = %q, want %q", cfg.TrailingSlash, TrailingSlashStrip)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should be false for http BASE_URL")
	}
	if cfg.CookieDomain != "" {
		t.Errorf("CookieDomain = %q, want empty", cfg.CookieDomain)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("TOKEN_COOKIE_NAME", "wh_token")
	t.Setenv("TOKEN_MAX_AGE", "1h")
	t.Setenv("TOKEN_FILE", "/tmp/token")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("RATE_LIMIT_SUBMIT", "5")
	t.Setenv("TRAILING_SLASH", "redirect")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("COOKIE_DOMAIN", "example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "3000")
	}
	if cfg.BackendTimeout != 5*time.Second {
		t.Errorf("BackendTimeout = %v, want %v", cfg.BackendTimeout, 5*time.Second)
	}
	if cfg.TokenCookieName != "wh_token" {
		t.Errorf("TokenCookieName = %q", cfg.TokenCookieName)
	}
	if cfg.TokenMaxAge != time.Hour {
		t.Errorf("TokenMaxAge = %v", cfg.TokenMaxAge)
	}
	if cfg.TokenFile != "/tmp/token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if cfg.RateLimitGeneral != 60 || cfg.RateLimitSubmit != 5 {
		t.Errorf("rate limits = %d/%d", cfg.RateLimitGeneral, cfg.RateLimitSubmit)
	}
	if cfg.TrailingSlash != TrailingSlashRedirect {
		t.Errorf("TrailingSlash = %q", cfg.TrailingSlash)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.CookieDomain != "example.com" {
		t.Errorf("CookieDomain = %q", cfg.CookieDomain)
	}
}

func TestLoad_MissingRequiredVars_ReturnsError(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("BASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars")
	}
	for _, name := range []string{"BACKEND_BASE_URL", "BASE_URL"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestLoad_CookieSecure(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")
	t.Setenv("BASE_URL", "https://workerhub.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should be true for https BASE_URL")
	}

	t.Setenv("COOKIE_SECURE", "false")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.CookieSecure {
		t.Error("COOKIE_SECURE=false should override the derived value")
	}
}

func TestLoad_CookieSecureOverrideOnHTTP(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.CookieSecureOverride == nil || !*cfg.CookieSecureOverride {
		t.Error("CookieSecureOverride should be parsed from COOKIE_SECURE")
	}
	if !cfg.CookieSecure {
		t.Error("COOKIE_SECURE=true should force secure cookies on http BASE_URL")
	}
}

func TestLoad_InvalidValues_ReturnError(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid duration", "TOKEN_MAX_AGE", "forever"},
		{"invalid int", "RATE_LIMIT_GENERAL", "many"},
		{"invalid trailing slash mode", "TRAILING_SLASH", "keep"},
		{"zero token max age", "TOKEN_MAX_AGE", "0s"},
		{"negative token max age", "TOKEN_MAX_AGE", "-1h"},
		{"invalid cookie secure", "COOKIE_SECURE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadCLI_RequiresOnlyBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:8000")
	t.Setenv("BASE_URL", "")
	t.Setenv("TOKEN_FILE", "/tmp/cli-token")

	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TokenFile != "/tmp/cli-token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}

	t.Setenv("BACKEND_BASE_URL", "")
	if _, err := LoadCLI(); err == nil {
		t.Error("expected error when BACKEND_BASE_URL is missing")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("TEST_API_HOST", "api.internal:8080")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8081
  host: 0.0.0.0
api:
  base_url: http://${TEST_API_HOST}
  request_timeout: 5s
ui:
  redirect_delay: 1500ms
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GetAddr() != "0.0.0.0:8081" {
		t.Errorf("GetAddr() = %s, want 0.0.0.0:8081", cfg.GetAddr())
	}
	if cfg.API.BaseURL != "http://api.internal:8080" {
		t.Errorf("API.BaseURL = %s, want expanded env value", cfg.API.BaseURL)
	}
	if cfg.API.RequestTimeout != 5*time.Second {
		t.Errorf("API.RequestTimeout = %v, want 5s", cfg.API.RequestTimeout)
	}
	if cfg.UI.RedirectDelay != 1500*time.Millisecond {
		t.Errorf("UI.RedirectDelay = %v, want 1.5s", cfg.UI.RedirectDelay)
	}

	// Unset fields keep their defaults
	if cfg.UI.MaxViews != Default().UI.MaxViews {
		t.Errorf("UI.MaxViews = %d, want default %d", cfg.UI.MaxViews, Default().UI.MaxViews)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want default 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("BASE_URL", "")

	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.UI.RedirectDelay != time.Second {
		t.Errorf("Default redirect delay = %v, want 1s", cfg.UI.RedirectDelay)
	}
	if cfg.API.RequestTimeout != 0 {
		t.Errorf("Default request timeout = %v, want none", cfg.API.RequestTimeout)
	}
	if cfg.GetBaseURL() != "http://localhost:3000" {
		t.Errorf("GetBaseURL() = %s", cfg.GetBaseURL())
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://auth.example.com")
	t.Setenv("BASE_URL", "https://login.example.com")

	cfg, err := Parse([]byte("api:\n  base_url: http://ignored:1\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.API.BaseURL != "https://auth.example.com" {
		t.Errorf("API.BaseURL = %s, want env override", cfg.API.BaseURL)
	}
	if cfg.GetBaseURL() != "https://login.example.com" {
		t.Errorf("GetBaseURL() = %s, want env override", cfg.GetBaseURL())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"missing api base", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is required"},
		{"unexpanded api base", func(c *Config) { c.API.BaseURL = "${API_BASE_URL}" }, "api.base_url is required"},
		{"relative api base", func(c *Config) { c.API.BaseURL = "/api" }, "absolute"},
		{"negative delay", func(c *Config) { c.UI.RedirectDelay = -time.Second }, "ui.redirect_delay"},
		{"no views", func(c *Config) { c.UI.MaxViews = 0 }, "ui.max_views"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestValidateDevAPI(t *testing.T) {
	cfg := Default()
	if err := cfg.ValidateDevAPI(); err != nil {
		t.Errorf("Default devapi config should be valid: %v", err)
	}

	cfg.DevAPI.BcryptCost = 2
	if err := cfg.ValidateDevAPI(); err == nil {
		t.Error("Expected error for low bcrypt cost")
	}

	cfg = Default()
	cfg.DevAPI.DBPath = ""
	if err := cfg.ValidateDevAPI(); err == nil {
		t.Error("Expected error for missing db path")
	}

	if cfg.GetDevAPIAddr() != "localhost:5000" {
		t.Errorf("GetDevAPIAddr() = %s", cfg.GetDevAPIAddr())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

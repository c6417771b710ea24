package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPAddress != ":8080" {
		t.Errorf("http_address = %q", cfg.Server.HTTPAddress)
	}
	if cfg.Server.MetricsAddress != ":9090" {
		t.Errorf("metrics_address = %q", cfg.Server.MetricsAddress)
	}
	if got := cfg.ETATickInterval(); got != 30*time.Second {
		t.Errorf("eta tick interval = %v, want 30s", got)
	}
	if got := cfg.TokenTTL(); got != 12*time.Hour {
		t.Errorf("token ttl = %v, want 12h", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  http_address: ":9000"
  token_ttl: 1h
database:
  path: memory
board:
  eta_tick_interval: 10s
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.HTTPAddress != ":9000" {
		t.Errorf("http_address = %q", cfg.Server.HTTPAddress)
	}
	if cfg.Database.Path != "memory" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if got := cfg.ETATickInterval(); got != 10*time.Second {
		t.Errorf("eta tick interval = %v, want 10s", got)
	}
	// Unset fields fall back to defaults
	if cfg.Server.MetricsAddress != ":9090" {
		t.Errorf("metrics_address = %q, want default", cfg.Server.MetricsAddress)
	}
}

func TestConfigValidateRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad token ttl", func(c *Config) { c.Server.TokenTTL = "soon" }},
		{"bad stream max", func(c *Config) { c.Server.StreamMax = "forever" }},
		{"bad tick interval", func(c *Config) { c.Board.ETATickInterval = "30" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

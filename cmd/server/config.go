// Package main provides the MedLink coordination server CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scribe   ScribeConfig   `yaml:"scribe"`
	Board    BoardConfig    `yaml:"board"`
	Verbose  bool           `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPAddress    string `yaml:"http_address"`    // API listen address (default: :8080)
	MetricsAddress string `yaml:"metrics_address"` // Prometheus listen address (default: :9090)
	TokenTTL       string `yaml:"token_ttl"`       // JWT lifetime (default: 12h)
	StreamMax      string `yaml:"stream_max"`      // SSE stream lifetime cap (default: 30m)
}

// DatabaseConfig contains persistence settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite path; "memory" keeps everything in process
}

// ScribeConfig contains voice extraction settings.
type ScribeConfig struct {
	Model   string `yaml:"model"`    // Extraction model name
	BaseURL string `yaml:"base_url"` // Optional OpenAI-compatible endpoint
}

// BoardConfig contains alert board settings.
type BoardConfig struct {
	ETATickInterval string `yaml:"eta_tick_interval"` // ETA countdown period (default: 30s)
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}
	if c.Server.TokenTTL == "" {
		c.Server.TokenTTL = "12h"
	}
	if c.Server.StreamMax == "" {
		c.Server.StreamMax = "30m"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/medlink.db"
	}
	if c.Scribe.Model == "" {
		c.Scribe.Model = "gpt-4o-mini"
	}
	if c.Board.ETATickInterval == "" {
		c.Board.ETATickInterval = "30s"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if _, err := time.ParseDuration(c.Server.TokenTTL); err != nil {
		return fmt.Errorf("invalid server.token_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.StreamMax); err != nil {
		return fmt.Errorf("invalid server.stream_max: %w", err)
	}
	if _, err := time.ParseDuration(c.Board.ETATickInterval); err != nil {
		return fmt.Errorf("invalid board.eta_tick_interval: %w", err)
	}
	return nil
}

// TokenTTL returns the parsed JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.Server.TokenTTL)
	return d
}

// StreamMax returns the parsed SSE lifetime cap.
func (c *Config) StreamMax() time.Duration {
	d, _ := time.ParseDuration(c.Server.StreamMax)
	return d
}

// ETATickInterval returns the parsed ETA countdown period.
func (c *Config) ETATickInterval() time.Duration {
	d, _ := time.ParseDuration(c.Board.ETATickInterval)
	return d
}

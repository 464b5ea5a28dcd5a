package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/strain-dev/strain/internal/tracker"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
  host: "0.0.0.0"
  auth_token: "sekrit"
tracker:
  idle_timeout: 45m
assist:
  enabled: true
  command: "calm-bot"
  args: ["--fast"]
  min_level: medium
  cooldown: 5m
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.AuthToken != "sekrit" {
		t.Errorf("Server.AuthToken = %q", cfg.Server.AuthToken)
	}
	if cfg.Tracker.IdleTimeout != 45*time.Minute {
		t.Errorf("Tracker.IdleTimeout = %s, want 45m", cfg.Tracker.IdleTimeout)
	}
	if !cfg.Assist.Enabled || cfg.Assist.Command != "calm-bot" {
		t.Errorf("Assist = %+v, want enabled calm-bot", cfg.Assist)
	}
	if got := cfg.AssistMinLevel(); got != tracker.LevelMedium {
		t.Errorf("AssistMinLevel() = %v, want medium", got)
	}

	// Defaults still apply for unspecified fields.
	if cfg.UI.SnapshotInterval == 0 {
		t.Error("UI.SnapshotInterval should have a default, got 0")
	}
	if cfg.Assist.Cooldown != 5*time.Minute {
		t.Errorf("Assist.Cooldown = %s, want 5m", cfg.Assist.Cooldown)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() on missing file should return error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}

	if cfg.Server.Port != 7399 {
		t.Errorf("Server.Port = %d, want default 7399", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want default 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Tracker.IdleTimeout != tracker.DefaultIdleTimeout {
		t.Errorf("Tracker.IdleTimeout = %s, want %s", cfg.Tracker.IdleTimeout, tracker.DefaultIdleTimeout)
	}
	if got := cfg.AssistMinLevel(); got != tracker.LevelHigh {
		t.Errorf("AssistMinLevel() = %v, want high default", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte(":::not valid yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() with invalid YAML should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero idle timeout", func(c *Config) { c.Tracker.IdleTimeout = 0 }, true},
		{"bad min level", func(c *Config) { c.Assist.MinLevel = "frantic" }, true},
		{"assist enabled without command", func(c *Config) { c.Assist.Enabled = true }, true},
		{"assist enabled with command", func(c *Config) {
			c.Assist.Enabled = true
			c.Assist.Command = "calm-bot"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if len(tok) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("token length = %d, want 32", len(tok))
	}

	tok2, _ := GenerateToken()
	if tok == tok2 {
		t.Error("two generated tokens should not be identical")
	}
}

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strain-dev/strain/internal/tracker"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Tracker TrackerConfig `yaml:"tracker"`
	Assist  AssistConfig  `yaml:"assist"`
	UI      UIConfig      `yaml:"ui"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AuthToken      string   `yaml:"auth_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type TrackerConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type AssistConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Command   string        `yaml:"command"`
	Args      []string      `yaml:"args"`
	MinLevel  string        `yaml:"min_level"`
	Cooldown  time.Duration `yaml:"cooldown"`
	SignalDir string        `yaml:"signal_dir"`
}

type UIConfig struct {
	SnapshotInterval  time.Duration `yaml:"snapshot_interval"`
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 7399,
			Host: "127.0.0.1",
		},
		Tracker: TrackerConfig{
			IdleTimeout: tracker.DefaultIdleTimeout,
		},
		Assist: AssistConfig{
			MinLevel: "high",
			Cooldown: 10 * time.Minute,
		},
		UI: UIConfig{
			SnapshotInterval:  5 * time.Second,
			BroadcastThrottle: 100 * time.Millisecond,
		},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Tracker.IdleTimeout <= 0 {
		return fmt.Errorf("tracker.idle_timeout must be positive, got %s", c.Tracker.IdleTimeout)
	}
	if _, err := tracker.ParseLevel(c.assistMinLevelName()); err != nil {
		return fmt.Errorf("assist.min_level: %w", err)
	}
	if c.Assist.Enabled && c.Assist.Command == "" {
		return fmt.Errorf("assist.enabled is set but assist.command is empty")
	}
	return nil
}

func (c *Config) assistMinLevelName() string {
	if c.Assist.MinLevel == "" {
		return "high"
	}
	return c.Assist.MinLevel
}

// AssistMinLevel returns the parsed trigger level. Unparseable values fall
// back to high rather than low so a bad config can never make every report
// launch the assistant.
func (c *Config) AssistMinLevel() tracker.Level {
	l, err := tracker.ParseLevel(c.assistMinLevelName())
	if err != nil {
		return tracker.LevelHigh
	}
	return l
}

// GenerateToken returns a random hex token for WebSocket/API auth.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

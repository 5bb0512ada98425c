// Package config loads client configuration from a YAML file with
// environment-variable overrides. A missing file is not an error; every
// field has a usable default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// BackendConfig describes how to reach the research backend.
type BackendConfig struct {
	// Local selects the fixed local development base address.
	Local bool `yaml:"local"`
	// BaseURL is the deployment-provided override; when both Local is
	// false and BaseURL is empty, requests use same-origin relative paths.
	BaseURL string `yaml:"base_url"`
	// APIKey is attached to every request in gateway deployments.
	APIKey string `yaml:"api_key"`
	// UserID identifies this client to the backend.
	UserID string `yaml:"user_id"`

	ChatTimeoutSeconds    int `yaml:"chat_timeout_seconds"`
	AnalyzeTimeoutSeconds int `yaml:"analyze_timeout_seconds"`

	// RequestsPerMinute caps client-side request rate. Zero or negative
	// means no limit.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // otlp, stdout, none
	Endpoint string `yaml:"endpoint"`
}

// MonitorConfig controls monitor mode.
type MonitorConfig struct {
	// Schedule is a cron expression (robfig/cron syntax, @every accepted).
	Schedule string `yaml:"schedule"`
	// Port serves /metrics and /health.
	Port int `yaml:"port"`
}

// ChatTimeout returns the chat bound as a duration.
func (b BackendConfig) ChatTimeout() time.Duration {
	return time.Duration(b.ChatTimeoutSeconds) * time.Second
}

// AnalyzeTimeout returns the analysis bound as a duration.
func (b BackendConfig) AnalyzeTimeout() time.Duration {
	return time.Duration(b.AnalyzeTimeoutSeconds) * time.Second
}

// Load reads configuration from path, applies defaults, then environment
// overrides. An empty path or missing file yields pure defaults. A .env
// file in the working directory is honored first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.UserID == "" {
		c.Backend.UserID = "vakeel-cli"
	}
	if c.Backend.ChatTimeoutSeconds == 0 {
		c.Backend.ChatTimeoutSeconds = 120
	}
	if c.Backend.AnalyzeTimeoutSeconds == 0 {
		c.Backend.AnalyzeTimeoutSeconds = 180
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "stdout"
	}
	if c.Monitor.Schedule == "" {
		c.Monitor.Schedule = "@every 30s"
	}
	if c.Monitor.Port == 0 {
		c.Monitor.Port = 9090
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VAKEEL_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("VAKEEL_API_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("VAKEEL_USER_ID"); v != "" {
		c.Backend.UserID = v
	}
	if v := os.Getenv("VAKEEL_LOCAL"); v != "" {
		c.Backend.Local = v == "true" || v == "1"
	}
	if v := os.Getenv("VAKEEL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VAKEEL_MONITOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Monitor.Port = port
		}
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Backend.ChatTimeoutSeconds < 0 {
		return fmt.Errorf("chat_timeout_seconds must not be negative")
	}
	if c.Backend.AnalyzeTimeoutSeconds < 0 {
		return fmt.Errorf("analyze_timeout_seconds must not be negative")
	}
	if c.Monitor.Port < 0 || c.Monitor.Port > 65535 {
		return fmt.Errorf("monitor port %d out of range", c.Monitor.Port)
	}
	return nil
}

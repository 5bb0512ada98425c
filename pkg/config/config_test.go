package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Backend.Local)
	assert.Equal(t, "vakeel-cli", cfg.Backend.UserID)
	assert.Equal(t, 120, cfg.Backend.ChatTimeoutSeconds)
	assert.Equal(t, 180, cfg.Backend.AnalyzeTimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "@every 30s", cfg.Monitor.Schedule)
	assert.Equal(t, 9090, cfg.Monitor.Port)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Backend.ChatTimeoutSeconds)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vakeel.yaml")
	data := []byte(`
backend:
  base_url: https://gateway.example.com/legal
  api_key: file-key
  chat_timeout_seconds: 30
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com/legal", cfg.Backend.BaseURL)
	assert.Equal(t, "file-key", cfg.Backend.APIKey)
	assert.Equal(t, 30, cfg.Backend.ChatTimeoutSeconds)
	assert.Equal(t, 180, cfg.Backend.AnalyzeTimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vakeel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: https://from-file\n"), 0o600))

	t.Setenv("VAKEEL_BACKEND_URL", "https://from-env")
	t.Setenv("VAKEEL_API_KEY", "env-key")
	t.Setenv("VAKEEL_LOCAL", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env", cfg.Backend.BaseURL)
	assert.Equal(t, "env-key", cfg.Backend.APIKey)
	assert.True(t, cfg.Backend.Local)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Backend.ChatTimeoutSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = &Config{}
	cfg.applyDefaults()
	cfg.Monitor.Port = 70000
	assert.Error(t, cfg.Validate())
}

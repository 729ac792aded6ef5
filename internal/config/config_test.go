package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Export.EscapeFields)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://sales.example.com/api
  timeout: 5s
  rate_limit: 0
export:
  dir: /tmp/exports
  escape_fields: true
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "https://sales.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Zero(t, cfg.API.RateLimit)
	assert.Equal(t, 2, cfg.API.Burst, "unset keys keep defaults")
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
	assert.True(t, cfg.Export.EscapeFields)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: https://file.example.com\n")
	t.Setenv("SALESVIEW_BASE_URL", "https://env.example.com")
	t.Setenv("SALESVIEW_TIMEOUT", "2s")
	t.Setenv("SALESVIEW_LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit path must exist")

	_, err = Load(writeConfig(t, "api: [not, a, map]"))
	assert.Error(t, err)

	t.Setenv("SALESVIEW_TIMEOUT", "soon")
	_, err = Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.API.Burst = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty export dir", func(c *Config) { c.Export.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "https://internshala.com", cfg.Portal.BaseURL)
	assert.True(t, cfg.Portal.Headless)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 300*time.Second, cfg.Timeouts.ApplyRequest)
	assert.Equal(t, 2, cfg.Providers.Retries)
	assert.Equal(t, time.Second, cfg.Providers.Backoff)
	assert.False(t, cfg.AlertsEnabled())
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
portal:
  base_url: https://portal.example.com/
  headless: false
cache:
  ttl: 10m
providers:
  enabled: [Remotive]
  retries: 4
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "9090")
	t.Setenv("PORTAL_HEADLESS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "https://portal.example.com", cfg.Portal.BaseURL)
	assert.True(t, cfg.Portal.Headless, "env must win over YAML")
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"Remotive"}, cfg.Providers.Enabled)
	assert.Equal(t, 4, cfg.Providers.Retries)
	assert.Equal(t, "https://portal.example.com/internships", cfg.PortalURL("internships"))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{
			name: "bad base url",
			yaml: "portal:\n  base_url: ftp://nope\n",
		},
		{
			name: "telegram token without chat id",
			yaml: "telegram_token: abc\n",
		},
		{
			name: "bad chat id",
			env:  map[string]string{"TELEGRAM_CHAT_ID": "not-a-number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", writeConfig(t, tt.yaml))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

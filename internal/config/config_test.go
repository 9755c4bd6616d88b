package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GROUNDWORK_DB", "GROUNDWORK_HTTP_ADDR", "GROUNDWORK_LOG_LEVEL", "GROUNDWORK_LOG_FILE",
		"GROUNDWORK_WEBHOOK_URL", "GROUNDWORK_WEBHOOK_TIMEOUT_MS", "GROUNDWORK_ROLLUP_WEIGHTING",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".groundwork", "groundwork.db"), cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, "mean", cfg.RollupWeighting)
	assert.False(t, cfg.WebhookEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROUNDWORK_DB", "/tmp/gw.db")
	t.Setenv("GROUNDWORK_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("GROUNDWORK_LOG_LEVEL", "DEBUG")
	t.Setenv("GROUNDWORK_WEBHOOK_URL", "http://hooks.local/events")
	t.Setenv("GROUNDWORK_WEBHOOK_TIMEOUT_MS", "250")
	t.Setenv("GROUNDWORK_ROLLUP_WEIGHTING", "Budget")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/gw.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.WebhookTimeout)
	assert.Equal(t, "budget", cfg.RollupWeighting)
	assert.True(t, cfg.WebhookEnabled())
}

func TestLoad_InvalidTimeoutIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROUNDWORK_DB", "/tmp/gw.db")
	t.Setenv("GROUNDWORK_WEBHOOK_TIMEOUT_MS", "soon")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("GROUNDWORK_DB")
	os.Unsetenv("GROUNDWORK_HTTP_ADDR")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GROUNDWORK_DB=/data/site.db\nGROUNDWORK_HTTP_ADDR=:7070\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GROUNDWORK_DB")
		os.Unsetenv("GROUNDWORK_HTTP_ADDR")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/data/site.db", cfg.DBPath)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}

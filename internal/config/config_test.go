package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, BackendSQLite, cfg.SettingsBackend)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "AI Report Generator", cfg.AppTitle)
	assert.Zero(t, cfg.RequestTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REPORTGEN_ENV", "production")
	t.Setenv("REPORTGEN_SETTINGS_BACKEND", " Keyring ")
	t.Setenv("REPORTGEN_API_BASE_URL", "http://127.0.0.1:9999/v1/")
	t.Setenv("REPORTGEN_REQUEST_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendKeyring, cfg.SettingsBackend)
	assert.Equal(t, "http://127.0.0.1:9999/v1", cfg.APIBaseURL)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REPORTGEN_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REPORTGEN_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REPORTGEN_SETTINGS_BACKEND", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings backend")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

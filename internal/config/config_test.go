package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api-v2.forager.ai", cfg.Forager.BaseURL)
	assert.Equal(t, 30, cfg.Forager.TimeoutSecs)
	assert.InDelta(t, 10.0, cfg.Forager.RateLimit, 0.001)
	assert.Equal(t, "https://data.api.aviato.co", cfg.Aviato.BaseURL)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "contacts.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 5, cfg.Batch.EnrichSize)
	assert.Equal(t, 3, cfg.Batch.LookupSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "presets.yaml", cfg.Presets)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
forager:
  api_key: fk-123
  account_id: acct-1
aviato:
  api_key: ak-456
store:
  driver: postgres
  database_url: postgres://localhost/chert
batch:
  enrich_size: 8
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fk-123", cfg.Forager.APIKey)
	assert.Equal(t, "acct-1", cfg.Forager.AccountID)
	assert.Equal(t, "ak-456", cfg.Aviato.APIKey)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/chert", cfg.Store.DatabaseURL)
	assert.Equal(t, 8, cfg.Batch.EnrichSize)
	// Untouched keys keep defaults.
	assert.Equal(t, 3, cfg.Batch.LookupSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CHERT_FORAGER_API_KEY", "env-key")
	t.Setenv("CHERT_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Forager.APIKey)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/profile.yaml", cfg.Profile.Path)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "data/investors.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(1500), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "reports", cfg.Outreach.ReportsDir)
	assert.Equal(t, 20, cfg.Outreach.RequestsPerMin)
	assert.Equal(t, 3, cfg.Outreach.MaxRetries)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DONUT_STORE_DRIVER", "postgres")
	t.Setenv("DONUT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AdminWhitelist)
}

func TestLoad_TokenRequiredOutsideTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DISCORD_TOKEN", "")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_AdminWhitelist(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("ADMIN_WHITELIST", "123,456")

	cfg, err := load()
	require.NoError(t, err)
	assert.True(t, cfg.IsAdminWhitelisted(123))
	assert.True(t, cfg.IsAdminWhitelisted(456))
	assert.False(t, cfg.IsAdminWhitelisted(789))
}

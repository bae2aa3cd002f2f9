package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Shelf.Capacity)
	assert.Equal(t, "hotseat", cfg.Ranking.Surface)
	assert.True(t, cfg.Ranking.Enabled)
	require.NoError(t, cfg.validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHELF_CAPACITY", "7")
	t.Setenv("RANKING_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Shelf.Capacity)
	assert.False(t, cfg.Ranking.Enabled)
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	t.Setenv("SHELF_CAPACITY", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SHELF_CAPACITY", "5")
	t.Setenv("SHELF_COLUMNS", "-1")
	_, err = Load()
	assert.Error(t, err)
}

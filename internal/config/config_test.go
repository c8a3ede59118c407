package config_test

import (
	"path/filepath"
	"testing"

	"github.com/latoulicious/mtgmeta/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigRequiresDatabaseURL tests that a missing DATABASE_URL is an
// error rather than a silently broken config
func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

// TestLoadConfigDefaults tests the built-in defaults with only the
// required variable set
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/mtgmeta")
	for _, key := range []string{"PORT", "API_URL", "DATA_DIR", "SYNC_SCHEDULE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SyncSchedule)
}

// TestLoadConfigEnvOverrides tests that environment variables win over
// defaults
func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/mtgmeta")
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_DIR", "/var/lib/mtgmeta")
	t.Setenv("SYNC_SCHEDULE", "0 3 * * *")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/var/lib/mtgmeta", cfg.DataDir)
	assert.Equal(t, "0 3 * * *", cfg.SyncSchedule)

	assert.Equal(t, filepath.Join("/var/lib/mtgmeta", "cache"), cfg.CacheDir())
	assert.Equal(t, filepath.Join("/var/lib/mtgmeta", "symbols"), cfg.SymbolsDir())
}

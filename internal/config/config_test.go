package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, int64(1<<20), cfg.Import.MaxBytes)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 2*time.Hour, cfg.Editor.SessionTTL)
	assert.False(t, cfg.Sweeper.Enabled)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("database:\n  driver: memory\njwt:\n  expiration: 30m\nimport:\n  max_bytes: 2048\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SERVER_ADDRESS", ":9999")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, int64(2048), cfg.Import.MaxBytes)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	bad := cfg
	bad.Database.Driver = "sqlite"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.S3.Enabled = true
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Auth.Provider = "oauth"
	assert.Error(t, bad.Validate())
}

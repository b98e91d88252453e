package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 1440, cfg.SessionTTLMinutes)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nestboxd.yaml")
	content := "server_port: 9000\nimage_directory: /var/lib/nestboxd/images\ndatabase:\n  host: db.internal\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.ServerPort, "env must win over file")
	assert.Equal(t, "/var/lib/nestboxd/images", cfg.ImageDirectory)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}

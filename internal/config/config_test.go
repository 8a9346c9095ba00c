package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerURL)
	assert.True(t, cfg.CacheEnabled)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: http://organizer.local\n"+
			"request_timeout_seconds: 3\n"+
			"basic_auth:\n  username: ana\n  password: pw\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://organizer.local", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout())
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "ana", cfg.BasicAuth.Username)
}

func TestNormalize(t *testing.T) {
	cfg := &Config{RequestTimeoutSeconds: -1, BasicAuth: &BasicAuth{Username: "ana"}}
	cfg.Normalize()

	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerURL)
	assert.Equal(t, 10, cfg.RequestTimeoutSeconds)
	assert.Nil(t, cfg.BasicAuth, "incomplete credentials are dropped")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  api_key: "secret"
database:
  dsn: "host=localhost"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 60, cfg.Server.CacheTTLSeconds)

	assert.Equal(t, 3*time.Second, cfg.Controller.Interval)
	assert.Equal(t, 10, cfg.Controller.BatchLimit)
	assert.Equal(t, 1, cfg.Controller.LookbackHours)
	assert.Equal(t, float64(60), cfg.Controller.ValueThreshold)
	assert.Equal(t, "secret", cfg.Controller.APIKey, "controller key falls back to the server key")

	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  api_key: "secret"
controller:
  enabled: true
  interval_seconds: 10
  api_key: "controller-secret"
  value_threshold: 42.5
worker_pool:
  size: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Controller.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Controller.Interval)
	assert.Equal(t, "controller-secret", cfg.Controller.APIKey)
	assert.Equal(t, 42.5, cfg.Controller.ValueThreshold)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

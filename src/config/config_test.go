package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "stock-trend", cfg.Name)
	assert.Equal(t, 8501, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage.DBType)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, 100, cfg.Forest.Trees)
	assert.Equal(t, uint64(42), cfg.Forest.Seed)
	assert.Equal(t, 0, cfg.Network.MaxRetries)
	assert.Equal(t, 0, cfg.Network.RequestTimeout)
}

func TestNewConfigOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
name: trend-dev
port: 9000
log_level: DEBUG
storage:
  db_type: memory
network:
  timeout: 15
  retries: 2
`)
	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "trend-dev", cfg.Name)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.Storage.DBType)
	assert.Equal(t, 15, cfg.Network.RequestTimeout)
	assert.Equal(t, 2, cfg.Network.MaxRetries)
	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Forest.Trees)
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"privileged port": "port: 80\n",
		"unknown backend": "storage:\n  db_type: postgres\n",
		"unknown level":   "log_level: TRACE\n",
		"negative retry":  "network:\n  retries: -1\n",
		"no trees":        "forest:\n  trees: -3\n",
		"proxy required":  "network:\n  enabled: true\n",
		"port collision":  "port: 50051\ngrpc_port: 50051\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestNewConfigRejectsBrokenYAML(t *testing.T) {
	_, err := NewConfig(writeConfig(t, "port: [1, 2\n"))
	assert.Error(t, err)
}

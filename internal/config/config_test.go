package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  path: storage/storage.db
http_server:
  address: localhost:8082
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "storage/storage.db", cfg.Storage.Path)
	assert.Equal(t, "localhost:8082", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.False(t, cfg.LegacyStatusCodes)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage:
  driver: postgres
http_server:
  address: :8080
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "DSN")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: mongo
http_server:
  address: :8080
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "Driver")
}

func TestLoadMemoryNeedsNoPath(t *testing.T) {
	path := writeConfig(t, `
env: staging
storage:
  driver: memory
http_server:
  address: :8080
legacy_status_codes: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.LegacyStatusCodes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	_, err = Load("")
	assert.ErrorContains(t, err, "config path is not set")
}

func TestResolvePathPrefersEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/from/env.yaml")
	assert.Equal(t, "/from/env.yaml", ResolvePath("/from/flag.yaml"))

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "/from/flag.yaml", ResolvePath("/from/flag.yaml"))
}

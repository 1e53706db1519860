package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/tasks")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "frontend/dist", cfg.StaticDir)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	pool := cfg.PoolConfig()
	assert.Equal(t, 5, pool.MaxConns)
	assert.Equal(t, 1, pool.MinIdle)
	assert.Equal(t, 60*time.Second, pool.AcquireTimeout)
	assert.Equal(t, 300*time.Second, pool.MaxIdleTime)
	assert.Equal(t, 1800*time.Second, pool.MaxLifetime)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://data/tasks.db")
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2, cfg.Pool.MaxConns)
	assert.Equal(t, 3*time.Second, cfg.Pool.AcquireTimeout)
	assert.Equal(t, "sqlite", cfg.Backend())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: postgres://u:p@db:5432/tasks
addr: ":8081"
log_level: debug
pool:
  max_conns: 3
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/tasks", cfg.DatabaseURL)
	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, 3, cfg.Pool.MaxConns)
	assert.Equal(t, 1, cfg.Pool.MinIdle)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "postgres", cfg.Backend())
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://tasks.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite://tasks.db", cfg.DatabaseURL)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.SlogLevel(), in)
	}
}

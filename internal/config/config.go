package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"tasktracker/internal/storage"
)

// Config holds the process settings read from the environment and an optional YAML file.
type Config struct {
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	Addr            string        `yaml:"addr" env:"ADDR" env-default:":3000"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR" env-default:"frontend/dist"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	Pool            Pool          `yaml:"pool"`
}

// Pool bounds the database connection pool.
type Pool struct {
	MaxConns       int           `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"5"`
	MinIdle        int           `yaml:"min_idle" env:"DB_MIN_IDLE" env-default:"1"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" env:"DB_ACQUIRE_TIMEOUT" env-default:"60s"`
	MaxIdleTime    time.Duration `yaml:"max_idle_time" env:"DB_MAX_IDLE_TIME" env-default:"300s"`
	MaxLifetime    time.Duration `yaml:"max_lifetime" env:"DB_MAX_LIFETIME" env-default:"1800s"`
}

// Load reads the configuration. With an empty path only the environment is used; a path that
// does not exist falls back to the environment as well.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("cannot read env: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
	}
	return cfg, nil
}

// PoolConfig converts the pool section into the storage bounds.
func (c Config) PoolConfig() storage.PoolConfig {
	return storage.PoolConfig{
		MaxConns:       c.Pool.MaxConns,
		MinIdle:        c.Pool.MinIdle,
		AcquireTimeout: c.Pool.AcquireTimeout,
		MaxIdleTime:    c.Pool.MaxIdleTime,
		MaxLifetime:    c.Pool.MaxLifetime,
	}
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Backend reports which store DatabaseURL selects: "postgres" or "sqlite".
func (c Config) Backend() string {
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

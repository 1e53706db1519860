// Package postgres implements the task store on PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasktracker/internal/storage"
)

// Pool is a bounded set of PostgreSQL connections shared by all request handlers.
type Pool struct {
	pool   *pgxpool.Pool
	cfg    storage.PoolConfig
	logger *slog.Logger
}

var _ storage.Pool = (*Pool)(nil)

// Config builds the pgxpool configuration for databaseURL with the given bounds.
func Config(databaseURL string, pc storage.PoolConfig, logger *slog.Logger) (*pgxpool.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc = pc.WithDefaults()

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.MaxConns = int32(pc.MaxConns)
	cfg.MinConns = int32(pc.MinIdle)
	cfg.MaxConnIdleTime = pc.MaxIdleTime
	cfg.MaxConnLifetime = pc.MaxLifetime

	// Validate every connection on checkout; returning false makes the pool destroy it and
	// hand out another one.
	cfg.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn("discarding connection that failed validation", "error", err)
			return false
		}
		return true
	}

	return cfg, nil
}

// Open connects the pool and applies pending migrations.
func Open(ctx context.Context, databaseURL string, pc storage.PoolConfig, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc = pc.WithDefaults()

	cfg, err := Config(databaseURL, pc, logger)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, pc.AcquireTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	p := &Pool{pool: pool, cfg: pc, logger: logger}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Debug("postgres pool ready", "max_conns", cfg.MaxConns, "min_conns", cfg.MinConns)
	return p, nil
}

// Acquire checks out a validated connection, waiting at most the configured acquire timeout.
func (p *Pool) Acquire(ctx context.Context) (storage.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.AcquireTimeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, storage.UnavailableError(err)
	}
	return &Conn{conn: conn}, nil
}

// Stat exposes pool counters.
func (p *Pool) Stat() *pgxpool.Stat {
	return p.pool.Stat()
}

// Close waits for checked-out connections to be released and closes the pool.
func (p *Pool) Close() error {
	p.pool.Close()
	return nil
}

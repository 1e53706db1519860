package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tasktracker/internal/storage"
)

// retryDelay spaces out checkouts after a connection failed validation.
const retryDelay = 10 * time.Millisecond

// Store wraps a bounded pool of SQLite connections.
type Store struct {
	db       *sql.DB
	cfg      storage.PoolConfig
	logger   *slog.Logger
	validate func(ctx context.Context, conn *sql.Conn) error
}

var _ storage.Pool = (*Store)(nil)

// PathFromURL extracts the database file path from a sqlite:// or file: URL.
func PathFromURL(url string) string {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return strings.TrimPrefix(url, "sqlite://")
	case strings.HasPrefix(url, "sqlite:"):
		return strings.TrimPrefix(url, "sqlite:")
	case strings.HasPrefix(url, "file:"):
		path, _, _ := strings.Cut(strings.TrimPrefix(url, "file:"), "?")
		return path
	}
	return url
}

// Open initializes the SQLite pool and applies pending migrations.
func Open(ctx context.Context, dbPath string, cfg storage.PoolConfig, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.WithDefaults()

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxConns)
	conn.SetMaxIdleConns(cfg.MaxConns)
	conn.SetConnMaxIdleTime(cfg.MaxIdleTime)
	conn.SetConnMaxLifetime(cfg.MaxLifetime)

	s := &Store{db: conn, cfg: cfg, logger: logger, validate: ping}
	if err := s.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := s.warmUp(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("sqlite pool ready", "path", dbPath, "max_conns", cfg.MaxConns, "min_idle", cfg.MinIdle)
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Acquire checks out a connection and validates it before handing it over. Connections failing
// validation are discarded and another one is tried until the acquire timeout elapses.
func (s *Store) Acquire(ctx context.Context) (storage.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AcquireTimeout)
	defer cancel()

	for {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return nil, storage.UnavailableError(err)
		}
		if err := s.validate(ctx, conn); err != nil {
			s.logger.Warn("discarding connection that failed validation", "error", err)
			discard(conn)
			select {
			case <-ctx.Done():
				return nil, storage.UnavailableError(err)
			case <-time.After(retryDelay):
			}
			continue
		}
		return &Conn{conn: conn}, nil
	}
}

// warmUp opens MinIdle connections so they sit idle in the pool before the first request.
func (s *Store) warmUp(ctx context.Context) error {
	conns := make([]*sql.Conn, 0, s.cfg.MinIdle)
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	for i := 0; i < s.cfg.MinIdle; i++ {
		c, err := s.db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("warm up pool: %w", err)
		}
		conns = append(conns, c)
	}
	return nil
}

func ping(ctx context.Context, conn *sql.Conn) error {
	return conn.PingContext(ctx)
}

// discard forces database/sql to drop the underlying driver connection instead of pooling it.
func discard(conn *sql.Conn) {
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Package storage defines the task persistence contract shared by the database backends.
//
// A handler borrows a Conn from a Pool, performs exactly one operation on it and releases it.
// Backends translate their driver errors into ErrNotFound, ErrPoolExhausted and ErrStore.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/models"
)

var (
	// ErrPoolExhausted is returned when no connection could be checked out before the acquire
	// timeout, or the backend is unreachable.
	ErrPoolExhausted = errors.New("database connection unavailable")
	// ErrNotFound is returned when no active task matches the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrStore wraps any other backend failure.
	ErrStore = errors.New("store error")
)

// Pool hands out validated connections to concurrent callers.
type Pool interface {
	// Acquire blocks until a live connection is available or the acquire timeout elapses.
	Acquire(ctx context.Context) (Conn, error)
	// Close releases every pooled connection.
	Close() error
}

// Conn is a checked-out connection exposing the task operations.
type Conn interface {
	CreateTask(ctx context.Context, task models.NewTask) (models.Task, error)
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, task models.NewTask) (models.Task, error)
	// SoftDeleteTask stamps deleted_at on the row with id whether or not it is already deleted and
	// returns the number of rows touched.
	SoftDeleteTask(ctx context.Context, id int64) (int64, error)
	// Release returns the connection to its pool. It is safe to call more than once.
	Release()
}

// PoolConfig bounds the connection pool of a backend.
type PoolConfig struct {
	MaxConns       int
	MinIdle        int
	AcquireTimeout time.Duration
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// DefaultPoolConfig returns the pool bounds used when nothing is configured.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:       5,
		MinIdle:        1,
		AcquireTimeout: 60 * time.Second,
		MaxIdleTime:    300 * time.Second,
		MaxLifetime:    1800 * time.Second,
	}
}

// WithDefaults fills zero fields from DefaultPoolConfig.
func (c PoolConfig) WithDefaults() PoolConfig {
	def := DefaultPoolConfig()
	if c.MaxConns <= 0 {
		c.MaxConns = def.MaxConns
	}
	if c.MinIdle < 0 {
		c.MinIdle = 0
	}
	if c.MinIdle > c.MaxConns {
		c.MinIdle = c.MaxConns
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = def.AcquireTimeout
	}
	if c.MaxIdleTime <= 0 {
		c.MaxIdleTime = def.MaxIdleTime
	}
	if c.MaxLifetime <= 0 {
		c.MaxLifetime = def.MaxLifetime
	}
	return c
}

// StoreError wraps a backend failure of operation op so that it matches ErrStore while keeping the
// driver error in the chain.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// UnavailableError wraps an acquire failure so that it matches ErrPoolExhausted.
func UnavailableError(err error) error {
	return fmt.Errorf("%w: %w", ErrPoolExhausted, err)
}

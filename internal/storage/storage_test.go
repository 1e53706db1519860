package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()

	assert.Equal(t, 5, cfg.MaxConns)
	assert.Equal(t, 1, cfg.MinIdle)
	assert.Equal(t, 60*time.Second, cfg.AcquireTimeout)
	assert.Equal(t, 300*time.Second, cfg.MaxIdleTime)
	assert.Equal(t, 1800*time.Second, cfg.MaxLifetime)
}

func TestPoolConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   PoolConfig
		want PoolConfig
	}{
		{
			name: "zero value",
			in:   PoolConfig{},
			want: PoolConfig{MaxConns: 5, MinIdle: 0, AcquireTimeout: time.Minute, MaxIdleTime: 5 * time.Minute, MaxLifetime: 30 * time.Minute},
		},
		{
			name: "min idle clamped to max conns",
			in:   PoolConfig{MaxConns: 2, MinIdle: 4},
			want: PoolConfig{MaxConns: 2, MinIdle: 2, AcquireTimeout: time.Minute, MaxIdleTime: 5 * time.Minute, MaxLifetime: 30 * time.Minute},
		},
		{
			name: "explicit values kept",
			in:   PoolConfig{MaxConns: 8, MinIdle: 1, AcquireTimeout: time.Second, MaxIdleTime: 2 * time.Second, MaxLifetime: 3 * time.Second},
			want: PoolConfig{MaxConns: 8, MinIdle: 1, AcquireTimeout: time.Second, MaxIdleTime: 2 * time.Second, MaxLifetime: 3 * time.Second},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.WithDefaults())
		})
	}
}

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   PoolConfig
		want PoolConfig
	}{
		{
			name: "zero value",
			in:   PoolConfig{},
			want: PoolConfig{MaxConns: 10, MinConns: 2, PingTimeout: 5 * time.Second},
		},
		{
			name: "min above max is clamped",
			in:   PoolConfig{MaxConns: 1, MinConns: 4},
			want: PoolConfig{MaxConns: 1, MinConns: 1, PingTimeout: 5 * time.Second},
		},
		{
			name: "explicit values kept",
			in:   PoolConfig{MaxConns: 20, MinConns: 5, MaxConnIdleTime: time.Minute, PingTimeout: time.Second},
			want: PoolConfig{MaxConns: 20, MinConns: 5, MaxConnIdleTime: time.Minute, PingTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.withDefaults())
		})
	}
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowMillis(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   int64
	}{
		{"minute", time.Minute, 60000},
		{"sub second", 500 * time.Millisecond, 500},
		{"sub millisecond", 200 * time.Microsecond, 1},
		{"zero", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(nil, &Config{WindowDuration: tt.window})
			assert.Equal(t, tt.want, r.windowMillis())
		})
	}
}

func TestIsAllowedBypassesRedis(t *testing.T) {
	cfg := &Config{
		Enabled:        true,
		WindowDuration: time.Minute,
		APIRequests:    5,
		WhitelistedIPs: []string{"10.0.0.1"},
	}
	r := NewRateLimiter(nil, cfg)

	res, err := r.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeAPI)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Remaining)

	cfg.Enabled = false
	res, err = r.IsAllowed(context.Background(), "192.168.1.1", RateLimitTypeAPI)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

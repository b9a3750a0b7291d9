package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurst(t *testing.T) {
	// Tiny refill rate so only the burst is usable within the test.
	l := NewMemoryLimiter(0.0001, 3)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow("09123456789")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := l.Allow("09123456789")
	require.NoError(t, err)
	assert.False(t, ok, "burst exhausted")
}

func TestMemoryLimiterKeysIsolated(t *testing.T) {
	l := NewMemoryLimiter(0.0001, 1)

	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.False(t, ok)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "second key has its own bucket")
}

func TestMemoryLimiterReset(t *testing.T) {
	l := NewMemoryLimiter(0.0001, 1)

	ok, _ := l.Allow("a")
	require.True(t, ok)
	ok, _ = l.Allow("a")
	require.False(t, ok)

	require.NoError(t, l.Reset("a"))

	ok, _ = l.Allow("a")
	assert.True(t, ok, "fresh bucket after reset")
}

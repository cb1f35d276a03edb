package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowRequestEnforcesMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(3, 100, true)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest(), "request %d should pass", i+1)
	}
	assert.False(t, rl.AllowRequest(), "fourth request in the same minute is rejected")
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.AllowRequest())
	}
	assert.False(t, rl.GetStats().Enabled)
}

func TestResetClearsWindows(t *testing.T) {
	rl := NewRateLimiter(2, 100, true)
	rl.AllowRequest()
	rl.AllowRequest()
	assert.False(t, rl.AllowRequest())

	rl.Reset()
	assert.True(t, rl.AllowRequest())
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(5, 10, true)
	rl.AllowRequest()
	rl.AllowRequest()

	stats := rl.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMinute)
	assert.Equal(t, 3, stats.RemainingThisMinute)
	assert.Equal(t, 8, stats.RemainingThisHour)
}

package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewDefaultsInterval(t *testing.T) {
	s := New(nil, zap.NewNop().Sugar(), 0)
	assert.Equal(t, time.Hour, s.interval)

	s = New(nil, zap.NewNop().Sugar(), 10*time.Minute)
	assert.Equal(t, 10*time.Minute, s.interval)
}

func TestSweepTargetsEndedEvents(t *testing.T) {
	// The sweep must wait for the event to be over, not merely started,
	// and must only touch confirmed registrations.
	assert.Contains(t, completionSweepQuery, "e.end_date_time < NOW()")
	assert.NotContains(t, completionSweepQuery, "start_date_time")
	assert.Contains(t, completionSweepQuery, "r.status = 'CONFIRMED'")
	assert.Contains(t, completionSweepQuery, "SET status = 'COMPLETED'")
	assert.False(t, strings.Contains(completionSweepQuery, "PENDING"))
}

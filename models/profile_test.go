package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRegistrations(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	reg := func(status string, start, regEnd time.Time) ProfileRegistration {
		return ProfileRegistration{
			EventRegistration: EventRegistration{Status: status},
			Event: ProfileEvent{
				Event: Event{StartDateTime: start, RegistrationEnd: regEnd},
			},
		}
	}

	regs := []ProfileRegistration{
		reg(RegistrationStatusConfirmed, now.Add(24*time.Hour), now.Add(12*time.Hour)),
		reg(RegistrationStatusPending, now.Add(48*time.Hour), now.Add(-time.Hour)),
		reg(RegistrationStatusConfirmed, now.Add(-24*time.Hour), now.Add(-48*time.Hour)),
		reg(RegistrationStatusCompleted, now.Add(-72*time.Hour), now.Add(-96*time.Hour)),
		reg(RegistrationStatusCancelled, now.Add(72*time.Hour), now.Add(48*time.Hour)),
	}

	upcoming, past, stats := SplitRegistrations(regs, now)

	require.Len(t, upcoming, 3)
	require.Len(t, past, 2)

	// Cancelled rows stay in the history and in the totals; only the
	// confirmed counter is status-filtered.
	assert.Equal(t, 5, stats.TotalRegistrations)
	assert.Equal(t, 3, stats.UpcomingEvents)
	assert.Equal(t, 2, stats.PastEvents)
	assert.Equal(t, 2, stats.ConfirmedRegistrations)

	for _, r := range upcoming {
		assert.False(t, r.Event.IsPast)
	}
	for _, r := range past {
		assert.True(t, r.Event.IsPast)
		assert.False(t, r.Event.RegistrationOpen)
	}

	// Registration flag follows the event's own window, not the bucket.
	assert.True(t, upcoming[0].Event.RegistrationOpen)
	assert.False(t, upcoming[1].Event.RegistrationOpen)
}

func TestSplitRegistrationsEmpty(t *testing.T) {
	upcoming, past, stats := SplitRegistrations(nil, time.Now())

	assert.NotNil(t, upcoming)
	assert.NotNil(t, past)
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
	assert.Equal(t, ProfileStats{}, stats)
}

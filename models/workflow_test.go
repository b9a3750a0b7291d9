package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func upcomingEvent(max *int) *Event {
	now := time.Now()
	return &Event{
		ID:              "e1",
		StartDateTime:   now.Add(48 * time.Hour),
		RegistrationEnd: now.Add(24 * time.Hour),
		MaxParticipants: max,
	}
}

func TestCheckRegister(t *testing.T) {
	now := time.Now()

	t.Run("passes with open window and free capacity", func(t *testing.T) {
		err := CheckRegister(upcomingEvent(intPtr(50)), 10, nil, now)
		assert.NoError(t, err)
	})

	t.Run("closed window", func(t *testing.T) {
		e := upcomingEvent(intPtr(50))
		e.RegistrationEnd = now.Add(-time.Minute)
		err := CheckRegister(e, 0, nil, now)
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("window boundary is closed", func(t *testing.T) {
		e := upcomingEvent(intPtr(50))
		e.RegistrationEnd = now
		err := CheckRegister(e, 0, nil, now)
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("full event", func(t *testing.T) {
		err := CheckRegister(upcomingEvent(intPtr(50)), 50, nil, now)
		assert.ErrorIs(t, err, ErrEventFull)
	})

	t.Run("unlimited capacity never full", func(t *testing.T) {
		err := CheckRegister(upcomingEvent(nil), 100000, nil, now)
		assert.NoError(t, err)
	})

	t.Run("duplicate confirmed registration", func(t *testing.T) {
		existing := &EventRegistration{Status: RegistrationStatusConfirmed}
		err := CheckRegister(upcomingEvent(intPtr(50)), 10, existing, now)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("pending registration blocks a second attempt", func(t *testing.T) {
		existing := &EventRegistration{Status: RegistrationStatusPending}
		err := CheckRegister(upcomingEvent(intPtr(50)), 10, existing, now)
		assert.ErrorIs(t, err, ErrRegistrationPending)
	})

	t.Run("closed window reported before full capacity", func(t *testing.T) {
		e := upcomingEvent(intPtr(50))
		e.RegistrationEnd = now.Add(-time.Minute)
		err := CheckRegister(e, 50, &EventRegistration{Status: RegistrationStatusConfirmed}, now)
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("full capacity reported before duplicate", func(t *testing.T) {
		existing := &EventRegistration{Status: RegistrationStatusConfirmed}
		err := CheckRegister(upcomingEvent(intPtr(50)), 50, existing, now)
		assert.ErrorIs(t, err, ErrEventFull)
	})
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, RegistrationStatusConfirmed, InitialStatus(0))
	assert.Equal(t, RegistrationStatusPending, InitialStatus(150000))
}

func TestCheckCancel(t *testing.T) {
	now := time.Now()

	t.Run("allowed before start", func(t *testing.T) {
		e := &Event{StartDateTime: now.Add(time.Minute)}
		assert.NoError(t, CheckCancel(e, now))
	})

	t.Run("blocked at start", func(t *testing.T) {
		e := &Event{StartDateTime: now}
		assert.ErrorIs(t, CheckCancel(e, now), ErrEventStarted)
	})

	t.Run("blocked after start", func(t *testing.T) {
		e := &Event{StartDateTime: now.Add(-time.Hour)}
		assert.ErrorIs(t, CheckCancel(e, now), ErrEventStarted)
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{RegistrationStatusPending, RegistrationStatusConfirmed, true},
		{RegistrationStatusPending, RegistrationStatusCancelled, true},
		{RegistrationStatusPending, RegistrationStatusCompleted, false},
		{RegistrationStatusConfirmed, RegistrationStatusCancelled, true},
		{RegistrationStatusConfirmed, RegistrationStatusCompleted, true},
		{RegistrationStatusConfirmed, RegistrationStatusPending, false},
		{RegistrationStatusCancelled, RegistrationStatusConfirmed, false},
		{RegistrationStatusCompleted, RegistrationStatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestProjectAvailability(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		max           *int
		confirmed     int
		regEnd        time.Time
		wantSpots     *int
		wantFull      bool
		wantOpen      bool
		wantConfirmed int
	}{
		{
			name:          "open with spots left",
			max:           intPtr(50),
			confirmed:     20,
			regEnd:        now.Add(24 * time.Hour),
			wantSpots:     intPtr(30),
			wantFull:      false,
			wantOpen:      true,
			wantConfirmed: 20,
		},
		{
			name:          "exactly full",
			max:           intPtr(50),
			confirmed:     50,
			regEnd:        now.Add(24 * time.Hour),
			wantSpots:     intPtr(0),
			wantFull:      true,
			wantOpen:      true,
			wantConfirmed: 50,
		},
		{
			name:          "over capacity clamps to zero spots",
			max:           intPtr(50),
			confirmed:     53,
			regEnd:        now.Add(24 * time.Hour),
			wantSpots:     intPtr(0),
			wantFull:      true,
			wantOpen:      true,
			wantConfirmed: 53,
		},
		{
			name:          "unlimited capacity never fills",
			max:           nil,
			confirmed:     10000,
			regEnd:        now.Add(24 * time.Hour),
			wantSpots:     nil,
			wantFull:      false,
			wantOpen:      true,
			wantConfirmed: 10000,
		},
		{
			name:          "registration window closed",
			max:           intPtr(50),
			confirmed:     10,
			regEnd:        now.Add(-time.Minute),
			wantSpots:     intPtr(40),
			wantFull:      false,
			wantOpen:      false,
			wantConfirmed: 10,
		},
		{
			name:          "window closes exactly now",
			max:           intPtr(50),
			confirmed:     0,
			regEnd:        now,
			wantSpots:     intPtr(50),
			wantFull:      false,
			wantOpen:      false,
			wantConfirmed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{
				MaxParticipants: tt.max,
				RegistrationEnd: tt.regEnd,
				StartDateTime:   tt.regEnd.Add(12 * time.Hour),
			}
			a := ProjectAvailability(e, tt.confirmed, now)

			assert.Equal(t, tt.wantConfirmed, a.RegisteredCount)
			assert.Equal(t, tt.wantFull, a.IsFull)
			assert.Equal(t, tt.wantOpen, a.RegistrationOpen)
			if tt.wantSpots == nil {
				assert.Nil(t, a.AvailableSpots)
			} else {
				assert.NotNil(t, a.AvailableSpots)
				assert.Equal(t, *tt.wantSpots, *a.AvailableSpots)
			}
			assert.False(t, a.UserRegistered)
			assert.Empty(t, a.UserRegistrationID)
		})
	}
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateEventTimes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		regEnd  time.Time
		wantErr error
	}{
		{
			name:   "valid ordering",
			start:  now.Add(48 * time.Hour),
			regEnd: now.Add(24 * time.Hour),
		},
		{
			name:    "start in the past",
			start:   now.Add(-time.Hour),
			regEnd:  now.Add(-2 * time.Hour),
			wantErr: ErrStartNotInFuture,
		},
		{
			name:    "start exactly now",
			start:   now,
			regEnd:  now.Add(-time.Hour),
			wantErr: ErrStartNotInFuture,
		},
		{
			name:    "registration ends after start",
			start:   now.Add(24 * time.Hour),
			regEnd:  now.Add(48 * time.Hour),
			wantErr: ErrRegEndAfterStart,
		},
		{
			name:    "registration ends exactly at start",
			start:   now.Add(24 * time.Hour),
			regEnd:  now.Add(24 * time.Hour),
			wantErr: ErrRegEndAfterStart,
		},
		{
			name:   "registration closes one second before start",
			start:  now.Add(24 * time.Hour),
			regEnd: now.Add(24*time.Hour - time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEventTimes(tt.start, tt.regEnd, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

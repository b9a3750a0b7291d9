package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateOTP()
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit in code %q", code)
		}
		// %06d with 100000..999999 never pads, but the leading digit
		// must still be in range.
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestUsableForLogin(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		verified bool
		expires  time.Time
		want     bool
	}{
		{"fresh unverified code", false, now.Add(5 * time.Minute), true},
		{"expired code", false, now.Add(-time.Second), false},
		{"expires exactly now", false, now, false},
		{"already verified code", true, now.Add(5 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OtpCode{Verified: tt.verified, ExpiresAt: tt.expires}
			assert.Equal(t, tt.want, o.UsableForLogin(now))
		})
	}
}

func TestUsableForProfile(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		verified bool
		expires  time.Time
		want     bool
	}{
		{"verified and unexpired", true, now.Add(2 * time.Minute), true},
		{"verified, expired but inside grace", true, now.Add(-5 * time.Minute), true},
		{"verified, past the grace window", true, now.Add(-11 * time.Minute), false},
		{"unverified code never completes a profile", false, now.Add(2 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OtpCode{Verified: tt.verified, ExpiresAt: tt.expires}
			assert.Equal(t, tt.want, o.UsableForProfile(now))
		})
	}
}

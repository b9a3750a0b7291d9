package models

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// OTPTTL - how long a freshly sent code stays valid for login
	OTPTTL = 5 * time.Minute

	// OTPProfileGrace - extra window after expiry during which an already
	// verified code still completes profile registration
	OTPProfileGrace = 10 * time.Minute
)

// OtpCode - one-time passcode row (otp_codes table). At most one live code
// exists per phone: sending a new code deletes the previous ones first.
type OtpCode struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerateOTP returns a random 6-digit numeric code.
func GenerateOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

// UsableForLogin reports whether the code can still complete verify-otp:
// it must be unverified and unexpired.
func (o *OtpCode) UsableForLogin(now time.Time) bool {
	return !o.Verified && now.Before(o.ExpiresAt)
}

// UsableForProfile reports whether a verified code can still complete
// profile registration. The grace window runs past the normal expiry so the
// user has time to type their name.
func (o *OtpCode) UsableForProfile(now time.Time) bool {
	return o.Verified && o.ExpiresAt.After(now.Add(-OTPProfileGrace))
}

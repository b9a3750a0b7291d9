package models

import (
	"errors"
	"time"
)

// Registration statuses
const (
	RegistrationStatusPending   = "PENDING"
	RegistrationStatusConfirmed = "CONFIRMED"
	RegistrationStatusCancelled = "CANCELLED"
	RegistrationStatusCompleted = "COMPLETED"
)

// EventRegistration - a user's registration for an event
// (event_registrations table). Never physically deleted; cancellation flips
// the status so history survives.
type EventRegistration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	UserID       string    `json:"userId"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Workflow precondition failures, checked in order. Messages are user-facing.
var (
	ErrEventNotFound       = errors.New("رویداد یافت نشد")
	ErrRegistrationClosed  = errors.New("زمان ثبت نام به پایان رسیده است")
	ErrEventFull           = errors.New("ظرفیت رویداد تکمیل شده است")
	ErrAlreadyRegistered   = errors.New("شما قبلاً در این رویداد ثبت نام کرده‌اید")
	ErrRegistrationPending = errors.New("ثبت نام شما در انتظار تایید است")
	ErrEventStarted        = errors.New("نمی‌توان پس از شروع رویداد، ثبت نام را لغو کرد")
)

// CheckRegister runs the registration preconditions against a consistent
// snapshot of the event: its CONFIRMED count and the caller's latest active
// (non-cancelled) registration, if any. First failure wins. The caller is
// responsible for holding the event row locked while this runs so two
// concurrent registrations cannot both pass the capacity check.
func CheckRegister(e *Event, confirmedCount int, existing *EventRegistration, now time.Time) error {
	if !now.Before(e.RegistrationEnd) {
		return ErrRegistrationClosed
	}
	if e.MaxParticipants != nil && confirmedCount >= *e.MaxParticipants {
		return ErrEventFull
	}
	if existing != nil {
		switch existing.Status {
		case RegistrationStatusConfirmed:
			return ErrAlreadyRegistered
		case RegistrationStatusPending:
			return ErrRegistrationPending
		}
	}
	return nil
}

// InitialStatus returns the status a new registration starts in: free events
// confirm immediately, paid events wait for payment.
func InitialStatus(price int64) string {
	if price > 0 {
		return RegistrationStatusPending
	}
	return RegistrationStatusConfirmed
}

// CheckCancel enforces the single cancellation rule: a registration can be
// cancelled any time before the event starts.
func CheckCancel(e *Event, now time.Time) error {
	if !now.Before(e.StartDateTime) {
		return ErrEventStarted
	}
	return nil
}

// CanTransition reports whether a registration status change is legal.
// CANCELLED and COMPLETED are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case RegistrationStatusPending:
		return to == RegistrationStatusConfirmed || to == RegistrationStatusCancelled
	case RegistrationStatusConfirmed:
		return to == RegistrationStatusCancelled || to == RegistrationStatusCompleted
	default:
		return false
	}
}

// RegistrationResult - outcome of a successful register call
type RegistrationResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	NeedsPayment bool   `json:"needsPayment"`
	Amount       int64  `json:"amount"`
}

// RegisterResponse - POST /events/:id/register payload
type RegisterResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	Registration *RegistrationResult `json:"registration,omitempty"`
}

// RegistrationDetail - registration joined with its event and user
type RegistrationDetail struct {
	EventRegistration
	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// RegistrationResponse - GET/DELETE /registrations/:id payload
type RegistrationResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	Registration *RegistrationDetail `json:"registration,omitempty"`
}

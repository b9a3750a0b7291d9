package models

import (
	"errors"
	"time"
)

// Event - running event (events table). Soft-deleted via is_active once it
// has registrations, hard-deleted otherwise.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Address         string    `json:"address"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	RegistrationEnd time.Time `json:"registrationEnd"`
	MaxParticipants *int      `json:"maxParticipants"` // nil = unlimited
	Price           int64     `json:"price"`           // tomans, 0 = free
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Event time-rule failures. Messages are user-facing.
var (
	ErrStartNotInFuture = errors.New("زمان شروع رویداد باید در آینده باشد")
	ErrRegEndAfterStart = errors.New("زمان پایان ثبت نام باید قبل از شروع رویداد باشد")
)

// ValidateEventTimes enforces the ordering rules for event creation:
// the start must be in the future and registration must close before it.
func ValidateEventTimes(start, registrationEnd, now time.Time) error {
	if !start.After(now) {
		return ErrStartNotInFuture
	}
	if !registrationEnd.Before(start) {
		return ErrRegEndAfterStart
	}
	return nil
}

// Availability - the read-side projection attached to every event payload.
// Derived fresh on each read, never stored.
type Availability struct {
	RegisteredCount    int    `json:"registeredCount"`
	AvailableSpots     *int   `json:"availableSpots"` // nil = unlimited
	IsFull             bool   `json:"isFull"`
	RegistrationOpen   bool   `json:"registrationOpen"`
	UserRegistered     bool   `json:"userRegistered"`
	UserRegistrationID string `json:"userRegistrationId,omitempty"`
}

// ProjectAvailability derives the availability fields from an event and its
// CONFIRMED-registration count.
func ProjectAvailability(e *Event, confirmedCount int, now time.Time) Availability {
	a := Availability{
		RegisteredCount:  confirmedCount,
		RegistrationOpen: now.Before(e.RegistrationEnd),
	}
	if e.MaxParticipants != nil {
		spots := *e.MaxParticipants - confirmedCount
		if spots < 0 {
			spots = 0
		}
		a.AvailableSpots = &spots
		a.IsFull = confirmedCount >= *e.MaxParticipants
	}
	return a
}

// Participant - public registrant info shown on the event detail page
type Participant struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// EventWithAvailability - event payload plus the derived read-side fields
type EventWithAvailability struct {
	Event
	Availability
	Participants []Participant `json:"participants,omitempty"`
}

// CreateEventRequest - admin create body
type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     string  `json:"description"`
	Address         string  `json:"address" validate:"required,max=500"`
	Latitude        float64 `json:"latitude" validate:"required"`
	Longitude       float64 `json:"longitude" validate:"required"`
	StartDateTime   string  `json:"startDateTime" validate:"required"`
	EndDateTime     string  `json:"endDateTime"`
	RegistrationEnd string  `json:"registrationEnd" validate:"required"`
	MaxParticipants *int    `json:"maxParticipants"`
	Price           *int64  `json:"price"`
}

// UpdateEventRequest - admin partial update body; only non-nil fields change
type UpdateEventRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Address         *string  `json:"address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	StartDateTime   *string  `json:"startDateTime"`
	EndDateTime     *string  `json:"endDateTime"`
	RegistrationEnd *string  `json:"registrationEnd"`
	MaxParticipants *int     `json:"maxParticipants"`
	Price           *int64   `json:"price"`
	IsActive        *bool    `json:"isActive"`
}

// Pagination - list paging envelope
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// EventsResponse - event list payload
type EventsResponse struct {
	Success    bool                    `json:"success"`
	Events     []EventWithAvailability `json:"events"`
	Pagination Pagination              `json:"pagination"`
}

// RegistrantSummary - one registrant row in the admin event listing
type RegistrantSummary struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// AdminEvent - admin listing entry: event, availability, and everyone who
// registered (all statuses)
type AdminEvent struct {
	EventWithAvailability
	Registrations []RegistrantSummary `json:"registrations"`
}

// AdminEventsResponse - GET /admin/events payload
type AdminEventsResponse struct {
	Success    bool         `json:"success"`
	Events     []AdminEvent `json:"events"`
	Pagination Pagination   `json:"pagination"`
}

// EventResponse - single event payload
type EventResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Event   *EventWithAvailability `json:"event,omitempty"`
}

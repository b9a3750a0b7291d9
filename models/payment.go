package models

import "time"

// Payment statuses
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusCancelled = "CANCELLED"
)

// Payment - payment record for a paid registration (payments table).
// Created alongside a PENDING registration when the event has a price; no
// gateway integration exists, so rows stay PENDING until cancelled.
type Payment struct {
	ID             string    `json:"id"`
	RegistrationID string    `json:"registrationId"`
	Amount         int64     `json:"amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

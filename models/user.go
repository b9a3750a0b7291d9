package models

import "time"

// User - registered runner (users table). Created on first successful
// OTP verification; never deleted in-flow.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"` // 09xxxxxxxxx
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SendOTPRequest - request body for /auth/send-otp
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_ir"`
}

// VerifyOTPRequest - request body for /auth/verify-otp.
// FirstName/LastName are optional: when present and the phone is new, the
// user is created in the same call (legacy single-step flow).
type VerifyOTPRequest struct {
	Phone     string `json:"phone" validate:"required,phone_ir"`
	OTP       string `json:"otp" validate:"required,len=6,numeric"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CompleteProfileRequest - request body for /auth/complete-profile
type CompleteProfileRequest struct {
	Phone     string `json:"phone" validate:"required,phone_ir"`
	OTP       string `json:"otp" validate:"required,len=6,numeric"`
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string `json:"lastName" validate:"required,min=2,max=100"`
}

// UpdateProfileRequest - request body for PUT /profile
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string `json:"lastName" validate:"required,min=2,max=100"`
}

// ErrorResponse - uniform error body: {"error": "..."}
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthResponse - authentication flow response
type AuthResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	RequiresProfile bool   `json:"requiresProfile,omitempty"`
	DevOTP          string `json:"devOtp,omitempty"` // returned outside production only
	User            *User  `json:"user,omitempty"`
}

// UserResponse - single user payload
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

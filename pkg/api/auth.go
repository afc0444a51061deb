// Package api defines the JSON wire types shared by the server and its
// clients. Every response carries the {success, message} envelope.
package api

// Response is the common reply envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TokenResponse is returned by endpoints that establish a session
// (login, registration, password change).
type TokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"` // signed bearer token, 1 hour validity
}

// RequestOTPRequest asks for a one-time code to be mailed. Used by both the
// registration and the forgot-password flows.
type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RegisterRequest completes registration: profile fields, the chosen
// password and the one-time code that proves control of the email.
type RegisterRequest struct {
	FirstName  string `json:"firstname" validate:"required,max=50"`
	MiddleName string `json:"middlename" validate:"omitempty,max=50"`
	LastName   string `json:"lastname" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	OTP        string `json:"otp" validate:"required,len=6,numeric"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyResetOTPRequest checks the forgot-password code for an email.
type VerifyResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest sets a new password after the reset code has been
// verified. No session is issued; the user logs in again.
type ResetPasswordRequest struct {
	Email              string `json:"email" validate:"required,email"`
	NewPassword        string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

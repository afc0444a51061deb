package models

import "time"

// CodePurpose scopes a one-time code to the flow that requested it, so a
// pending registration code and a pending password-reset code for the same
// email can coexist without clobbering each other.
type CodePurpose string

const (
	CodeSignup CodePurpose = "signup"
	CodeReset  CodePurpose = "reset"
)

// OneTimeCode is a short-lived email verification code. The ledger keeps at
// most one live code per (purpose, email); requesting a new one replaces it.
type OneTimeCode struct {
	Email     string      `json:"email"`
	Purpose   CodePurpose `json:"purpose"`
	Code      string      `json:"code"` // 6 ASCII digits
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
// A code checked at exactly ExpiresAt is still valid.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

package models

import "time"

// Session is the single live session of a user. The table is keyed by user
// ID, so saving a new session for the same user replaces the previous one:
// the most recently issued token is the only valid bearer credential.
type Session struct {
	UserID    string    `json:"user_id"`    // owner, at most one row per user
	TokenHash string    `json:"token_hash"` // SHA-256 hex of the encoded access token
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

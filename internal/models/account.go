package models

import "time"

// DefaultAccountImage is stored when a site account is created without an
// image path.
const DefaultAccountImage = "images/default.png"

// SiteAccount is one stored credential in a user's vault: a site, the
// username and password used there, and an optional image path.
type SiteAccount struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"` // owner, never serialized
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

// DefaultProfilePicture is stored for users registered without an avatar.
const DefaultProfilePicture = "images/default-profile.png"

// User is a registered account holder. Email is the lookup key and is
// compared byte-exact: two emails differing only in case are distinct users.
type User struct {
	ID             string    `json:"id"`             // user UUID
	Email          string    `json:"email"`          // unique, case-sensitive
	PasswordHash   string    `json:"-"`              // bcrypt hash, never serialized
	FirstName      string    `json:"firstname"`      // required profile field
	MiddleName     string    `json:"middlename"`     // optional
	LastName       string    `json:"lastname"`       // required profile field
	ProfilePicture string    `json:"profilePicture"` // relative image path
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

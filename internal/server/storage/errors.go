package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrSessionNotFound indicates that the user has no live session
	ErrSessionNotFound = errors.New("session not found")

	// ErrCodeNotFound indicates that no one-time code is pending for the email
	ErrCodeNotFound = errors.New("one-time code not found")

	// ErrAccountNotFound indicates that the site account does not exist or
	// belongs to another user
	ErrAccountNotFound = errors.New("site account not found")
)

package storage

import (
	"context"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if the email is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email (byte-exact match)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// EmailExists reports whether a user row exists for the email
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateProfile updates the profile fields of a user
	// Returns ErrUserNotFound if user doesn't exist
	UpdateProfile(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the password hash of a user looked up by ID
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdatePasswordByEmail replaces the password hash of a user looked up
	// by email. Used by the unauthenticated reset flow.
	// Returns ErrUserNotFound if no user has this email
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (userID string, err error)
}

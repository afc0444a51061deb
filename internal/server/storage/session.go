package storage

import (
	"context"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

// SessionStorage defines interface for session persistence. The store keeps
// at most one session per user: saving replaces any existing row, which is
// what makes every newly issued token supersede the previous one.
type SessionStorage interface {
	// SaveSession stores the session for session.UserID, replacing any
	// existing session of that user
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves the live session of a user
	// Returns ErrSessionNotFound if the user has none
	GetSession(ctx context.Context, userID string) (*models.Session, error)

	// DeleteSession removes the session of a user (logout, password reset)
	// Returns ErrSessionNotFound if the user has none
	DeleteSession(ctx context.Context, userID string) error

	// DeleteExpiredSessions removes all sessions past their expiry
	// Returns number of deleted sessions
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

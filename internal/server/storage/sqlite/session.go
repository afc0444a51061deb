package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// SaveSession stores the session for a user, replacing any existing one.
// The upsert on user_id is the revocation-by-overwrite: after it commits,
// the previous token no longer matches the stored hash.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_hash, issued_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			token_hash = excluded.token_hash,
			issued_at = excluded.issued_at,
			expires_at = excluded.expires_at
	`

	_, err := s.db.ExecContext(ctx, query,
		session.UserID,
		session.TokenHash,
		session.IssuedAt,
		session.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves the live session of a user
func (s *Storage) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	query := `
		SELECT user_id, token_hash, issued_at, expires_at
		FROM sessions
		WHERE user_id = ?
	`

	session := &models.Session{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&session.UserID,
		&session.TokenHash,
		&session.IssuedAt,
		&session.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSession removes the session of a user
func (s *Storage) DeleteSession(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrSessionNotFound
	}

	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry
func (s *Storage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	query := `DELETE FROM sessions WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

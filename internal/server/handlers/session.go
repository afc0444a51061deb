package handlers

import (
	"context"
	"time"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/auth"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// issueSession signs a fresh access token and stores its hash as the user's
// only live session. Every call supersedes whatever session existed before.
func issueSession(ctx context.Context, sessions storage.SessionStorage, cfg auth.Config, userID, email string) (string, error) {
	token, expiresAt, err := auth.GenerateAccessToken(cfg, userID, email)
	if err != nil {
		return "", err
	}

	session := &models.Session{
		UserID:    userID,
		TokenHash: auth.HashToken(token),
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}

	if err := sessions.SaveSession(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

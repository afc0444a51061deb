package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vaultkeep/vaultkeep/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// In-memory database, fresh schema per test
	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage, email string) *models.User {
	now := time.Now()
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordHash:   "$2a$10$fakehashfakehashfakehash",
		FirstName:      "Test",
		MiddleName:     "",
		LastName:       "User",
		ProfilePicture: models.DefaultProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.CreateUser(ctx, user)
	require.NoError(t, err)

	return user
}

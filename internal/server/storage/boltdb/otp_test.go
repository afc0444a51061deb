package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "otp.db")
	s, err := New(ctx, dbPath)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func testCode(email string, purpose models.CodePurpose, code string, ttl time.Duration) *models.OneTimeCode {
	now := time.Now()
	return &models.OneTimeCode{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestCodeStorage_ConsumeValidCode(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodeSignup, "123456", 5*time.Minute))
	require.NoError(t, err)

	valid, err := s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, valid)

	// Consumed: a second submission finds nothing
	_, err = s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "123456")
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_WrongGuessBurnsCode(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodeSignup, "123456", 5*time.Minute))
	require.NoError(t, err)

	valid, err := s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "654321")
	require.NoError(t, err)
	assert.False(t, valid)

	// The wrong guess burned the code: even the right one is gone now
	_, err = s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "123456")
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_ExpiredCodeIsInvalidAndBurned(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodeReset, "123456", -time.Minute))
	require.NoError(t, err)

	valid, err := s.ConsumeCode(ctx, models.CodeReset, "user@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = s.ConsumeCode(ctx, models.CodeReset, "user@example.com", "123456")
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_SaveReplacesPendingCode(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodeSignup, "111111", 5*time.Minute))
	require.NoError(t, err)

	err = s.SaveCode(ctx, testCode("user@example.com", models.CodeSignup, "222222", 5*time.Minute))
	require.NoError(t, err)

	// The first code died when the second was requested
	valid, err := s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "111111")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCodeStorage_ConsumeCode_NothingPending(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.ConsumeCode(ctx, models.CodeSignup, "nobody@example.com", "123456")
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_PurposesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodeSignup, "111111", 5*time.Minute))
	require.NoError(t, err)

	err = s.SaveCode(ctx, testCode("user@example.com", models.CodeReset, "222222", 5*time.Minute))
	require.NoError(t, err)

	// Consuming the signup code leaves the reset code pending
	valid, err := s.ConsumeCode(ctx, models.CodeSignup, "user@example.com", "111111")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = s.ConsumeCode(ctx, models.CodeReset, "user@example.com", "222222")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCodeStorage_UnknownPurpose(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.SaveCode(ctx, testCode("user@example.com", models.CodePurpose("bogus"), "123456", 5*time.Minute))
	assert.Error(t, err)

	_, err = s.ConsumeCode(ctx, models.CodePurpose("bogus"), "user@example.com", "123456")
	assert.Error(t, err)
}

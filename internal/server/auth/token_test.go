package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:         []byte("test-secret-key"),
		AccessTokenTTL: time.Hour,
	}
}

func TestGenerateAccessToken(t *testing.T) {
	cfg := testConfig()

	token, expiresAt, err := GenerateAccessToken(cfg, "user-123", "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(cfg.AccessTokenTTL), expiresAt, 5*time.Second)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "vaultkeep", claims.Issuer)
}

func TestGenerateAccessToken_TwoIssuesDiffer(t *testing.T) {
	cfg := testConfig()

	token1, _, err := GenerateAccessToken(cfg, "user-123", "user@example.com")
	require.NoError(t, err)

	// Same claims issued a moment later must not collide: the issue
	// timestamp is part of the signed payload.
	time.Sleep(1100 * time.Millisecond)

	token2, _, err := GenerateAccessToken(cfg, "user-123", "user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
	assert.NotEqual(t, HashToken(token1), HashToken(token2))
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	cfg := testConfig()

	token, _, err := GenerateAccessToken(cfg, "user-123", "user@example.com")
	require.NoError(t, err)

	badCfg := Config{
		Secret:         []byte("another-secret"),
		AccessTokenTTL: time.Hour,
	}

	_, err = ValidateAccessToken(badCfg, token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	cfg := Config{
		Secret:         []byte("test-secret-key"),
		AccessTokenTTL: -time.Minute, // already expired at issue
	}

	token, _, err := GenerateAccessToken(cfg, "user-123", "user@example.com")
	require.NoError(t, err)

	_, err = ValidateAccessToken(testConfig(), token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken(testConfig(), "not.a.token")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	hash1 := HashToken("some-token")
	hash2 := HashToken("some-token")
	hash3 := HashToken("other-token")

	assert.Equal(t, hash1, hash2)
	assert.NotEqual(t, hash1, hash3)
	assert.Len(t, hash1, 64) // SHA-256 hex
}

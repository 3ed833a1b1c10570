package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT(42, "a@b.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestParseJWTRejects(t *testing.T) {
	tok, err := GenerateJWT(1, "a@b.com", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(tok, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(1, "a@b.com", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestGenerateJWTNeedsSecret(t *testing.T) {
	_, err := GenerateJWT(1, "a@b.com", "", time.Hour)
	assert.Error(t, err)
}

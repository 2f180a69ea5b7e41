package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user@example.com", "customer", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestValidateToken(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user@example.com", "seller", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user@example.com", "customer", testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, "different-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Expired(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user@example.com", "customer", testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	claims, err := ValidateToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

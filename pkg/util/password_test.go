package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	// hashing is salted, two hashes of the same password differ
	other, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("password123", hash))
	assert.False(t, VerifyPassword("wrongpassword", hash))
	assert.False(t, VerifyPassword("", hash))
	assert.False(t, VerifyPassword("password123", "not-a-hash"))
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
	"github.com/almira/almira-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, "test-jwt-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("shopper@example.com", "password123", "Shopper", "+971501234567")
	require.NoError(t, err)

	assert.Equal(t, "shopper@example.com", user.Email)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("shopper@example.com", "password123", "Shopper", "")
	require.NoError(t, err)

	user, tokens, err := authService.Register("shopper@example.com", "otherpassword", "Other", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("shopper@example.com", "password123", "Shopper", "")
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		user, tokens, err := authService.Login("shopper@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "shopper@example.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := authService.Login("shopper@example.com", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := authService.Login("ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, tokens, err := authService.Register("shopper@example.com", "password123", "Shopper", "")
	require.NoError(t, err)

	refreshed, err := authService.RefreshTokens(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	_, err = authService.RefreshTokens("not-a-token")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("shopper@example.com", "password123", "Shopper", "+971501234567")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "New Name", "", "Marina Walk 5", "Dubai")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "+971501234567", updated.Phone) // empty fields keep their value
	assert.Equal(t, "Dubai", updated.City)

	_, err = authService.UpdateProfile(9999, "Name", "", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ListUsers(t *testing.T) {
	authService := setupAuthServiceTest(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, _, err := authService.Register(email, "password123", "User", "")
		require.NoError(t, err)
	}

	users, total, err := authService.ListUsers(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)
}

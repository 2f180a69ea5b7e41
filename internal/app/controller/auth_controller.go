package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
	"github.com/almira/almira-backend/pkg/util"
)

// TokenBlacklister revokes a token until its natural expiry.
type TokenBlacklister func(ctx context.Context, token string, expiry time.Duration) error

type AuthController struct {
	authService service.AuthService
	blacklist   TokenBlacklister
	tokenExpiry time.Duration
}

func NewAuthController(authService service.AuthService, blacklist TokenBlacklister, tokenExpiry time.Duration) *AuthController {
	return &AuthController{
		authService: authService,
		blacklist:   blacklist,
		tokenExpiry: tokenExpiry,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Register creates a customer account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid registration fields")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apierrors.Conflict(c, apierrors.AuthEmailAlreadyExists, "An account with this email already exists")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login signs a customer or admin in
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Logout revokes the presented token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := middleware.GetToken(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if ctrl.blacklist != nil {
		if err := ctrl.blacklist(c.Request.Context(), token, ctrl.tokenExpiry); err != nil {
			log.Error("Failed to revoke token on logout", err, nil)
			apierrors.InternalError(c, "")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Refresh token is required")
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.AuthTokenExpired, "Refresh token has expired")
			return
		}
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.AuthTokenInvalid, "Invalid refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Me returns the signed-in user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "User not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile edits the signed-in user's profile
// PATCH /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid profile fields")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone, req.Address, req.City)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "User not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AdminListCustomers returns user accounts for the back-office
// GET /api/v1/admin/customers
func (ctrl *AuthController) AdminListCustomers(c *gin.Context) {
	offset, limit := pagination(c)

	users, total, err := ctrl.authService.ListUsers(offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type AdminRoleController struct {
	permissionService service.PermissionService
}

func NewAdminRoleController(permissionService service.PermissionService) *AdminRoleController {
	return &AdminRoleController{permissionService: permissionService}
}

type SetRoleRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Permissions []string `json:"permissions"`
}

// MyPermissions returns the caller's effective permission set so the
// back-office UI can hide what the principal cannot reach
// GET /api/v1/admin/me/permissions
func (ctrl *AdminRoleController) MyPermissions(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, ctrl.permissionService.Resolve(email))
}

// List returns every stored grant
// GET /api/v1/admin/roles
func (ctrl *AdminRoleController) List(c *gin.Context) {
	roles, err := ctrl.permissionService.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"tags":  model.AllPermissions,
	})
}

// Set replaces a principal's grant with the submitted permission set
// PUT /api/v1/admin/roles
func (ctrl *AdminRoleController) Set(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "A valid email is required")
		return
	}

	role, err := ctrl.permissionService.SetRole(req.Email, req.Permissions)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPermissionTag) {
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Unknown permission tag")
			return
		}
		log.Error("Failed to save admin role", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

// Delete removes a principal's grant entirely
// DELETE /api/v1/admin/roles/:email
func (ctrl *AdminRoleController) Delete(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		apierrors.BadRequest(c, apierrors.ValidationRequired, "Email is required")
		return
	}

	if err := ctrl.permissionService.DeleteRole(email); err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			apierrors.NotFound(c, apierrors.AuthzRoleNotFound, "No role is stored for this email")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role removed"})
}

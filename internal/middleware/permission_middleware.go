package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/service"
	"github.com/almira/almira-backend/internal/errors"
)

// PermissionMiddleware gates admin routes on resolved permissions.
// Every check resolves against the role store; a lookup failure denies
// access rather than erroring.
type PermissionMiddleware struct {
	permissions service.PermissionService
}

func NewPermissionMiddleware(permissions service.PermissionService) *PermissionMiddleware {
	return &PermissionMiddleware{permissions: permissions}
}

// RequireAdminAccess admits owners and anyone holding at least one
// permission. It gates the admin area as a whole.
func (m *PermissionMiddleware) RequireAdminAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		email, ok := GetUserEmail(c)
		if !ok {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !m.permissions.CanAccess(email) {
			log.Warn("Admin access denied", map[string]interface{}{
				"email": email,
				"path":  c.Request.URL.Path,
			})
			errors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission admits owners and principals whose grant contains
// the tag.
func (m *PermissionMiddleware) RequirePermission(tag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		email, ok := GetUserEmail(c)
		if !ok {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !m.permissions.HasPermission(email, tag) {
			log.Warn("Permission denied", map[string]interface{}{
				"email":      email,
				"permission": tag,
				"path":       c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAccessDenied, "You do not have the required permission")
			c.Abort()
			return
		}

		c.Next()
	}
}

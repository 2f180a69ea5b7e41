package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApprovedCookie is the client-visible flag set after a successful
// seller login. It only drives the fast-path redirect below; the
// approval status in the database stays authoritative on every login
// and API call.
const ApprovedCookie = "seller_approved"

// SellerGate redirects browsers without the approval cookie away from
// the seller dashboard pages. It is a UX shortcut, not a security
// boundary.
func SellerGate(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(ApprovedCookie)
		if err != nil || value != "true" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

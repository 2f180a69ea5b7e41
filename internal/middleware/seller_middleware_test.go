package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSellerGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/seller/dashboard", SellerGate("/seller/login"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "dashboard"})
	})

	t.Run("No cookie redirects to login", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/seller/dashboard", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/seller/login", w.Header().Get("Location"))
	})

	t.Run("Wrong cookie value redirects", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/seller/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: ApprovedCookie, Value: "false"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("Approved cookie passes through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/seller/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: ApprovedCookie, Value: "true"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

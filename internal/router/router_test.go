package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/internal/middleware"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Seller.DashboardURL = "http://localhost:3000/seller/dashboard"
	cfg.Seller.LoginURL = "http://localhost:3000/seller/login"

	r := NewRouter(
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
		middleware.NewAuthMiddleware("test-jwt-secret", nil),
		middleware.NewPermissionMiddleware(nil),
		cfg,
	)
	return r.Setup()
}

func TestRouter_Health(t *testing.T) {
	engine := setupRouterTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SellerDashboardEntry(t *testing.T) {
	engine := setupRouterTest(t)

	t.Run("Without approval cookie goes to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/seller/dashboard", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:3000/seller/login", w.Header().Get("Location"))
	})

	t.Run("With approval cookie goes to the dashboard", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/seller/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: middleware.ApprovedCookie, Value: "true"})
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:3000/seller/dashboard", w.Header().Get("Location"))
	})
}

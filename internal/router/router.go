package router

import (
	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/internal/app/controller"
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	sellerController       *controller.SellerController
	productController      *controller.ProductController
	cartController         *controller.CartController
	checkoutController     *controller.CheckoutController
	orderController        *controller.OrderController
	couponController       *controller.CouponController
	withdrawalController   *controller.WithdrawalController
	adminRoleController    *controller.AdminRoleController
	settingsController     *controller.SettingsController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	permissionMiddleware   *middleware.PermissionMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	sellerController *controller.SellerController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	couponController *controller.CouponController,
	withdrawalController *controller.WithdrawalController,
	adminRoleController *controller.AdminRoleController,
	settingsController *controller.SettingsController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	permissionMiddleware *middleware.PermissionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		sellerController:       sellerController,
		productController:      productController,
		cartController:         cartController,
		checkoutController:     checkoutController,
		orderController:        orderController,
		couponController:       couponController,
		withdrawalController:   withdrawalController,
		adminRoleController:    adminRoleController,
		settingsController:     settingsController,
		notificationController: notificationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		permissionMiddleware:   permissionMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ALMIRA API is running",
		})
	})

	// Browser entry point for the seller dashboard. The cookie gate
	// bounces browsers without the approval cookie to the login page;
	// approval itself stays enforced by JWT on every API call.
	dashboard := router.Group("/seller/dashboard")
	dashboard.Use(middleware.SellerGate(r.config.Seller.LoginURL))
	{
		dashboard.GET("", func(c *gin.Context) {
			c.Redirect(302, r.config.Seller.DashboardURL)
		})
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/:id", r.productController.Get)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/shipping", r.settingsController.GetShipping)
			settings.GET("/home-ads", r.settingsController.GetHomeAds)
			settings.GET("/marketing", r.settingsController.GetMarketingTool)
			settings.GET("/pages", r.settingsController.ListPages)
			settings.GET("/pages/:key", r.settingsController.GetPage)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.Get)
			cart.POST("/items", r.cartController.Add)
			cart.PATCH("/items/:productId", r.cartController.Update)
			cart.DELETE("/items/:productId", r.cartController.Remove)
			cart.DELETE("", r.cartController.Clear)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(r.authMiddleware.Authenticate())
		{
			checkout.POST("", r.checkoutController.Checkout)
			checkout.POST("/confirm", r.checkoutController.ConfirmPayment)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.List)
			orders.GET("/:id", r.orderController.Get)
			orders.POST("/:id/cancel", r.checkoutController.Cancel)
		}

		coupons := v1.Group("/coupons")
		coupons.Use(r.authMiddleware.Authenticate())
		{
			coupons.GET("/:code/validate", r.couponController.Validate)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.List)
			notifications.GET("/unread-count", r.notificationController.UnreadCount)
			notifications.POST("/:id/read", r.notificationController.MarkRead)
			notifications.POST("/read-all", r.notificationController.MarkAllRead)
		}

		v1.GET("/ws", r.authMiddleware.Authenticate(), r.notificationController.Stream)

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presign", r.uploadController.Presign)
		}

		seller := v1.Group("/seller")
		{
			seller.POST("/register", r.sellerController.Register)
			seller.POST("/login", r.sellerController.Login)
			seller.POST("/logout", r.sellerController.Logout)

			authed := seller.Group("")
			authed.Use(
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(string(model.RoleSeller)),
			)
			{
				authed.GET("/me", r.sellerController.Me)
				authed.GET("/products", r.productController.SellerList)
				authed.POST("/products", r.productController.SellerCreate)
				authed.PATCH("/products/:id", r.productController.SellerUpdate)
				authed.DELETE("/products/:id", r.productController.SellerDelete)
				authed.GET("/orders", r.orderController.SellerList)
				authed.GET("/withdrawals", r.withdrawalController.List)
				authed.POST("/withdrawals", r.withdrawalController.Request)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.permissionMiddleware.RequireAdminAccess(),
		)
		{
			admin.GET("/me/permissions", r.adminRoleController.MyPermissions)

			admin.GET("/customers",
				r.permissionMiddleware.RequirePermission(model.PermissionCustomers),
				r.authController.AdminListCustomers,
			)

			roles := admin.Group("/roles", r.permissionMiddleware.RequirePermission(model.PermissionRoles))
			{
				roles.GET("", r.adminRoleController.List)
				roles.PUT("", r.adminRoleController.Set)
				roles.DELETE("/:email", r.adminRoleController.Delete)
			}

			sellers := admin.Group("/sellers", r.permissionMiddleware.RequirePermission(model.PermissionSellers))
			{
				sellers.GET("", r.sellerController.ListSellers)
				sellers.POST("/:id/approve", r.sellerController.Approve)
				sellers.POST("/:id/reject", r.sellerController.Reject)
			}

			products := admin.Group("/products", r.permissionMiddleware.RequirePermission(model.PermissionProducts))
			{
				products.GET("", r.productController.AdminList)
				products.POST("", r.productController.AdminCreate)
				products.PATCH("/:id", r.productController.AdminUpdate)
				products.DELETE("/:id", r.productController.AdminDelete)
			}

			admin.PATCH("/products/:id/stock",
				r.permissionMiddleware.RequirePermission(model.PermissionInventory),
				r.productController.AdminSetStock,
			)

			orders := admin.Group("/orders", r.permissionMiddleware.RequirePermission(model.PermissionOrders))
			{
				orders.GET("", r.orderController.AdminList)
				orders.GET("/export", r.orderController.AdminExport)
				orders.GET("/:id", r.orderController.AdminGet)
				orders.PATCH("/:id/status", r.orderController.AdminUpdateStatus)
			}

			coupons := admin.Group("/coupons", r.permissionMiddleware.RequirePermission(model.PermissionCoupons))
			{
				coupons.GET("", r.couponController.AdminList)
				coupons.POST("", r.couponController.AdminCreate)
				coupons.PUT("/:id", r.couponController.AdminUpdate)
				coupons.DELETE("/:id", r.couponController.AdminDelete)
			}

			withdrawals := admin.Group("/withdrawals", r.permissionMiddleware.RequirePermission(model.PermissionWithdrawals))
			{
				withdrawals.GET("", r.withdrawalController.AdminList)
				withdrawals.PATCH("/:id", r.withdrawalController.AdminReview)
			}

			settings := admin.Group("/settings")
			{
				settings.PATCH("/shipping",
					r.permissionMiddleware.RequirePermission(model.PermissionShipping),
					r.settingsController.UpdateShipping,
				)
				settings.PATCH("/home-ads",
					r.permissionMiddleware.RequirePermission(model.PermissionBanners),
					r.settingsController.UpdateHomeAds,
				)
				settings.PATCH("/marketing",
					r.permissionMiddleware.RequirePermission(model.PermissionMarketing),
					r.settingsController.UpdateMarketingTool,
				)
				settings.PATCH("/pages/:key",
					r.permissionMiddleware.RequirePermission(model.PermissionPages),
					r.settingsController.UpdatePage,
				)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

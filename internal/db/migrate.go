package db

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Seller{},
		&model.AdminRole{},
		&model.Product{},
		&model.CartItem{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.Order{},
		&model.OrderItem{},
		&model.Withdrawal{},
		&model.Notification{},
		&model.ShippingSettings{},
		&model.HomeAds{},
		&model.MarketingTool{},
		&model.LandingPage{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

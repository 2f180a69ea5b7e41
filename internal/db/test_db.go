package db

import (
	"fmt"
	"log"

	"github.com/almira/almira-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"coupon_usages", "order_items", "orders", "cart_items",
		"coupons", "withdrawals", "notifications", "products",
		"admin_roles", "sellers", "users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}

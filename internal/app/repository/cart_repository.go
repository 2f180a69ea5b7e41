package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUser(userID uint) ([]model.CartItem, error)
	AddItem(userID, productID uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, productID uint, quantity int) error
	RemoveItem(userID, productID uint) error
	Clear(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUser(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to load cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

// AddItem adds a product to the cart, incrementing quantity when the
// product is already present.
func (r *cartRepository) AddItem(userID, productID uint, quantity int) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := r.db.Save(&item).Error; err != nil {
			logger.Error("Failed to update cart item in database", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}
	case err == gorm.ErrRecordNotFound:
		item = model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := r.db.Create(&item).Error; err != nil {
			logger.Error("Failed to create cart item in database", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}
	default:
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateQuantity(userID, productID uint, quantity int) error {
	result := r.db.Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		logger.Error("Failed to update cart quantity in database", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(userID, productID uint) error {
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to remove cart item in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Clear(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	if err != nil {
		logger.Error("Failed to clear cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one product line in a customer's cart. Quantity is
// upserted on repeat adds, one row per (user, product).
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"index:idx_cart_user_product,unique;not null" json:"user_id"`
	ProductID uint           `gorm:"index:idx_cart_user_product,unique;not null" json:"product_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

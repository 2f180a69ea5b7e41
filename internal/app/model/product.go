package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is a storefront listing. Names and descriptions carry both
// locales; prices are minor units of the shop currency.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SellerID      *uint          `gorm:"index" json:"seller_id,omitempty"` // nil for house products
	NameAr        string         `gorm:"not null" json:"name_ar"`
	NameEn        string         `gorm:"not null" json:"name_en"`
	DescriptionAr string         `gorm:"type:text" json:"description_ar"`
	DescriptionEn string         `gorm:"type:text" json:"description_en"`
	Category      string         `gorm:"index" json:"category"`
	Price         int64          `gorm:"not null" json:"price"`
	ImageURLs     StringArray    `gorm:"type:text" json:"image_urls"`
	Stock         int            `gorm:"default:0" json:"stock"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Seller *Seller `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

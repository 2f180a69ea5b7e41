package model

import (
	"time"

	"gorm.io/gorm"
)

type CouponType string

const (
	CouponPercent CouponType = "percent" // value is a percentage of the eligible subtotal
	CouponFixed   CouponType = "fixed"   // value is an amount in minor units
)

// Coupon is a discount rule. Allow-lists restrict the discount to the
// listed products or categories; empty lists mean the whole cart is
// eligible.
type Coupon struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Code          string         `gorm:"uniqueIndex;not null" json:"code"` // stored uppercased
	Type          CouponType     `gorm:"type:varchar(10);not null" json:"type"`
	Value         int64          `gorm:"not null" json:"value"` // percent 0-100, or minor units for fixed
	Active        bool           `gorm:"default:true;index" json:"active"`
	UsageLimit    *int           `json:"usage_limit,omitempty"`     // total redemptions across all customers
	PerUserLimit  *int           `json:"per_user_limit,omitempty"`  // redemptions per customer
	UsedCount     int            `gorm:"default:0" json:"used_count"`
	ProductIDs    UintArray      `gorm:"type:text" json:"product_ids,omitempty"`
	Categories    StringArray    `gorm:"type:text" json:"categories,omitempty"`
	StartsAt      *time.Time     `json:"starts_at,omitempty"`
	EndsAt        *time.Time     `json:"ends_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// WithinWindow reports whether the coupon is valid at the given time.
func (c *Coupon) WithinWindow(now time.Time) bool {
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	return true
}

// Expired reports whether the coupon's validity window has closed.
func (c *Coupon) Expired(now time.Time) bool {
	return c.EndsAt != nil && now.After(*c.EndsAt)
}

// CouponUsage tracks redemptions of one coupon by one customer.
type CouponUsage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CouponID  uint      `gorm:"index:idx_usage_coupon_user,unique;not null" json:"coupon_id"`
	UserID    uint      `gorm:"index:idx_usage_coupon_user,unique;not null" json:"user_id"`
	Count     int       `gorm:"default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CouponUsage) TableName() string {
	return "coupon_usages"
}

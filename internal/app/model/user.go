package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer" // regular shopper
	RoleSeller   UserRole = "seller"   // merchant credential (profile lives in Seller)
	RoleAdmin    UserRole = "admin"    // back-office principal
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // stored lowercased
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Role         UserRole       `gorm:"type:varchar(20);default:'customer'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Seller *Seller `gorm:"foreignKey:UserID" json:"seller,omitempty"` // merchant profile, sellers only
}

func (User) TableName() string {
	return "users"
}

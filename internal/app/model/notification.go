package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationOrder      NotificationType = "order"      // order confirmation / status change
	NotificationSeller     NotificationType = "seller"     // approval decision
	NotificationWithdrawal NotificationType = "withdrawal" // withdrawal status change
	NotificationSystem     NotificationType = "system"
)

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	UserID    uint             `gorm:"index;not null" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	Link      string           `json:"link,omitempty"` // relative path the client should open
	Read      bool             `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

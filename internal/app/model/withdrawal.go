package model

import (
	"time"

	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a seller's request to cash out balance. The amount is
// deducted from the seller balance at request time, inside the same
// transaction that checks it, and restored if an admin rejects.
type Withdrawal struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	SellerID  uint             `gorm:"index;not null" json:"seller_id"`
	Amount    int64            `gorm:"not null" json:"amount"` // minor units
	Status    WithdrawalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Note      string           `json:"note,omitempty"` // admin note on approve/reject
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	Seller Seller `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

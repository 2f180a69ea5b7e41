package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Seller is a merchant profile attached to a seller credential.
// Created at registration in pending status and reviewed exactly once
// by an administrator.
type Seller struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	LegalName      string         `gorm:"not null" json:"legal_name"`
	ContactEmail   string         `gorm:"not null" json:"contact_email"` // the seller's own address, not the login email
	Phone          string         `json:"phone"`
	StoreName      string         `gorm:"not null" json:"store_name"`
	StoreCategory  string         `json:"store_category"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"` // letters/digits plus . _ -
	DocumentURL    string         `json:"document_url"`                         // verification document in object storage
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"approval_status"`
	RejectReason   string         `json:"reject_reason,omitempty"`
	ReviewedBy     string         `json:"reviewed_by,omitempty"` // email of the reviewing admin
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
	Balance        int64          `gorm:"default:0" json:"balance"` // withdrawable balance in minor units
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Seller) TableName() string {
	return "sellers"
}

// Approved reports whether the seller has passed review. The status
// column is the single source of truth; there is no separate flag to
// drift out of sync.
func (s *Seller) Approved() bool {
	return s.ApprovalStatus == ApprovalApproved
}

// Reviewed reports whether the seller has reached a terminal state.
func (s *Seller) Reviewed() bool {
	return s.ApprovalStatus != ApprovalPending
}

// MarshalJSON adds the derived approved flag for API consumers that
// expect a boolean alongside the status.
func (s Seller) MarshalJSON() ([]byte, error) {
	type alias Seller
	return json.Marshal(struct {
		alias
		Approved bool `json:"approved"`
	}{
		alias:    alias(s),
		Approved: s.ApprovalStatus == ApprovalApproved,
	})
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a snapshot taken at checkout initiation. Amounts are minor
// units; the item list is immutable after creation.
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	OrderNumber       string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID            uint           `gorm:"index;not null" json:"user_id"`
	SellerIDs         UintArray      `gorm:"type:text" json:"seller_ids"` // distinct sellers among items
	Subtotal          int64          `gorm:"not null" json:"subtotal"`
	Discount          int64          `gorm:"default:0" json:"discount"`
	CouponCode        *string        `json:"coupon_code,omitempty"`
	Total             int64          `gorm:"not null" json:"total"`
	Status            OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CheckoutSessionID string         `json:"checkout_session_id,omitempty"`
	FreeDelivery      bool           `gorm:"default:false" json:"free_delivery"`
	DeliveryThreshold int            `json:"delivery_threshold"` // item count that granted free delivery
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// TotalQuantity sums item quantities across the order.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// OrderItem is a priced line frozen at checkout time. Product fields
// are copied so later product edits do not rewrite order history.
type OrderItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	OrderID   uint   `gorm:"index;not null" json:"order_id"`
	ProductID uint   `gorm:"not null" json:"product_id"`
	SellerID  *uint  `gorm:"index" json:"seller_id,omitempty"`
	NameAr    string `json:"name_ar"`
	NameEn    string `json:"name_en"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

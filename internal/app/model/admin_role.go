package model

import "time"

// Permission tags an admin grant may contain.
const (
	PermissionProducts    = "products"
	PermissionOrders      = "orders"
	PermissionInventory   = "inventory"
	PermissionCoupons     = "coupons"
	PermissionCustomers   = "customers"
	PermissionShipping    = "shipping"
	PermissionPages       = "pages"
	PermissionMarketing   = "marketing"
	PermissionBanners     = "banners"
	PermissionSellers     = "sellers"
	PermissionWithdrawals = "withdrawals"
	PermissionRoles       = "roles"

	// PermissionOwner satisfies every check. It is derived from the
	// configured owner allow-list and is never stored in a grant.
	PermissionOwner = "owner"
)

// AllPermissions is the closed set of grantable tags (owner excluded).
var AllPermissions = []string{
	PermissionProducts,
	PermissionOrders,
	PermissionInventory,
	PermissionCoupons,
	PermissionCustomers,
	PermissionShipping,
	PermissionPages,
	PermissionMarketing,
	PermissionBanners,
	PermissionSellers,
	PermissionWithdrawals,
	PermissionRoles,
}

// ValidPermission reports whether the tag is grantable.
func ValidPermission(tag string) bool {
	for _, p := range AllPermissions {
		if p == tag {
			return true
		}
	}
	return false
}

// AdminRole maps an admin's email to the permission tags granted to it.
type AdminRole struct {
	Email       string      `gorm:"primarykey" json:"email"` // lowercased
	Permissions StringArray `gorm:"type:text" json:"permissions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (AdminRole) TableName() string {
	return "admin_roles"
}

package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront maps these codes to localized (ar/en) messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access at all
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // missing a specific permission
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // no role information
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // owner allow-list only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Seller (SELLER_) ====================
	SellerProfileMissing   = "SELLER_PROFILE_MISSING"   // credential exists, profile row does not
	SellerNotApproved      = "SELLER_NOT_APPROVED"      // approval still pending or rejected
	SellerUsernameInvalid  = "SELLER_USERNAME_INVALID"  // username fails the allowed pattern
	SellerUsernameExists   = "SELLER_USERNAME_EXISTS"   // username / login email already in use
	SellerDocumentTooLarge = "SELLER_DOCUMENT_TOO_LARGE"
	SellerDocumentMissing  = "SELLER_DOCUMENT_MISSING"
	SellerAlreadyReviewed  = "SELLER_ALREADY_REVIEWED" // terminal state reached by another reviewer

	// ==================== Coupons (COUPON_) ====================
	CouponNotFound      = "COUPON_NOT_FOUND"
	CouponInactive      = "COUPON_INACTIVE"
	CouponExpired       = "COUPON_EXPIRED"
	CouponLimitReached  = "COUPON_LIMIT_REACHED"
	CouponInvalidValue  = "COUPON_INVALID_VALUE" // e.g. percent value above 100
	CouponAlreadyExists = "COUPON_ALREADY_EXISTS"
	CouponNotYetStarted = "COUPON_NOT_YET_STARTED"
	CouponNotApplicable = "COUPON_NOT_APPLICABLE" // nothing in the cart is eligible

	// ==================== Orders / checkout (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderEmptyCart      = "ORDER_EMPTY_CART"
	OrderInvalidStatus  = "ORDER_INVALID_STATUS"
	CheckoutSessionFail = "CHECKOUT_SESSION_FAILED"

	// ==================== Withdrawals (WITHDRAWAL_) ====================
	WithdrawalNotFound            = "WITHDRAWAL_NOT_FOUND"
	WithdrawalInsufficientBalance = "WITHDRAWAL_INSUFFICIENT_BALANCE"
	WithdrawalInvalidAmount       = "WITHDRAWAL_INVALID_AMOUNT"
	WithdrawalAlreadyReviewed     = "WITHDRAWAL_ALREADY_REVIEWED"

	// ==================== Settings / pages (SETTINGS_) ====================
	SettingsUnknownPage = "SETTINGS_UNKNOWN_PAGE" // page key outside the fixed set

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)

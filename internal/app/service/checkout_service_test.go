package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
	"github.com/almira/almira-backend/pkg/payment/checkout"
)

// stubSessions records the last session request instead of calling a
// payment provider.
type stubSessions struct {
	lastRequest *checkout.SessionRequest
}

func (s *stubSessions) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.SessionResponse, error) {
	s.lastRequest = &req
	return &checkout.SessionResponse{
		SessionID: "sess_test",
		URL:       "https://pay.example.com/sess_test",
	}, nil
}

type checkoutFixture struct {
	db          *gorm.DB
	service     CheckoutService
	coupons     CouponService
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
	orderRepo   repository.OrderRepository
	sessions    *stubSessions
	user        *model.User
	seller      *model.Seller
}

func setupCheckoutTest(t *testing.T) *checkoutFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	sellerRepo := repository.NewSellerRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	couponRepo := repository.NewCouponRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)

	couponService := NewCouponService(couponRepo)
	sessions := &stubSessions{}

	checkoutService := NewCheckoutService(
		cartRepo, productRepo, orderRepo, sellerRepo, userRepo, settingsRepo,
		couponService, nil, nil, sessions, "AED", 3,
	)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "x", Name: "Shopper", Role: model.RoleCustomer}
	require.NoError(t, userRepo.Create(user))

	sellerUser := &model.User{Email: "store@sellers.almira.shop", PasswordHash: "x", Name: "Store", Role: model.RoleSeller}
	require.NoError(t, userRepo.Create(sellerUser))
	seller := &model.Seller{
		UserID:         sellerUser.ID,
		LegalName:      "Store LLC",
		ContactEmail:   "store@example.com",
		StoreName:      "Store",
		Username:       "store",
		ApprovalStatus: model.ApprovalApproved,
	}
	require.NoError(t, sellerRepo.Create(seller))

	return &checkoutFixture{
		db:          testDB,
		service:     checkoutService,
		coupons:     couponService,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		orderRepo:   orderRepo,
		sessions:    sessions,
		user:        user,
		seller:      seller,
	}
}

func (f *checkoutFixture) addProduct(t *testing.T, name string, price int64, stock int, category string) *model.Product {
	product := &model.Product{
		SellerID: &f.seller.ID,
		NameEn:   name,
		Category: category,
		Price:    price,
		Stock:    stock,
		Active:   true,
	}
	require.NoError(t, f.productRepo.Create(product))
	return product
}

func (f *checkoutFixture) fillCart(t *testing.T, productID uint, quantity int) {
	_, err := f.cartRepo.AddItem(f.user.ID, productID, quantity)
	require.NoError(t, err)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := setupCheckoutTest(t)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, result)
}

func TestCheckoutService_Totals(t *testing.T) {
	f := setupCheckoutTest(t)

	abaya := f.addProduct(t, "Classic Abaya", 20000, 10, "abayas")
	hijab := f.addProduct(t, "Silk Hijab", 5000, 10, "hijabs")
	f.fillCart(t, abaya.ID, 1)
	f.fillCart(t, hijab.ID, 2)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "")
	require.NoError(t, err)
	require.NotNil(t, result.Order)

	assert.Equal(t, int64(30000), result.Order.Subtotal)
	assert.Equal(t, int64(0), result.Order.Discount)
	assert.Equal(t, int64(30000), result.Order.Total)
	assert.Equal(t, model.OrderPending, result.Order.Status)
	assert.Len(t, result.Order.Items, 2)
	assert.Regexp(t, `^ALM-\d{8}-\d{6}$`, result.Order.OrderNumber)
	assert.Equal(t, "https://pay.example.com/sess_test", result.PaymentURL)

	// the cart is emptied once the order exists
	items, err := f.cartRepo.FindByUser(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutService_FreeDeliveryThreshold(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantFree bool
	}{
		{name: "Below threshold", quantity: 2, wantFree: false},
		{name: "At threshold", quantity: 3, wantFree: true},
		{name: "Above threshold", quantity: 4, wantFree: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupCheckoutTest(t)
			product := f.addProduct(t, "Everyday Abaya", 10000, 20, "abayas")
			f.fillCart(t, product.ID, tt.quantity)

			result, err := f.service.Checkout(context.Background(), f.user.ID, "")
			require.NoError(t, err)

			assert.Equal(t, tt.wantFree, result.Order.FreeDelivery)
			assert.Equal(t, 3, result.Order.DeliveryThreshold)

			require.NotNil(t, f.sessions.lastRequest)
			assert.Equal(t, map[string]string{
				"order_number":  result.Order.OrderNumber,
				"free_delivery": map[bool]string{true: "true", false: "false"}[tt.wantFree],
			}, f.sessions.lastRequest.Metadata)
		})
	}
}

func TestCheckoutService_CouponApplied(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Premium Abaya", 10000, 10, "abayas")
	f.fillCart(t, product.ID, 2)

	_, err := f.coupons.Create(CouponInput{
		Code: "SAVE20", Type: model.CouponPercent, Value: 20, Active: true,
	})
	require.NoError(t, err)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "SAVE20")
	require.NoError(t, err)

	assert.Equal(t, int64(20000), result.Order.Subtotal)
	assert.Equal(t, int64(4000), result.Order.Discount)
	assert.Equal(t, int64(16000), result.Order.Total)
	require.NotNil(t, result.Order.CouponCode)
	assert.Equal(t, "SAVE20", *result.Order.CouponCode)

	// redeeming once consumes the per-user quota
	coupon, err := f.coupons.GetByCode("SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)
}

func TestCheckoutService_CouponExceedsSubtotal(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Classic Abaya", 10000, 5, "abayas")
	f.fillCart(t, product.ID, 1)

	// an over-100% coupon cannot be created through the service, but
	// one edited straight in the database must still floor the total
	// at zero instead of going negative
	require.NoError(t, f.db.Create(&model.Coupon{
		Code: "MEGA150", Type: model.CouponPercent, Value: 150, Active: true,
	}).Error)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "MEGA150")
	require.NoError(t, err)

	assert.Equal(t, int64(10000), result.Order.Subtotal)
	assert.Equal(t, int64(15000), result.Order.Discount)
	assert.Equal(t, int64(0), result.Order.Total)
}

func TestCheckoutService_CouponNotApplicable(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Silk Hijab", 5000, 10, "hijabs")
	f.fillCart(t, product.ID, 1)

	_, err := f.coupons.Create(CouponInput{
		Code: "ABAYAS50", Type: model.CouponPercent, Value: 50, Active: true,
		Categories: []string{"abayas"},
	})
	require.NoError(t, err)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "ABAYAS50")
	assert.ErrorIs(t, err, ErrCouponNotApplicable)
	assert.Nil(t, result)

	// the failed attempt must not consume the cart
	items, err := f.cartRepo.FindByUser(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCheckoutService_InsufficientStock(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Limited Abaya", 10000, 1, "abayas")
	f.fillCart(t, product.ID, 1)

	// stock drops after the item entered the cart
	product.Stock = 0
	require.NoError(t, f.productRepo.Update(product))

	result, err := f.service.Checkout(context.Background(), f.user.ID, "")
	assert.ErrorIs(t, err, ErrProductOutOfStock)
	assert.Nil(t, result)
}

func TestCheckoutService_ConfirmPayment(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Classic Abaya", 10000, 5, "abayas")
	f.fillCart(t, product.ID, 2)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "")
	require.NoError(t, err)

	order, err := f.service.ConfirmPayment(result.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, order.Status)

	// stock is reduced and the seller is credited
	updated, err := f.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	seller, err := f.sellerRepo.FindByID(f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), seller.Balance)

	// confirming again is a no-op
	again, err := f.service.ConfirmPayment(result.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, again.Status)

	updated, err = f.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	_, err = f.service.ConfirmPayment("ALM-19700101-000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCheckoutService_CancelOrder(t *testing.T) {
	f := setupCheckoutTest(t)

	product := f.addProduct(t, "Classic Abaya", 10000, 5, "abayas")
	f.fillCart(t, product.ID, 1)

	result, err := f.service.Checkout(context.Background(), f.user.ID, "")
	require.NoError(t, err)

	t.Run("Another user cannot cancel", func(t *testing.T) {
		_, err := f.service.CancelOrder(result.Order.ID, f.user.ID+100)
		assert.ErrorIs(t, err, ErrOrderNotOwned)
	})

	t.Run("Owner cancels pending order", func(t *testing.T) {
		order, err := f.service.CancelOrder(result.Order.ID, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderCancelled, order.Status)
	})

	t.Run("Cancelled order cannot be cancelled again", func(t *testing.T) {
		_, err := f.service.CancelOrder(result.Order.ID, f.user.ID)
		assert.ErrorIs(t, err, ErrOrderInvalidStatus)
	})

	t.Run("Cancelled order cannot be confirmed", func(t *testing.T) {
		_, err := f.service.ConfirmPayment(result.Order.OrderNumber)
		assert.ErrorIs(t, err, ErrOrderInvalidStatus)
	})
}

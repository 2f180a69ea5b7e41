package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"github.com/almira/almira-backend/pkg/payment/checkout"
	"github.com/almira/almira-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderInvalidStatus = errors.New("order is not in a valid status for this action")
	ErrCheckoutFailed     = errors.New("failed to create checkout session")
)

// SessionCreator creates hosted payment sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.SessionResponse, error)
}

// CheckoutResult is what the storefront needs to hand the shopper to
// the payment page.
type CheckoutResult struct {
	Order      *model.Order `json:"order"`
	PaymentURL string       `json:"payment_url"`
}

// CheckoutService prices the cart, applies the coupon, decides free
// delivery and opens the hosted payment session. The order is written
// in pending status before the shopper leaves for the payment page.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uint, couponCode string) (*CheckoutResult, error)
	ConfirmPayment(orderNumber string) (*model.Order, error)
	CancelOrder(orderID, userID uint) (*model.Order, error)
}

type checkoutService struct {
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	orderRepo     repository.OrderRepository
	sellerRepo    repository.SellerRepository
	userRepo      repository.UserRepository
	settingsRepo  repository.SettingsRepository
	couponSvc     CouponService
	notifier      NotificationService
	mailer        EmailSender
	sessions      SessionCreator
	currency      string
	freeThreshold int // fallback when shipping settings are unavailable
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	sellerRepo repository.SellerRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	couponSvc CouponService,
	notifier NotificationService,
	mailer EmailSender,
	sessions SessionCreator,
	currency string,
	freeThreshold int,
) CheckoutService {
	return &checkoutService{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		sellerRepo:    sellerRepo,
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		couponSvc:     couponSvc,
		notifier:      notifier,
		mailer:        mailer,
		sessions:      sessions,
		currency:      currency,
		freeThreshold: freeThreshold,
	}
}

func (s *checkoutService) shippingSettings() (enabled bool, flatRate int64, threshold int) {
	enabled, flatRate, threshold = true, 0, s.freeThreshold
	if s.settingsRepo == nil {
		return
	}
	settings, err := s.settingsRepo.GetShipping()
	if err != nil {
		logger.Warn("Failed to load shipping settings, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	return settings.Enabled, settings.FlatRate, settings.FreeThreshold
}

func (s *checkoutService) Checkout(ctx context.Context, userID uint, couponCode string) (*CheckoutResult, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
		"coupon":  couponCode,
	})

	cartItems, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	var (
		orderItems  []model.OrderItem
		pricedItems []PricedItem
		sellerIDs   model.UintArray
		subtotal    int64
		quantity    int
	)
	seenSellers := map[uint]bool{}

	for _, item := range cartItems {
		product := item.Product
		if !product.Active {
			return nil, ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return nil, ErrProductOutOfStock
		}

		imageURL := ""
		if len(product.ImageURLs) > 0 {
			imageURL = product.ImageURLs[0]
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			NameAr:    product.NameAr,
			NameEn:    product.NameEn,
			UnitPrice: product.Price,
			ImageURL:  imageURL,
			Quantity:  item.Quantity,
		})
		pricedItems = append(pricedItems, PricedItem{
			ProductID: product.ID,
			Category:  product.Category,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})

		subtotal += product.Price * int64(item.Quantity)
		quantity += item.Quantity

		if product.SellerID != nil && !seenSellers[*product.SellerID] {
			seenSellers[*product.SellerID] = true
			sellerIDs = append(sellerIDs, *product.SellerID)
		}
	}

	var discount int64
	var coupon *model.Coupon
	if couponCode != "" {
		coupon, err = s.couponSvc.Validate(couponCode, userID)
		if err != nil {
			return nil, err
		}
		discount = s.couponSvc.ComputeDiscount(coupon, pricedItems)
		if discount == 0 {
			return nil, ErrCouponNotApplicable
		}
	}

	shippingEnabled, flatRate, threshold := s.shippingSettings()
	freeDelivery := quantity >= threshold
	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	ref, err := util.GenerateOrderReference()
	if err != nil {
		return nil, err
	}
	orderNumber := fmt.Sprintf("ALM-%s-%s", time.Now().Format("20060102"), ref)

	order := &model.Order{
		OrderNumber:       orderNumber,
		UserID:            userID,
		SellerIDs:         sellerIDs,
		Subtotal:          subtotal,
		Discount:          discount,
		Total:             total,
		Status:            model.OrderPending,
		FreeDelivery:      freeDelivery,
		DeliveryThreshold: threshold,
		Items:             orderItems,
	}
	if coupon != nil {
		order.CouponCode = &coupon.Code
	}

	paymentURL := ""
	if s.sessions != nil {
		lineItems := make([]checkout.LineItem, 0, len(orderItems)+1)
		for _, item := range orderItems {
			lineItems = append(lineItems, checkout.LineItem{
				Name:       item.NameEn,
				UnitAmount: item.UnitPrice,
				Quantity:   item.Quantity,
				ImageURL:   item.ImageURL,
			})
		}
		if discount > 0 {
			lineItems = append(lineItems, checkout.LineItem{
				Name:       "Discount",
				UnitAmount: -discount,
				Quantity:   1,
			})
		}
		if shippingEnabled && !freeDelivery && flatRate > 0 {
			lineItems = append(lineItems, checkout.LineItem{
				Name:       "Delivery",
				UnitAmount: flatRate,
				Quantity:   1,
			})
		}

		session, err := s.sessions.CreateSession(ctx, checkout.SessionRequest{
			Reference: orderNumber,
			Currency:  s.currency,
			LineItems: lineItems,
			Metadata: map[string]string{
				"order_number":  orderNumber,
				"free_delivery": strconv.FormatBool(freeDelivery),
			},
		})
		if err != nil {
			logger.Error("Failed to create checkout session", err, map[string]interface{}{
				"order_number": orderNumber,
				"user_id":      userID,
			})
			return nil, ErrCheckoutFailed
		}
		order.CheckoutSessionID = session.SessionID
		paymentURL = session.URL
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	if coupon != nil {
		if err := s.couponSvc.Redeem(coupon.ID, userID); err != nil {
			logger.Error("Failed to record coupon usage", err, map[string]interface{}{
				"coupon_id": coupon.ID,
				"user_id":   userID,
			})
		}
	}

	if err := s.cartRepo.Clear(userID); err != nil {
		logger.Warn("Failed to clear cart after checkout", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	// confirmation is best-effort: a failed notification or email must
	// not block navigation to the payment page
	s.sendConfirmation(order)

	logger.Info("Checkout completed", map[string]interface{}{
		"order_number":  orderNumber,
		"subtotal":      subtotal,
		"discount":      discount,
		"total":         total,
		"free_delivery": freeDelivery,
	})
	return &CheckoutResult{Order: order, PaymentURL: paymentURL}, nil
}

func (s *checkoutService) sendConfirmation(order *model.Order) {
	title := "Order received"
	body := fmt.Sprintf("Your order %s has been received and is awaiting payment.", order.OrderNumber)

	if s.notifier != nil {
		if err := s.notifier.Notify(order.UserID, model.NotificationOrder, title, body, "/orders"); err != nil {
			logger.Warn("Failed to send order notification", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		}
	}

	if s.mailer != nil && s.userRepo != nil {
		user, err := s.userRepo.FindByID(order.UserID)
		if err != nil {
			logger.Warn("Failed to load user for order email", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
			return
		}
		html := fmt.Sprintf("<p>%s</p><p>Total: %d</p>", body, order.Total)
		if err := s.mailer.Send(user.Email, title, html); err != nil {
			logger.Warn("Failed to send order email", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		}
	}
}

// ConfirmPayment marks the order paid, reduces stock and credits each
// seller's withdrawable balance. Confirming a paid order is a no-op.
func (s *checkoutService) ConfirmPayment(orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status == model.OrderPaid {
		return order, nil
	}
	if order.Status != model.OrderPending {
		return nil, ErrOrderInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(order.ID, model.OrderPaid); err != nil {
		return nil, err
	}
	order.Status = model.OrderPaid

	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
			logger.Warn("Failed to decrement stock after payment", map[string]interface{}{
				"order_number": order.OrderNumber,
				"product_id":   item.ProductID,
				"error":        err.Error(),
			})
		}
		if item.SellerID != nil {
			amount := item.UnitPrice * int64(item.Quantity)
			if err := s.sellerRepo.AddBalance(*item.SellerID, amount); err != nil {
				logger.Error("Failed to credit seller balance", err, map[string]interface{}{
					"order_number": order.OrderNumber,
					"seller_id":    *item.SellerID,
					"amount":       amount,
				})
			}
		}
	}

	if s.notifier != nil {
		body := fmt.Sprintf("Payment for order %s was received. Thank you for shopping with Almira.", order.OrderNumber)
		if err := s.notifier.Notify(order.UserID, model.NotificationOrder, "Payment confirmed", body, "/orders"); err != nil {
			logger.Warn("Failed to send payment notification", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		}
	}

	logger.Info("Order paid", map[string]interface{}{
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
	return order, nil
}

// CancelOrder cancels a pending order. A zero userID skips the
// ownership check for admin access.
func (s *checkoutService) CancelOrder(orderID, userID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if userID != 0 && order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	if order.Status != model.OrderPending {
		return nil, ErrOrderInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(order.ID, model.OrderCancelled); err != nil {
		return nil, err
	}
	order.Status = model.OrderCancelled

	logger.Info("Order cancelled", map[string]interface{}{
		"order_number": order.OrderNumber,
	})
	return order, nil
}

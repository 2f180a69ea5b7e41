package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

type CheckoutRequest struct {
	CouponCode string `json:"coupon_code"`
}

type ConfirmPaymentRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
}

// Checkout prices the cart and opens a hosted payment session
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	_ = c.ShouldBindJSON(&req)

	result, err := ctrl.checkoutService.Checkout(c.Request.Context(), userID, req.CouponCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apierrors.BadRequest(c, apierrors.OrderEmptyCart, "Your cart is empty")
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.Conflict(c, apierrors.ResourceConflict, "A cart item is no longer available")
		case errors.Is(err, service.ErrProductOutOfStock):
			apierrors.Conflict(c, apierrors.ResourceConflict, "A cart item is out of stock")
		case errors.Is(err, service.ErrCouponNotFound):
			apierrors.NotFound(c, apierrors.CouponNotFound, "Coupon not found")
		case errors.Is(err, service.ErrCouponInactive):
			apierrors.BadRequest(c, apierrors.CouponInactive, "This coupon is not active")
		case errors.Is(err, service.ErrCouponExpired):
			apierrors.BadRequest(c, apierrors.CouponExpired, "This coupon has expired")
		case errors.Is(err, service.ErrCouponNotStarted):
			apierrors.BadRequest(c, apierrors.CouponNotYetStarted, "This coupon is not valid yet")
		case errors.Is(err, service.ErrCouponLimitReached):
			apierrors.BadRequest(c, apierrors.CouponLimitReached, "This coupon has reached its usage limit")
		case errors.Is(err, service.ErrCouponNotApplicable):
			apierrors.BadRequest(c, apierrors.CouponNotApplicable, "This coupon does not apply to your cart")
		case errors.Is(err, service.ErrCheckoutFailed):
			apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.CheckoutSessionFail, "Could not start the payment session. Please try again")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ConfirmPayment marks an order paid after the provider confirms
// POST /api/v1/checkout/confirm
func (ctrl *CheckoutController) ConfirmPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Order number is required")
		return
	}

	order, err := ctrl.checkoutService.ConfirmPayment(req.OrderNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderInvalidStatus):
			apierrors.Conflict(c, apierrors.OrderInvalidStatus, "This order cannot be confirmed")
		default:
			log.Error("Payment confirmation failed", err, map[string]interface{}{
				"order_number": req.OrderNumber,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Cancel cancels a pending order
// POST /api/v1/orders/:id/cancel
func (ctrl *CheckoutController) Cancel(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.checkoutService.CancelOrder(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderNotOwned):
			apierrors.Forbidden(c, "")
		case errors.Is(err, service.ErrOrderInvalidStatus):
			apierrors.Conflict(c, apierrors.OrderInvalidStatus, "Only pending orders can be cancelled")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

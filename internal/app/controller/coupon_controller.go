package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

type CouponRequest struct {
	Code         string     `json:"code" binding:"required"`
	Type         string     `json:"type" binding:"required"`
	Value        int64      `json:"value" binding:"required"`
	Active       bool       `json:"active"`
	UsageLimit   *int       `json:"usage_limit"`
	PerUserLimit *int       `json:"per_user_limit"`
	ProductIDs   []uint     `json:"product_ids"`
	Categories   []string   `json:"categories"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:         r.Code,
		Type:         model.CouponType(r.Type),
		Value:        r.Value,
		Active:       r.Active,
		UsageLimit:   r.UsageLimit,
		PerUserLimit: r.PerUserLimit,
		ProductIDs:   r.ProductIDs,
		Categories:   r.Categories,
		StartsAt:     r.StartsAt,
		EndsAt:       r.EndsAt,
	}
}

// Validate checks a code against the signed-in user's usage before
// checkout so the cart page can show the outcome up front
// GET /api/v1/coupons/:code/validate
func (ctrl *CouponController) Validate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	coupon, err := ctrl.couponService.Validate(c.Param("code"), userID)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// AdminList returns all coupons for the back-office
// GET /api/v1/admin/coupons
func (ctrl *CouponController) AdminList(c *gin.Context) {
	offset, limit := pagination(c)
	activeOnly := c.Query("active") == "true"

	coupons, total, err := ctrl.couponService.List(activeOnly, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"total":   total,
	})
}

// AdminCreate adds a coupon
// POST /api/v1/admin/coupons
func (ctrl *CouponController) AdminCreate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Code, type and value are required")
		return
	}

	coupon, err := ctrl.couponService.Create(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponInvalidValue):
			apierrors.BadRequest(c, apierrors.CouponInvalidValue, "Invalid coupon type or value")
		case errors.Is(err, service.ErrCouponCodeTaken):
			apierrors.Conflict(c, apierrors.CouponAlreadyExists, "A coupon with this code already exists")
		default:
			log.Error("Coupon creation failed", err, map[string]interface{}{
				"code": req.Code,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// AdminUpdate edits a coupon
// PUT /api/v1/admin/coupons/:id
func (ctrl *CouponController) AdminUpdate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid coupon ID")
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Code, type and value are required")
		return
	}

	coupon, err := ctrl.couponService.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			apierrors.NotFound(c, apierrors.CouponNotFound, "Coupon not found")
		case errors.Is(err, service.ErrCouponInvalidValue):
			apierrors.BadRequest(c, apierrors.CouponInvalidValue, "Invalid coupon type or value")
		case errors.Is(err, service.ErrCouponCodeTaken):
			apierrors.Conflict(c, apierrors.CouponAlreadyExists, "A coupon with this code already exists")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// AdminDelete removes a coupon
// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) AdminDelete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid coupon ID")
		return
	}

	if err := ctrl.couponService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apierrors.NotFound(c, apierrors.CouponNotFound, "Coupon not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

func respondCouponError(c *gin.Context, err error) {
	switch {
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
	default:
		apierrors.InternalError(c, "")
	}
}

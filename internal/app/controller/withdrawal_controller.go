package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type WithdrawalController struct {
	withdrawalService service.WithdrawalService
}

func NewWithdrawalController(withdrawalService service.WithdrawalService) *WithdrawalController {
	return &WithdrawalController{withdrawalService: withdrawalService}
}

type WithdrawalRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type ReviewWithdrawalRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// Request asks to withdraw part of the seller's balance. The balance
// is reserved immediately so concurrent requests cannot overdraw it.
// POST /api/v1/seller/withdrawals
func (ctrl *WithdrawalController) Request(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Amount is required")
		return
	}

	withdrawal, err := ctrl.withdrawalService.Request(userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerProfileMissing):
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
		case errors.Is(err, service.ErrSellerNotApproved):
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerNotApproved, "Your seller account has not been approved yet")
		case errors.Is(err, service.ErrWithdrawalInvalidAmount):
			apierrors.BadRequest(c, apierrors.WithdrawalInvalidAmount, "Amount must be positive")
		case errors.Is(err, service.ErrInsufficientBalance):
			apierrors.BadRequest(c, apierrors.WithdrawalInsufficientBalance, "Amount exceeds your available balance")
		default:
			log.Error("Withdrawal request failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": withdrawal})
}

// List returns the seller's own withdrawal history
// GET /api/v1/seller/withdrawals
func (ctrl *WithdrawalController) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	withdrawals, err := ctrl.withdrawalService.ListForSeller(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerProfileMissing) {
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// AdminList returns withdrawal requests for review, optionally
// filtered by status
// GET /api/v1/admin/withdrawals
func (ctrl *WithdrawalController) AdminList(c *gin.Context) {
	offset, limit := pagination(c)
	status := model.WithdrawalStatus(c.Query("status"))

	withdrawals, total, err := ctrl.withdrawalService.List(status, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawals": withdrawals,
		"total":       total,
	})
}

// AdminReview settles a pending request. Rejection returns the
// reserved amount to the seller's balance.
// PATCH /api/v1/admin/withdrawals/:id
func (ctrl *WithdrawalController) AdminReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid withdrawal ID")
		return
	}

	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Status is required")
		return
	}

	status := model.WithdrawalStatus(req.Status)
	if status != model.WithdrawalApproved && status != model.WithdrawalRejected {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Status must be approved or rejected")
		return
	}

	withdrawal, err := ctrl.withdrawalService.Review(id, status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			apierrors.NotFound(c, apierrors.WithdrawalNotFound, "Withdrawal not found")
		case errors.Is(err, service.ErrWithdrawalNotPending):
			apierrors.Conflict(c, apierrors.WithdrawalAlreadyReviewed, "This withdrawal has already been reviewed")
		default:
			log.Error("Withdrawal review failed", err, map[string]interface{}{
				"withdrawal_id": id,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawal": withdrawal})
}

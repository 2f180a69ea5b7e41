package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type OrderController struct {
	orderService  service.OrderService
	sellerService service.SellerService
}

func NewOrderController(orderService service.OrderService, sellerService service.SellerService) *OrderController {
	return &OrderController{
		orderService:  orderService,
		sellerService: sellerService,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List returns the signed-in user's orders
// GET /api/v1/orders
func (ctrl *OrderController) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	offset, limit := pagination(c)
	orders, total, err := ctrl.orderService.ListByUser(userID, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// Get returns one of the user's orders with its items
// GET /api/v1/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
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

	order, err := ctrl.orderService.GetByID(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderNotOwned):
			apierrors.Forbidden(c, "")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// SellerList returns orders containing the seller's items, with the
// item lists narrowed to that seller's own lines
// GET /api/v1/seller/orders
func (ctrl *OrderController) SellerList(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	seller, err := ctrl.sellerService.GetByUserID(userID)
	if err != nil {
		apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
		return
	}
	if !seller.Approved() {
		apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerNotApproved, "Your seller account has not been approved yet")
		return
	}

	offset, limit := pagination(c)
	orders, total, err := ctrl.orderService.ListBySeller(seller.ID, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// AdminList returns all orders for the back-office
// GET /api/v1/admin/orders
func (ctrl *OrderController) AdminList(c *gin.Context) {
	offset, limit := pagination(c)
	orders, total, err := ctrl.orderService.List(adminOrderFilter(c, offset, limit))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// AdminGet returns any order
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminGet(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetByID(id, 0)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminUpdateStatus moves an order between statuses
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) AdminUpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Status is required")
		return
	}

	status := model.OrderStatus(req.Status)
	switch status {
	case model.OrderPending, model.OrderPaid, model.OrderCancelled:
	default:
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Unknown order status")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(id, status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Order status update failed", err, map[string]interface{}{
			"order_id": id,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminExport downloads the filtered orders as a spreadsheet
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) AdminExport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.orderService.ExportExcel(adminOrderFilter(c, 0, 0))
	if err != nil {
		log.Error("Order export failed", err)
		apierrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func adminOrderFilter(c *gin.Context, offset, limit int) repository.OrderFilter {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Offset: offset,
		Limit:  limit,
	}
	if userStr := c.Query("user_id"); userStr != "" {
		if id, err := strconv.ParseUint(userStr, 10, 32); err == nil {
			userID := uint(id)
			filter.UserID = &userID
		}
	}
	return filter
}

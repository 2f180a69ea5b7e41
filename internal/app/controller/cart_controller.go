package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// Get returns the cart with totals
// GET /api/v1/cart
func (ctrl *CartController) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	summary, err := ctrl.cartService.Get(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Add puts a product in the cart
// POST /api/v1/cart/items
func (ctrl *CartController) Add(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Product and quantity are required")
		return
	}

	item, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrProductOutOfStock):
			apierrors.Conflict(c, apierrors.ResourceConflict, "Not enough stock for this product")
		case errors.Is(err, service.ErrInvalidQuantity):
			apierrors.BadRequest(c, apierrors.ValidationInvalidRange, "Quantity must be positive")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// Update changes the quantity of a cart line
// PATCH /api/v1/cart/items/:productId
func (ctrl *CartController) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Quantity is required")
		return
	}

	if err := ctrl.cartService.UpdateQuantity(userID, productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apierrors.BadRequest(c, apierrors.ValidationInvalidRange, "Quantity must be positive")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// Remove deletes a cart line
// DELETE /api/v1/cart/items/:productId
func (ctrl *CartController) Remove(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.cartService.RemoveItem(userID, productID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// Clear empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) Clear(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.Clear(userID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	sellerService  service.SellerService
}

func NewProductController(productService service.ProductService, sellerService service.SellerService) *ProductController {
	return &ProductController{
		productService: productService,
		sellerService:  sellerService,
	}
}

type ProductRequest struct {
	NameAr        string   `json:"name_ar"`
	NameEn        string   `json:"name_en"`
	DescriptionAr string   `json:"description_ar"`
	DescriptionEn string   `json:"description_en"`
	Category      string   `json:"category"`
	Price         int64    `json:"price"`
	ImageURLs     []string `json:"image_urls"`
	Stock         int      `json:"stock"`
	Active        bool     `json:"active"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		NameAr:        r.NameAr,
		NameEn:        r.NameEn,
		DescriptionAr: r.DescriptionAr,
		DescriptionEn: r.DescriptionEn,
		Category:      r.Category,
		Price:         r.Price,
		ImageURLs:     r.ImageURLs,
		Stock:         r.Stock,
		Active:        r.Active,
	}
}

// List returns the storefront catalogue
// GET /api/v1/products
func (ctrl *ProductController) List(c *gin.Context) {
	offset, limit := pagination(c)
	filter := repository.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: true,
		Offset:     offset,
		Limit:      limit,
	}
	if sellerStr := c.Query("seller_id"); sellerStr != "" {
		if id, err := strconv.ParseUint(sellerStr, 10, 32); err == nil {
			sellerID := uint(id)
			filter.SellerID = &sellerID
		}
	}

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// Get returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// sellerID resolves the seller profile behind the signed-in user.
func (ctrl *ProductController) sellerID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, false
	}

	seller, err := ctrl.sellerService.GetByUserID(userID)
	if err != nil {
		apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
		return 0, false
	}
	if !seller.Approved() {
		apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerNotApproved, "Your seller account has not been approved yet")
		return 0, false
	}
	return seller.ID, true
}

// SellerList returns the seller's own listings including inactive ones
// GET /api/v1/seller/products
func (ctrl *ProductController) SellerList(c *gin.Context) {
	sellerID, ok := ctrl.sellerID(c)
	if !ok {
		return
	}

	offset, limit := pagination(c)
	products, total, err := ctrl.productService.List(repository.ProductFilter{
		SellerID: &sellerID,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// SellerCreate adds a listing under the signed-in seller
// POST /api/v1/seller/products
func (ctrl *ProductController) SellerCreate(c *gin.Context) {
	sellerID, ok := ctrl.sellerID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		return
	}

	product, err := ctrl.productService.Create(&sellerID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductInvalid) {
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// SellerUpdate edits one of the seller's own listings
// PATCH /api/v1/seller/products/:id
func (ctrl *ProductController) SellerUpdate(c *gin.Context) {
	sellerID, ok := ctrl.sellerID(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		return
	}

	product, err := ctrl.productService.Update(id, &sellerID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrProductNotOwned):
			apierrors.Forbidden(c, "This product belongs to another seller")
		case errors.Is(err, service.ErrProductInvalid):
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// SellerDelete removes one of the seller's own listings
// DELETE /api/v1/seller/products/:id
func (ctrl *ProductController) SellerDelete(c *gin.Context) {
	sellerID, ok := ctrl.sellerID(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(id, &sellerID); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrProductNotOwned):
			apierrors.Forbidden(c, "This product belongs to another seller")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AdminList returns all listings for the back-office
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminList(c *gin.Context) {
	offset, limit := pagination(c)
	products, total, err := ctrl.productService.List(repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// AdminCreate adds a house product
// POST /api/v1/admin/products
func (ctrl *ProductController) AdminCreate(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		return
	}

	product, err := ctrl.productService.Create(nil, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductInvalid) {
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// AdminUpdate edits any listing
// PATCH /api/v1/admin/products/:id
func (ctrl *ProductController) AdminUpdate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		return
	}

	product, err := ctrl.productService.Update(id, nil, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrProductInvalid):
			apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid product fields")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// AdminSetStock replaces a listing's stock level
// PATCH /api/v1/admin/products/:id/stock
func (ctrl *ProductController) AdminSetStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Stock is required")
		return
	}

	product, err := ctrl.productService.SetStock(id, *req.Stock)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrProductInvalid):
			apierrors.BadRequest(c, apierrors.ValidationInvalidRange, "Stock cannot be negative")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// AdminDelete removes any listing
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) AdminDelete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(id, nil); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Product not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

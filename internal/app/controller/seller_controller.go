package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/service"
	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
)

type SellerController struct {
	sellerService service.SellerService
}

func NewSellerController(sellerService service.SellerService) *SellerController {
	return &SellerController{
		sellerService: sellerService,
	}
}

type SellerLoginRequest struct {
	Login    string `json:"login" binding:"required"` // username or login email
	Password string `json:"password" binding:"required"`
}

type RejectSellerRequest struct {
	Reason string `json:"reason"`
}

// Register accepts a seller application as multipart form data with
// the verification document attached
// POST /api/v1/seller/register
func (ctrl *SellerController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.SellerRegistration{
		LegalName:     c.PostForm("legal_name"),
		ContactEmail:  c.PostForm("contact_email"),
		Phone:         c.PostForm("phone"),
		StoreName:     c.PostForm("store_name"),
		StoreCategory: c.PostForm("store_category"),
		Username:      c.PostForm("username"),
		Password:      c.PostForm("password"),
	}

	file, header, err := c.Request.FormFile("document")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			apierrors.BadRequest(c, apierrors.UploadFailed, "Could not read the uploaded document")
			return
		}
		input.Document = data
		input.DocumentName = header.Filename
		input.DocumentType = header.Header.Get("Content-Type")
	}

	seller, err := ctrl.sellerService.Register(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationIncomplete):
			apierrors.BadRequest(c, apierrors.ValidationRequired, "Missing required registration fields")
		case errors.Is(err, service.ErrUsernameInvalid):
			apierrors.BadRequest(c, apierrors.SellerUsernameInvalid, "Username may only contain letters, digits, dots, underscores and dashes")
		case errors.Is(err, service.ErrUsernameTaken):
			apierrors.Conflict(c, apierrors.SellerUsernameExists, "This username is already taken")
		case errors.Is(err, service.ErrDocumentMissing):
			apierrors.BadRequest(c, apierrors.SellerDocumentMissing, "A verification document is required")
		case errors.Is(err, service.ErrDocumentTooLarge):
			apierrors.BadRequest(c, apierrors.SellerDocumentTooLarge, "The verification document is too large")
		default:
			log.Error("Seller registration failed", err, map[string]interface{}{
				"store_name": input.StoreName,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	// registration does not sign the applicant in; review comes first
	c.JSON(http.StatusCreated, gin.H{
		"seller":  seller,
		"message": "Your application has been received and is pending review",
	})
}

// Login signs an approved seller in and sets the dashboard cookie.
// Pending or rejected sellers get a distinct error code and no
// session.
// POST /api/v1/seller/login
func (ctrl *SellerController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SellerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Login and password are required")
		return
	}

	user, seller, tokens, err := ctrl.sellerService.Login(req.Login, req.Password)
	if err != nil {
		// any failure clears the dashboard cookie so no stale session
		// survives
		ctrl.clearApprovedCookie(c)

		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.AuthInvalidCredentials, "Invalid login or password")
		case errors.Is(err, service.ErrSellerProfileMissing):
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
		case errors.Is(err, service.ErrSellerNotApproved):
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerNotApproved, "Your seller account has not been approved yet")
		default:
			log.Error("Seller login failed", err, map[string]interface{}{
				"login": req.Login,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	// UX fast-gate for the dashboard pages; approval stays enforced
	// server-side
	c.SetCookie(middleware.ApprovedCookie, "true", 86400, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"seller": seller,
		"tokens": tokens,
	})
}

// Logout clears the dashboard cookie
// POST /api/v1/seller/logout
func (ctrl *SellerController) Logout(c *gin.Context) {
	ctrl.clearApprovedCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (ctrl *SellerController) clearApprovedCookie(c *gin.Context) {
	c.SetCookie(middleware.ApprovedCookie, "", -1, "/", "", false, false)
}

// Me returns the seller profile behind the credential
// GET /api/v1/seller/me
func (ctrl *SellerController) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	seller, err := ctrl.sellerService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerProfileMissing) {
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.SellerProfileMissing, "No seller profile is attached to this account")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"seller": seller})
}

// ListSellers returns sellers for the back-office, optionally filtered
// by approval status
// GET /api/v1/admin/sellers
func (ctrl *SellerController) ListSellers(c *gin.Context) {
	status := model.ApprovalStatus(c.Query("status"))
	offset, limit := pagination(c)

	sellers, total, err := ctrl.sellerService.List(status, offset, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sellers": sellers,
		"total":   total,
	})
}

// Approve approves a pending seller
// POST /api/v1/admin/sellers/:id/approve
func (ctrl *SellerController) Approve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid seller ID")
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)
	seller, err := ctrl.sellerService.Approve(id, reviewer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Seller not found")
		case errors.Is(err, service.ErrSellerAlreadyReviewed):
			apierrors.Conflict(c, apierrors.SellerAlreadyReviewed, "This seller has already been rejected")
		default:
			log.Error("Seller approval failed", err, map[string]interface{}{
				"seller_id": id,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"seller": seller})
}

// Reject rejects a pending seller
// POST /api/v1/admin/sellers/:id/reject
func (ctrl *SellerController) Reject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "Invalid seller ID")
		return
	}

	var req RejectSellerRequest
	_ = c.ShouldBindJSON(&req)

	reviewer, _ := middleware.GetUserEmail(c)
	seller, err := ctrl.sellerService.Reject(id, req.Reason, reviewer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerNotFound):
			apierrors.NotFound(c, apierrors.ResourceNotFound, "Seller not found")
		case errors.Is(err, service.ErrSellerAlreadyReviewed):
			apierrors.Conflict(c, apierrors.SellerAlreadyReviewed, "This seller has already been approved")
		default:
			log.Error("Seller rejection failed", err, map[string]interface{}{
				"seller_id": id,
			})
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"seller": seller})
}

// parseIDParam reads a uint path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pagination reads offset/limit query parameters with defaults.
func pagination(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/almira/almira-backend/internal/errors"
	"github.com/almira/almira-backend/internal/middleware"
	"github.com/almira/almira-backend/internal/storage"
)

// image uploads go through presigned URLs so the server never
// relays the bytes
const maxUploadSize = 10 * 1024 * 1024

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
	Folder      string `json:"folder"`
}

// Presign issues a time-limited upload URL for product and banner
// images
// POST /api/v1/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apierrors.RespondWithError(c, http.StatusServiceUnavailable, apierrors.UploadFailed, "File storage is not configured")
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Filename, content type and size are required")
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.Size, maxUploadSize); err != nil {
		apierrors.BadRequest(c, apierrors.UploadFileTooLarge, "File exceeds the upload size limit")
		return
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apierrors.BadRequest(c, apierrors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are accepted")
		return
	}

	folder := req.Folder
	switch folder {
	case "products", "banners", "pages":
	default:
		folder = "uploads"
	}

	resp, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, resp)
}

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

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// GetShipping returns the shipping settings
// GET /api/v1/settings/shipping
func (ctrl *SettingsController) GetShipping(c *gin.Context) {
	settings, err := ctrl.settingsService.GetShipping()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipping": settings})
}

// UpdateShipping applies a partial update; omitted fields keep their
// stored value
// PATCH /api/v1/admin/settings/shipping
func (ctrl *SettingsController) UpdateShipping(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var update service.ShippingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid shipping settings")
		return
	}

	settings, err := ctrl.settingsService.UpdateShipping(update)
	if err != nil {
		log.Error("Failed to update shipping settings", err)
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipping": settings})
}

// GetHomeAds returns the home page banner configuration
// GET /api/v1/settings/home-ads
func (ctrl *SettingsController) GetHomeAds(c *gin.Context) {
	settings, err := ctrl.settingsService.GetHomeAds()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"home_ads": settings})
}

// UpdateHomeAds applies a partial update to the home page banners
// PATCH /api/v1/admin/settings/home-ads
func (ctrl *SettingsController) UpdateHomeAds(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var update service.HomeAdsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid home ads settings")
		return
	}

	settings, err := ctrl.settingsService.UpdateHomeAds(update)
	if err != nil {
		log.Error("Failed to update home ads", err)
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"home_ads": settings})
}

// GetMarketingTool returns the marketing banner configuration
// GET /api/v1/settings/marketing
func (ctrl *SettingsController) GetMarketingTool(c *gin.Context) {
	settings, err := ctrl.settingsService.GetMarketingTool()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marketing": settings})
}

// UpdateMarketingTool applies a partial update to the marketing banner
// PATCH /api/v1/admin/settings/marketing
func (ctrl *SettingsController) UpdateMarketingTool(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var update service.MarketingToolUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid marketing settings")
		return
	}

	settings, err := ctrl.settingsService.UpdateMarketingTool(update)
	if err != nil {
		log.Error("Failed to update marketing tool", err)
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marketing": settings})
}

// ListPages returns the content of every landing page
// GET /api/v1/settings/pages
func (ctrl *SettingsController) ListPages(c *gin.Context) {
	pages, err := ctrl.settingsService.ListPages()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pages": pages,
		"keys":  model.LandingPageKeys,
	})
}

// GetPage returns one landing page by its fixed key
// GET /api/v1/settings/pages/:key
func (ctrl *SettingsController) GetPage(c *gin.Context) {
	page, err := ctrl.settingsService.GetPage(c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownPageKey) {
			apierrors.NotFound(c, apierrors.SettingsUnknownPage, "Unknown page")
			return
		}
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// UpdatePage applies a partial update to one landing page
// PATCH /api/v1/admin/settings/pages/:key
func (ctrl *SettingsController) UpdatePage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var update service.LandingPageUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid page content")
		return
	}

	key := c.Param("key")
	page, err := ctrl.settingsService.UpdatePage(key, update)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPageKey) {
			apierrors.NotFound(c, apierrors.SettingsUnknownPage, "Unknown page")
			return
		}
		log.Error("Failed to update landing page", err, map[string]interface{}{
			"key": key,
		})
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

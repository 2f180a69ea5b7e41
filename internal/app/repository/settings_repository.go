package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

// SettingsRepository persists the singleton settings documents and the
// per-key landing pages. Reads create the row with defaults on first
// access so callers always get a document back.
type SettingsRepository interface {
	GetShipping() (*model.ShippingSettings, error)
	SaveShipping(settings *model.ShippingSettings) error
	GetHomeAds() (*model.HomeAds, error)
	SaveHomeAds(ads *model.HomeAds) error
	GetMarketingTool() (*model.MarketingTool, error)
	SaveMarketingTool(tool *model.MarketingTool) error
	GetPage(key string) (*model.LandingPage, error)
	SavePage(page *model.LandingPage) error
	ListPages() ([]model.LandingPage, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetShipping() (*model.ShippingSettings, error) {
	var settings model.ShippingSettings
	err := r.db.Where(model.ShippingSettings{ID: 1}).
		Attrs(model.ShippingSettings{Enabled: true, FreeThreshold: 3, EstimatedDays: 3}).
		FirstOrCreate(&settings).Error
	if err != nil {
		logger.Error("Failed to load shipping settings in database", err)
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SaveShipping(settings *model.ShippingSettings) error {
	settings.ID = 1
	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save shipping settings in database", err)
		return err
	}
	return nil
}

func (r *settingsRepository) GetHomeAds() (*model.HomeAds, error) {
	var ads model.HomeAds
	err := r.db.Where(model.HomeAds{ID: 1}).FirstOrCreate(&ads).Error
	if err != nil {
		logger.Error("Failed to load home ads in database", err)
		return nil, err
	}
	return &ads, nil
}

func (r *settingsRepository) SaveHomeAds(ads *model.HomeAds) error {
	ads.ID = 1
	if err := r.db.Save(ads).Error; err != nil {
		logger.Error("Failed to save home ads in database", err)
		return err
	}
	return nil
}

func (r *settingsRepository) GetMarketingTool() (*model.MarketingTool, error) {
	var tool model.MarketingTool
	err := r.db.Where(model.MarketingTool{ID: 1}).FirstOrCreate(&tool).Error
	if err != nil {
		logger.Error("Failed to load marketing tool in database", err)
		return nil, err
	}
	return &tool, nil
}

func (r *settingsRepository) SaveMarketingTool(tool *model.MarketingTool) error {
	tool.ID = 1
	if err := r.db.Save(tool).Error; err != nil {
		logger.Error("Failed to save marketing tool in database", err)
		return err
	}
	return nil
}

func (r *settingsRepository) GetPage(key string) (*model.LandingPage, error) {
	var page model.LandingPage
	err := r.db.Where(model.LandingPage{Key: key}).FirstOrCreate(&page).Error
	if err != nil {
		logger.Error("Failed to load landing page in database", err, map[string]interface{}{
			"page_key": key,
		})
		return nil, err
	}
	return &page, nil
}

func (r *settingsRepository) SavePage(page *model.LandingPage) error {
	if err := r.db.Save(page).Error; err != nil {
		logger.Error("Failed to save landing page in database", err, map[string]interface{}{
			"page_key": page.Key,
		})
		return err
	}
	return nil
}

func (r *settingsRepository) ListPages() ([]model.LandingPage, error) {
	var pages []model.LandingPage
	if err := r.db.Order("key ASC").Find(&pages).Error; err != nil {
		logger.Error("Failed to list landing pages in database", err)
		return nil, err
	}
	return pages, nil
}

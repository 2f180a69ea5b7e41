package service

import (
	"errors"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
)

var ErrUnknownPageKey = errors.New("unknown landing page key")

// Update structs carry only the fields the caller wants to change.
// Nil pointers leave the stored value untouched, which gives settings
// documents their merge-write behavior.

type ShippingUpdate struct {
	Enabled       *bool   `json:"enabled,omitempty"`
	FlatRate      *int64  `json:"flat_rate,omitempty"`
	FreeThreshold *int    `json:"free_threshold,omitempty"`
	EstimatedDays *int    `json:"estimated_days,omitempty"`
	Note          *string `json:"note,omitempty"`
}

type HomeAdsUpdate struct {
	BannerURLs  []string `json:"banner_urls,omitempty"`
	PromoAr     *string  `json:"promo_ar,omitempty"`
	PromoEn     *string  `json:"promo_en,omitempty"`
	BookingLink *string  `json:"booking_link,omitempty"`
}

type MarketingToolUpdate struct {
	HeadlineAr *string  `json:"headline_ar,omitempty"`
	HeadlineEn *string  `json:"headline_en,omitempty"`
	SubtitleAr *string  `json:"subtitle_ar,omitempty"`
	SubtitleEn *string  `json:"subtitle_en,omitempty"`
	CTAAr      *string  `json:"cta_ar,omitempty"`
	CTAEn      *string  `json:"cta_en,omitempty"`
	CTAURL     *string  `json:"cta_url,omitempty"`
	PhrasesAr  []string `json:"phrases_ar,omitempty"`
	PhrasesEn  []string `json:"phrases_en,omitempty"`
}

type LandingPageUpdate struct {
	TitleAr    *string `json:"title_ar,omitempty"`
	TitleEn    *string `json:"title_en,omitempty"`
	SubtitleAr *string `json:"subtitle_ar,omitempty"`
	SubtitleEn *string `json:"subtitle_en,omitempty"`
	CTAAr      *string `json:"cta_ar,omitempty"`
	CTAEn      *string `json:"cta_en,omitempty"`
	CTAURL     *string `json:"cta_url,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
}

type SettingsService interface {
	GetShipping() (*model.ShippingSettings, error)
	UpdateShipping(update ShippingUpdate) (*model.ShippingSettings, error)
	GetHomeAds() (*model.HomeAds, error)
	UpdateHomeAds(update HomeAdsUpdate) (*model.HomeAds, error)
	GetMarketingTool() (*model.MarketingTool, error)
	UpdateMarketingTool(update MarketingToolUpdate) (*model.MarketingTool, error)
	GetPage(key string) (*model.LandingPage, error)
	UpdatePage(key string, update LandingPageUpdate) (*model.LandingPage, error)
	ListPages() ([]model.LandingPage, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetShipping() (*model.ShippingSettings, error) {
	return s.settingsRepo.GetShipping()
}

func (s *settingsService) UpdateShipping(update ShippingUpdate) (*model.ShippingSettings, error) {
	settings, err := s.settingsRepo.GetShipping()
	if err != nil {
		return nil, err
	}

	if update.Enabled != nil {
		settings.Enabled = *update.Enabled
	}
	if update.FlatRate != nil {
		settings.FlatRate = *update.FlatRate
	}
	if update.FreeThreshold != nil {
		settings.FreeThreshold = *update.FreeThreshold
	}
	if update.EstimatedDays != nil {
		settings.EstimatedDays = *update.EstimatedDays
	}
	if update.Note != nil {
		settings.Note = *update.Note
	}

	if err := s.settingsRepo.SaveShipping(settings); err != nil {
		return nil, err
	}

	logger.Info("Shipping settings updated", map[string]interface{}{
		"enabled":        settings.Enabled,
		"flat_rate":      settings.FlatRate,
		"free_threshold": settings.FreeThreshold,
	})
	return settings, nil
}

func (s *settingsService) GetHomeAds() (*model.HomeAds, error) {
	return s.settingsRepo.GetHomeAds()
}

func (s *settingsService) UpdateHomeAds(update HomeAdsUpdate) (*model.HomeAds, error) {
	ads, err := s.settingsRepo.GetHomeAds()
	if err != nil {
		return nil, err
	}

	if update.BannerURLs != nil {
		ads.BannerURLs = model.StringArray(update.BannerURLs)
	}
	if update.PromoAr != nil {
		ads.PromoAr = *update.PromoAr
	}
	if update.PromoEn != nil {
		ads.PromoEn = *update.PromoEn
	}
	if update.BookingLink != nil {
		ads.BookingLink = *update.BookingLink
	}

	if err := s.settingsRepo.SaveHomeAds(ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *settingsService) GetMarketingTool() (*model.MarketingTool, error) {
	return s.settingsRepo.GetMarketingTool()
}

func (s *settingsService) UpdateMarketingTool(update MarketingToolUpdate) (*model.MarketingTool, error) {
	tool, err := s.settingsRepo.GetMarketingTool()
	if err != nil {
		return nil, err
	}

	if update.HeadlineAr != nil {
		tool.HeadlineAr = *update.HeadlineAr
	}
	if update.HeadlineEn != nil {
		tool.HeadlineEn = *update.HeadlineEn
	}
	if update.SubtitleAr != nil {
		tool.SubtitleAr = *update.SubtitleAr
	}
	if update.SubtitleEn != nil {
		tool.SubtitleEn = *update.SubtitleEn
	}
	if update.CTAAr != nil {
		tool.CTAAr = *update.CTAAr
	}
	if update.CTAEn != nil {
		tool.CTAEn = *update.CTAEn
	}
	if update.CTAURL != nil {
		tool.CTAURL = *update.CTAURL
	}
	if update.PhrasesAr != nil {
		tool.PhrasesAr = model.StringArray(update.PhrasesAr)
	}
	if update.PhrasesEn != nil {
		tool.PhrasesEn = model.StringArray(update.PhrasesEn)
	}

	if err := s.settingsRepo.SaveMarketingTool(tool); err != nil {
		return nil, err
	}
	return tool, nil
}

func (s *settingsService) GetPage(key string) (*model.LandingPage, error) {
	if !model.ValidPageKey(key) {
		return nil, ErrUnknownPageKey
	}
	return s.settingsRepo.GetPage(key)
}

func (s *settingsService) UpdatePage(key string, update LandingPageUpdate) (*model.LandingPage, error) {
	if !model.ValidPageKey(key) {
		return nil, ErrUnknownPageKey
	}

	page, err := s.settingsRepo.GetPage(key)
	if err != nil {
		return nil, err
	}

	if update.TitleAr != nil {
		page.TitleAr = *update.TitleAr
	}
	if update.TitleEn != nil {
		page.TitleEn = *update.TitleEn
	}
	if update.SubtitleAr != nil {
		page.SubtitleAr = *update.SubtitleAr
	}
	if update.SubtitleEn != nil {
		page.SubtitleEn = *update.SubtitleEn
	}
	if update.CTAAr != nil {
		page.CTAAr = *update.CTAAr
	}
	if update.CTAEn != nil {
		page.CTAEn = *update.CTAEn
	}
	if update.CTAURL != nil {
		page.CTAURL = *update.CTAURL
	}
	if update.ImageURL != nil {
		page.ImageURL = *update.ImageURL
	}

	if err := s.settingsRepo.SavePage(page); err != nil {
		return nil, err
	}

	logger.Info("Landing page updated", map[string]interface{}{
		"page_key": key,
	})
	return page, nil
}

func (s *settingsService) ListPages() ([]model.LandingPage, error) {
	return s.settingsRepo.ListPages()
}

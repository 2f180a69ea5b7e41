package model

import "time"

// Settings documents are singleton rows (or one row per page key for
// LandingPage). Updates are merge-writes: unspecified fields keep their
// previous values.

// ShippingSettings controls delivery pricing on the storefront.
type ShippingSettings struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Enabled       bool      `gorm:"default:true" json:"enabled"`
	FlatRate      int64     `gorm:"default:0" json:"flat_rate"`       // minor units
	FreeThreshold int       `gorm:"default:3" json:"free_threshold"`  // total item count for free delivery
	EstimatedDays int       `gorm:"default:3" json:"estimated_days"`
	Note          string    `gorm:"type:text" json:"note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ShippingSettings) TableName() string {
	return "shipping_settings"
}

// HomeAds holds the home page banner slots and promotional copy.
type HomeAds struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	BannerURLs  StringArray `gorm:"type:text" json:"banner_urls"`
	PromoAr     string      `gorm:"type:text" json:"promo_ar"`
	PromoEn     string      `gorm:"type:text" json:"promo_en"`
	BookingLink string      `json:"booking_link"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (HomeAds) TableName() string {
	return "home_ads"
}

// MarketingTool is the rotating promotional strip shown site-wide.
type MarketingTool struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	HeadlineAr string      `json:"headline_ar"`
	HeadlineEn string      `json:"headline_en"`
	SubtitleAr string      `json:"subtitle_ar"`
	SubtitleEn string      `json:"subtitle_en"`
	CTAAr      string      `json:"cta_ar"`
	CTAEn      string      `json:"cta_en"`
	CTAURL     string      `json:"cta_url"`
	PhrasesAr  StringArray `gorm:"type:text" json:"phrases_ar"`
	PhrasesEn  StringArray `gorm:"type:text" json:"phrases_en"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (MarketingTool) TableName() string {
	return "marketing_tools"
}

// Landing page keys the storefront navigation links to. The set is
// fixed; writes to any other key are rejected.
const (
	PageNewArrivals = "new-arrivals"
	PageBestSellers = "best-sellers"
	PageAbayas      = "abayas"
	PageDresses     = "dresses"
	PageHijabs      = "hijabs"
	PageAccessories = "accessories"
	PageSale        = "sale"
	PageAbout       = "about"
	PageContact     = "contact"
)

// LandingPageKeys is the closed set of valid page keys.
var LandingPageKeys = []string{
	PageNewArrivals,
	PageBestSellers,
	PageAbayas,
	PageDresses,
	PageHijabs,
	PageAccessories,
	PageSale,
	PageAbout,
	PageContact,
}

// ValidPageKey reports whether the key names a known landing page.
func ValidPageKey(key string) bool {
	for _, k := range LandingPageKeys {
		if k == key {
			return true
		}
	}
	return false
}

// LandingPage is the editable hero content of one navigational page.
type LandingPage struct {
	Key        string    `gorm:"primarykey" json:"key"`
	TitleAr    string    `json:"title_ar"`
	TitleEn    string    `json:"title_en"`
	SubtitleAr string    `json:"subtitle_ar"`
	SubtitleEn string    `json:"subtitle_en"`
	CTAAr      string    `json:"cta_ar"`
	CTAEn      string    `json:"cta_en"`
	CTAURL     string    `json:"cta_url"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (LandingPage) TableName() string {
	return "landing_pages"
}

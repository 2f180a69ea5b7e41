package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

func setupSettingsServiceTest(t *testing.T) SettingsService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewSettingsService(repository.NewSettingsRepository(testDB))
}

func TestSettingsService_ShippingDefaults(t *testing.T) {
	settingsService := setupSettingsServiceTest(t)

	settings, err := settingsService.GetShipping()
	require.NoError(t, err)

	assert.True(t, settings.Enabled)
	assert.Equal(t, int64(0), settings.FlatRate)
	assert.Equal(t, 3, settings.FreeThreshold)
	assert.Equal(t, 3, settings.EstimatedDays)
}

func TestSettingsService_UpdateShipping_MergeWrite(t *testing.T) {
	settingsService := setupSettingsServiceTest(t)

	flatRate := int64(1500)
	note := "Delivered by Aramex"
	_, err := settingsService.UpdateShipping(ShippingUpdate{FlatRate: &flatRate, Note: &note})
	require.NoError(t, err)

	// a later partial update leaves untouched fields in place
	threshold := 5
	updated, err := settingsService.UpdateShipping(ShippingUpdate{FreeThreshold: &threshold})
	require.NoError(t, err)

	assert.True(t, updated.Enabled)
	assert.Equal(t, int64(1500), updated.FlatRate)
	assert.Equal(t, 5, updated.FreeThreshold)
	assert.Equal(t, "Delivered by Aramex", updated.Note)

	stored, err := settingsService.GetShipping()
	require.NoError(t, err)
	assert.Equal(t, int64(1500), stored.FlatRate)
	assert.Equal(t, 5, stored.FreeThreshold)

	disabled := false
	updated, err = settingsService.UpdateShipping(ShippingUpdate{Enabled: &disabled})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, int64(1500), updated.FlatRate)
}

func TestSettingsService_UpdateHomeAds(t *testing.T) {
	settingsService := setupSettingsServiceTest(t)

	promo := "Summer collection is here"
	updated, err := settingsService.UpdateHomeAds(HomeAdsUpdate{
		BannerURLs: []string{"https://cdn.example.com/banners/1.jpg"},
		PromoEn:    &promo,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StringArray{"https://cdn.example.com/banners/1.jpg"}, updated.BannerURLs)
	assert.Equal(t, "Summer collection is here", updated.PromoEn)
	assert.Empty(t, updated.PromoAr)

	promoAr := "وصلت تشكيلة الصيف"
	updated, err = settingsService.UpdateHomeAds(HomeAdsUpdate{PromoAr: &promoAr})
	require.NoError(t, err)
	assert.Equal(t, "وصلت تشكيلة الصيف", updated.PromoAr)
	assert.Equal(t, "Summer collection is here", updated.PromoEn)
	assert.Len(t, updated.BannerURLs, 1)
}

func TestSettingsService_UpdateMarketingTool(t *testing.T) {
	settingsService := setupSettingsServiceTest(t)

	headline := "Modest fashion, delivered"
	updated, err := settingsService.UpdateMarketingTool(MarketingToolUpdate{
		HeadlineEn: &headline,
		PhrasesEn:  []string{"Free delivery over 3 items"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Modest fashion, delivered", updated.HeadlineEn)
	assert.Equal(t, model.StringArray{"Free delivery over 3 items"}, updated.PhrasesEn)

	cta := "Shop now"
	updated, err = settingsService.UpdateMarketingTool(MarketingToolUpdate{CTAEn: &cta})
	require.NoError(t, err)
	assert.Equal(t, "Shop now", updated.CTAEn)
	assert.Equal(t, "Modest fashion, delivered", updated.HeadlineEn)
}

func TestSettingsService_Pages(t *testing.T) {
	settingsService := setupSettingsServiceTest(t)

	t.Run("Every known key resolves", func(t *testing.T) {
		for _, key := range model.LandingPageKeys {
			page, err := settingsService.GetPage(key)
			require.NoError(t, err)
			assert.Equal(t, key, page.Key)
		}
	})

	t.Run("Unknown key", func(t *testing.T) {
		_, err := settingsService.GetPage("flash-sale")
		assert.ErrorIs(t, err, ErrUnknownPageKey)

		_, err = settingsService.UpdatePage("flash-sale", LandingPageUpdate{})
		assert.ErrorIs(t, err, ErrUnknownPageKey)
	})

	t.Run("Merge-write update", func(t *testing.T) {
		title := "New Arrivals"
		updated, err := settingsService.UpdatePage(model.PageNewArrivals, LandingPageUpdate{TitleEn: &title})
		require.NoError(t, err)
		assert.Equal(t, "New Arrivals", updated.TitleEn)

		image := "https://cdn.example.com/pages/new-arrivals.jpg"
		updated, err = settingsService.UpdatePage(model.PageNewArrivals, LandingPageUpdate{ImageURL: &image})
		require.NoError(t, err)
		assert.Equal(t, "New Arrivals", updated.TitleEn)
		assert.Equal(t, image, updated.ImageURL)
	})
}

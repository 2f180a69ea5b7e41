package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/db"
)

func setupCouponServiceTest(t *testing.T) CouponService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewCouponService(repository.NewCouponRepository(testDB))
}

func TestCouponService_Create(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	tests := []struct {
		name    string
		input   CouponInput
		wantErr error
	}{
		{
			name:    "Valid percent coupon",
			input:   CouponInput{Code: "welcome10", Type: model.CouponPercent, Value: 10, Active: true},
			wantErr: nil,
		},
		{
			name:    "Valid fixed coupon",
			input:   CouponInput{Code: "FLAT50", Type: model.CouponFixed, Value: 5000, Active: true},
			wantErr: nil,
		},
		{
			name:    "Percent above 100",
			input:   CouponInput{Code: "TOOMUCH", Type: model.CouponPercent, Value: 150, Active: true},
			wantErr: ErrCouponInvalidValue,
		},
		{
			name:    "Negative value",
			input:   CouponInput{Code: "NEGATIVE", Type: model.CouponFixed, Value: -100, Active: true},
			wantErr: ErrCouponInvalidValue,
		},
		{
			name:    "Unknown type",
			input:   CouponInput{Code: "WEIRD", Type: "bogo", Value: 10, Active: true},
			wantErr: ErrCouponInvalidValue,
		},
		{
			name:    "Empty code",
			input:   CouponInput{Code: "", Type: model.CouponPercent, Value: 10, Active: true},
			wantErr: ErrCouponInvalidValue,
		},
		{
			name:    "Duplicate code",
			input:   CouponInput{Code: "WELCOME10", Type: model.CouponPercent, Value: 20, Active: true},
			wantErr: ErrCouponCodeTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon, err := couponService.Create(tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, coupon)
			} else {
				require.NoError(t, err)
				require.NotNil(t, coupon)
				// codes are stored uppercased
				assert.Contains(t, []string{"WELCOME10", "FLAT50"}, coupon.Code)
			}
		})
	}
}

func TestCouponService_ComputeDiscount_Percent(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	coupon := &model.Coupon{Type: model.CouponPercent, Value: 20}
	items := []PricedItem{
		{ProductID: 1, Category: "abayas", UnitPrice: 4000, Quantity: 2},
		{ProductID: 2, Category: "hijabs", UnitPrice: 2000, Quantity: 1},
	}

	// 20% of 10000
	assert.Equal(t, int64(2000), couponService.ComputeDiscount(coupon, items))
}

func TestCouponService_ComputeDiscount_PercentRounding(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	coupon := &model.Coupon{Type: model.CouponPercent, Value: 15}
	items := []PricedItem{
		{ProductID: 1, UnitPrice: 333, Quantity: 1},
	}

	// 15% of 333 = 49.95, rounds to 50
	assert.Equal(t, int64(50), couponService.ComputeDiscount(coupon, items))
}

func TestCouponService_ComputeDiscount_FixedCap(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	coupon := &model.Coupon{Type: model.CouponFixed, Value: 5000}
	items := []PricedItem{
		{ProductID: 1, UnitPrice: 1500, Quantity: 2},
	}

	// capped at the eligible subtotal of 3000
	assert.Equal(t, int64(3000), couponService.ComputeDiscount(coupon, items))

	coupon.Value = 1000
	assert.Equal(t, int64(1000), couponService.ComputeDiscount(coupon, items))
}

func TestCouponService_ComputeDiscount_AllowLists(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	items := []PricedItem{
		{ProductID: 1, Category: "abayas", UnitPrice: 4000, Quantity: 1},
		{ProductID: 2, Category: "hijabs", UnitPrice: 1000, Quantity: 2},
		{ProductID: 3, Category: "accessories", UnitPrice: 500, Quantity: 1},
	}

	tests := []struct {
		name   string
		coupon *model.Coupon
		want   int64
	}{
		{
			name:   "Empty lists cover everything",
			coupon: &model.Coupon{Type: model.CouponPercent, Value: 10},
			want:   650, // 10% of 6500
		},
		{
			name: "Category allow-list",
			coupon: &model.Coupon{
				Type:       model.CouponPercent,
				Value:      50,
				Categories: model.StringArray{"hijabs"},
			},
			want: 1000, // 50% of 2000
		},
		{
			name: "Product allow-list",
			coupon: &model.Coupon{
				Type:       model.CouponFixed,
				Value:      10000,
				ProductIDs: model.UintArray{3},
			},
			want: 500, // capped at the single eligible line
		},
		{
			name: "Either list admits an item",
			coupon: &model.Coupon{
				Type:       model.CouponPercent,
				Value:      100,
				ProductIDs: model.UintArray{1},
				Categories: model.StringArray{"accessories"},
			},
			want: 4500, // 4000 + 500
		},
		{
			name: "Nothing eligible",
			coupon: &model.Coupon{
				Type:       model.CouponPercent,
				Value:      50,
				Categories: model.StringArray{"dresses"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, couponService.ComputeDiscount(tt.coupon, items))
		})
	}
}

func TestCouponService_Validate(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	one := 1

	_, err := couponService.Create(CouponInput{Code: "LIVE", Type: model.CouponPercent, Value: 10, Active: true})
	require.NoError(t, err)
	_, err = couponService.Create(CouponInput{Code: "PAUSED", Type: model.CouponPercent, Value: 10, Active: false})
	require.NoError(t, err)
	_, err = couponService.Create(CouponInput{Code: "OLD", Type: model.CouponPercent, Value: 10, Active: true, EndsAt: &past})
	require.NoError(t, err)
	_, err = couponService.Create(CouponInput{Code: "SOON", Type: model.CouponPercent, Value: 10, Active: true, StartsAt: &future})
	require.NoError(t, err)
	limited, err := couponService.Create(CouponInput{Code: "ONCE", Type: model.CouponPercent, Value: 10, Active: true, PerUserLimit: &one})
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "Active coupon", code: "LIVE", wantErr: nil},
		{name: "Case-insensitive lookup", code: "live", wantErr: nil},
		{name: "Unknown code", code: "MISSING", wantErr: ErrCouponNotFound},
		{name: "Inactive coupon", code: "PAUSED", wantErr: ErrCouponInactive},
		{name: "Expired coupon", code: "OLD", wantErr: ErrCouponExpired},
		{name: "Not yet started", code: "SOON", wantErr: ErrCouponNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon, err := couponService.Validate(tt.code, 1)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, coupon)
			} else {
				require.NoError(t, err)
				require.NotNil(t, coupon)
			}
		})
	}

	t.Run("Per-user limit", func(t *testing.T) {
		_, err := couponService.Validate("ONCE", 42)
		require.NoError(t, err)

		require.NoError(t, couponService.Redeem(limited.ID, 42))

		_, err = couponService.Validate("ONCE", 42)
		assert.ErrorIs(t, err, ErrCouponLimitReached)

		// a different user is unaffected
		_, err = couponService.Validate("ONCE", 43)
		require.NoError(t, err)
	})
}

func TestCouponService_Validate_GlobalLimit(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	limit := 2
	coupon, err := couponService.Create(CouponInput{
		Code: "CAPPED", Type: model.CouponFixed, Value: 500, Active: true, UsageLimit: &limit,
	})
	require.NoError(t, err)

	require.NoError(t, couponService.Redeem(coupon.ID, 1))
	require.NoError(t, couponService.Redeem(coupon.ID, 2))

	_, err = couponService.Validate("CAPPED", 3)
	assert.ErrorIs(t, err, ErrCouponLimitReached)
}

func TestCouponService_DeactivateExpired(t *testing.T) {
	couponService := setupCouponServiceTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := couponService.Create(CouponInput{Code: "DEAD", Type: model.CouponPercent, Value: 10, Active: true, EndsAt: &past})
	require.NoError(t, err)
	_, err = couponService.Create(CouponInput{Code: "ALIVE", Type: model.CouponPercent, Value: 10, Active: true, EndsAt: &future})
	require.NoError(t, err)

	count, err := couponService.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	coupon, err := couponService.GetByCode("DEAD")
	require.NoError(t, err)
	assert.False(t, coupon.Active)

	coupon, err = couponService.GetByCode("ALIVE")
	require.NoError(t, err)
	assert.True(t, coupon.Active)
}

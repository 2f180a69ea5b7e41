package service

import (
	"errors"
	"strings"
	"time"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is inactive")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponNotStarted    = errors.New("coupon is not yet valid")
	ErrCouponLimitReached  = errors.New("coupon usage limit reached")
	ErrCouponInvalidValue  = errors.New("coupon value is out of range")
	ErrCouponCodeTaken     = errors.New("coupon code already exists")
	ErrCouponNotApplicable = errors.New("coupon does not apply to any cart item")
)

// PricedItem is one cart line as seen by the discount calculator.
type PricedItem struct {
	ProductID uint
	Category  string
	UnitPrice int64 // minor units
	Quantity  int
}

// CouponInput carries coupon create/update fields.
type CouponInput struct {
	Code         string
	Type         model.CouponType
	Value        int64
	Active       bool
	UsageLimit   *int
	PerUserLimit *int
	ProductIDs   []uint
	Categories   []string
	StartsAt     *time.Time
	EndsAt       *time.Time
}

type CouponService interface {
	Create(input CouponInput) (*model.Coupon, error)
	Update(id uint, input CouponInput) (*model.Coupon, error)
	Delete(id uint) error
	GetByCode(code string) (*model.Coupon, error)
	List(activeOnly bool, offset, limit int) ([]model.Coupon, int64, error)
	Validate(code string, userID uint) (*model.Coupon, error)
	ComputeDiscount(coupon *model.Coupon, items []PricedItem) int64
	Redeem(couponID, userID uint) error
	DeactivateExpired() (int64, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{couponRepo: couponRepo}
}

func validateCouponInput(input CouponInput) error {
	if input.Code == "" {
		return ErrCouponInvalidValue
	}
	if input.Value < 0 {
		return ErrCouponInvalidValue
	}
	// a percent discount above 100 would make totals negative
	if input.Type == model.CouponPercent && input.Value > 100 {
		return ErrCouponInvalidValue
	}
	if input.Type != model.CouponPercent && input.Type != model.CouponFixed {
		return ErrCouponInvalidValue
	}
	return nil
}

func (s *couponService) Create(input CouponInput) (*model.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		logger.Warn("Coupon creation rejected", map[string]interface{}{
			"code":  input.Code,
			"type":  input.Type,
			"value": input.Value,
		})
		return nil, err
	}

	if _, err := s.couponRepo.FindByCode(input.Code); err == nil {
		return nil, ErrCouponCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	coupon := &model.Coupon{
		Code:         strings.ToUpper(input.Code),
		Type:         input.Type,
		Value:        input.Value,
		Active:       input.Active,
		UsageLimit:   input.UsageLimit,
		PerUserLimit: input.PerUserLimit,
		ProductIDs:   model.UintArray(input.ProductIDs),
		Categories:   model.StringArray(input.Categories),
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}

	logger.Info("Coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
	})
	return coupon, nil
}

func (s *couponService) Update(id uint, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if input.Code == "" {
		input.Code = coupon.Code
	}
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}

	coupon.Code = strings.ToUpper(input.Code)
	coupon.Type = input.Type
	coupon.Value = input.Value
	coupon.Active = input.Active
	coupon.UsageLimit = input.UsageLimit
	coupon.PerUserLimit = input.PerUserLimit
	coupon.ProductIDs = model.UintArray(input.ProductIDs)
	coupon.Categories = model.StringArray(input.Categories)
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Delete(id uint) error {
	if _, err := s.couponRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.couponRepo.Delete(id)
}

func (s *couponService) GetByCode(code string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) List(activeOnly bool, offset, limit int) ([]model.Coupon, int64, error) {
	return s.couponRepo.List(activeOnly, offset, limit)
}

// Validate checks everything except cart eligibility: existence,
// active flag, validity window, and both usage limits.
func (s *couponService) Validate(code string, userID uint) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if !coupon.Active {
		return nil, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, ErrCouponNotStarted
	}
	if coupon.Expired(now) {
		return nil, ErrCouponExpired
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, ErrCouponLimitReached
	}

	if coupon.PerUserLimit != nil {
		usage, err := s.couponRepo.GetUsage(coupon.ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if usage != nil && usage.Count >= *coupon.PerUserLimit {
			return nil, ErrCouponLimitReached
		}
	}

	return coupon, nil
}

// eligible reports whether an item falls under the coupon's
// allow-lists. Empty lists make every item eligible.
func eligible(coupon *model.Coupon, item PricedItem) bool {
	if len(coupon.ProductIDs) == 0 && len(coupon.Categories) == 0 {
		return true
	}
	if coupon.ProductIDs.Contains(item.ProductID) {
		return true
	}
	return coupon.Categories.Contains(item.Category)
}

// ComputeDiscount returns the discount in minor units. Percent coupons
// take their share of the eligible subtotal, rounded to the nearest
// unit; fixed coupons are capped at the eligible subtotal so the total
// never goes negative.
func (s *couponService) ComputeDiscount(coupon *model.Coupon, items []PricedItem) int64 {
	var eligibleSubtotal int64
	for _, item := range items {
		if eligible(coupon, item) {
			eligibleSubtotal += item.UnitPrice * int64(item.Quantity)
		}
	}
	if eligibleSubtotal <= 0 {
		return 0
	}

	switch coupon.Type {
	case model.CouponPercent:
		return (eligibleSubtotal*coupon.Value + 50) / 100
	case model.CouponFixed:
		if coupon.Value > eligibleSubtotal {
			return eligibleSubtotal
		}
		return coupon.Value
	}
	return 0
}

func (s *couponService) Redeem(couponID, userID uint) error {
	return s.couponRepo.RecordUsage(couponID, userID)
}

// DeactivateExpired is called by the scheduler to switch off coupons
// whose window has closed.
func (s *couponService) DeactivateExpired() (int64, error) {
	count, err := s.couponRepo.DeactivateExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Deactivated expired coupons", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

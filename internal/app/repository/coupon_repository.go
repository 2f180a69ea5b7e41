package repository

import (
	"strings"
	"time"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	FindByID(id uint) (*model.Coupon, error)
	FindByCode(code string) (*model.Coupon, error)
	List(activeOnly bool, offset, limit int) ([]model.Coupon, int64, error)
	Update(coupon *model.Coupon) error
	Delete(id uint) error
	GetUsage(couponID, userID uint) (*model.CouponUsage, error)
	RecordUsage(couponID, userID uint) error
	DeactivateExpired(now time.Time) (int64, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	logger.Debug("Creating coupon in database", map[string]interface{}{
		"code": coupon.Code,
		"type": coupon.Type,
	})

	if err := r.db.Create(coupon).Error; err != nil {
		logger.Error("Failed to create coupon in database", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}
	return nil
}

func (r *couponRepository) FindByID(id uint) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find coupon by ID in database", err, map[string]interface{}{
				"coupon_id": id,
			})
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find coupon by code in database", err, map[string]interface{}{
				"code": code,
			})
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) List(activeOnly bool, offset, limit int) ([]model.Coupon, int64, error) {
	query := r.db.Model(&model.Coupon{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var coupons []model.Coupon
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error
	if err != nil {
		logger.Error("Failed to list coupons in database", err)
		return nil, 0, err
	}
	return coupons, total, nil
}

func (r *couponRepository) Update(coupon *model.Coupon) error {
	if err := r.db.Save(coupon).Error; err != nil {
		logger.Error("Failed to update coupon in database", err, map[string]interface{}{
			"coupon_id": coupon.ID,
		})
		return err
	}
	return nil
}

func (r *couponRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Coupon{}, id).Error; err != nil {
		logger.Error("Failed to delete coupon in database", err, map[string]interface{}{
			"coupon_id": id,
		})
		return err
	}
	return nil
}

func (r *couponRepository) GetUsage(couponID, userID uint) (*model.CouponUsage, error) {
	var usage model.CouponUsage
	err := r.db.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&usage).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find coupon usage in database", err, map[string]interface{}{
				"coupon_id": couponID,
				"user_id":   userID,
			})
		}
		return nil, err
	}
	return &usage, nil
}

// RecordUsage increments the global used count and the per-user usage
// row in one transaction.
func (r *couponRepository) RecordUsage(couponID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Coupon{}).
			Where("id = ?", couponID).
			Update("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var usage model.CouponUsage
		err := tx.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&usage).Error
		switch {
		case err == nil:
			return tx.Model(&usage).Update("count", gorm.Expr("count + 1")).Error
		case err == gorm.ErrRecordNotFound:
			return tx.Create(&model.CouponUsage{CouponID: couponID, UserID: userID, Count: 1}).Error
		default:
			return err
		}
	})
}

// DeactivateExpired turns off active coupons whose validity window has
// closed. Returns the number of coupons deactivated.
func (r *couponRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Coupon{}).
		Where("active = ? AND ends_at IS NOT NULL AND ends_at < ?", true, now).
		Update("active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired coupons in database", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/almira/almira-backend/internal/app/service"
	"github.com/almira/almira-backend/pkg/logger"
)

// CouponScheduler deactivates expired coupons on a schedule so the
// stored active flag tracks the validity window.
type CouponScheduler struct {
	cron          *cron.Cron
	couponService service.CouponService
}

func NewCouponScheduler(couponService service.CouponService) *CouponScheduler {
	return &CouponScheduler{
		cron:          cron.New(),
		couponService: couponService,
	}
}

// Start registers the hourly sweep and starts the cron loop.
func (s *CouponScheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		count, err := s.couponService.DeactivateExpired()
		if err != nil {
			logger.Error("Failed to deactivate expired coupons", err)
			return
		}
		if count > 0 {
			logger.Info("Deactivated expired coupons", map[string]interface{}{
				"count": count,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to register coupon expiry job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Coupon scheduler started")
	return nil
}

// Stop halts the cron loop.
func (s *CouponScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Coupon scheduler stopped")
}

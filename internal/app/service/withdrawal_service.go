package service

import (
	"errors"
	"fmt"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWithdrawalNotFound      = errors.New("withdrawal not found")
	ErrWithdrawalInvalidAmount = errors.New("withdrawal amount must be positive")
	ErrWithdrawalNotPending    = errors.New("withdrawal has already been reviewed")
	ErrInsufficientBalance     = repository.ErrInsufficientBalance
)

type WithdrawalService interface {
	Request(userID uint, amount int64) (*model.Withdrawal, error)
	ListForSeller(userID uint) ([]model.Withdrawal, error)
	List(status model.WithdrawalStatus, offset, limit int) ([]model.Withdrawal, int64, error)
	Review(id uint, status model.WithdrawalStatus, note string) (*model.Withdrawal, error)
}

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	sellerRepo     repository.SellerRepository
	notifier       NotificationService
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	sellerRepo repository.SellerRepository,
	notifier NotificationService,
) WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		sellerRepo:     sellerRepo,
		notifier:       notifier,
	}
}

// Request creates a withdrawal for the seller behind the credential.
// The balance check and deduction are atomic, so concurrent requests
// cannot overdraw.
func (s *withdrawalService) Request(userID uint, amount int64) (*model.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrWithdrawalInvalidAmount
	}

	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerProfileMissing
		}
		return nil, err
	}
	if !seller.Approved() {
		return nil, ErrSellerNotApproved
	}

	withdrawal, err := s.withdrawalRepo.Request(seller.ID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			logger.Warn("Withdrawal rejected: insufficient balance", map[string]interface{}{
				"seller_id": seller.ID,
				"amount":    amount,
			})
		}
		return nil, err
	}

	logger.Info("Withdrawal requested", map[string]interface{}{
		"withdrawal_id": withdrawal.ID,
		"seller_id":     seller.ID,
		"amount":        amount,
	})
	return withdrawal, nil
}

func (s *withdrawalService) ListForSeller(userID uint) ([]model.Withdrawal, error) {
	seller, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerProfileMissing
		}
		return nil, err
	}
	return s.withdrawalRepo.FindBySeller(seller.ID)
}

func (s *withdrawalService) List(status model.WithdrawalStatus, offset, limit int) ([]model.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(status, offset, limit)
}

// Review approves or rejects a pending withdrawal. Rejection refunds
// the seller balance inside the repository transaction.
func (s *withdrawalService) Review(id uint, status model.WithdrawalStatus, note string) (*model.Withdrawal, error) {
	if status != model.WithdrawalApproved && status != model.WithdrawalRejected {
		return nil, ErrWithdrawalNotPending
	}

	withdrawal, err := s.withdrawalRepo.Review(id, status, note)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrWithdrawalNotFound
		case errors.Is(err, gorm.ErrInvalidData):
			return nil, ErrWithdrawalNotPending
		}
		return nil, err
	}

	if s.notifier != nil {
		seller, err := s.sellerRepo.FindByID(withdrawal.SellerID)
		if err == nil {
			body := fmt.Sprintf("Your withdrawal request of %d was %s.", withdrawal.Amount, status)
			if note != "" {
				body = fmt.Sprintf("%s Note: %s", body, note)
			}
			if err := s.notifier.Notify(seller.UserID, model.NotificationWithdrawal, "Withdrawal update", body, "/seller/withdrawals"); err != nil {
				logger.Warn("Failed to notify withdrawal review", map[string]interface{}{
					"withdrawal_id": id,
					"error":         err.Error(),
				})
			}
		}
	}

	logger.Info("Withdrawal reviewed", map[string]interface{}{
		"withdrawal_id": id,
		"status":        status,
	})
	return withdrawal, nil
}

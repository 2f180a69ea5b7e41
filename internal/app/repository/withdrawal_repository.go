package repository

import (
	"errors"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a withdrawal request exceeds
// the seller's current balance.
var ErrInsufficientBalance = errors.New("insufficient seller balance")

type WithdrawalRepository interface {
	Request(sellerID uint, amount int64) (*model.Withdrawal, error)
	FindByID(id uint) (*model.Withdrawal, error)
	FindBySeller(sellerID uint) ([]model.Withdrawal, error)
	List(status model.WithdrawalStatus, offset, limit int) ([]model.Withdrawal, int64, error)
	Review(id uint, status model.WithdrawalStatus, note string) (*model.Withdrawal, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

// Request deducts the amount from the seller balance and creates the
// withdrawal row in one transaction. The conditional update makes the
// balance check atomic: a concurrent request cannot overdraw.
func (r *withdrawalRepository) Request(sellerID uint, amount int64) (*model.Withdrawal, error) {
	var withdrawal *model.Withdrawal

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Seller{}).
			Where("id = ? AND balance >= ?", sellerID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		withdrawal = &model.Withdrawal{
			SellerID: sellerID,
			Amount:   amount,
			Status:   model.WithdrawalPending,
		}
		return tx.Create(withdrawal).Error
	})
	if err != nil {
		if err != ErrInsufficientBalance {
			logger.Error("Failed to create withdrawal in database", err, map[string]interface{}{
				"seller_id": sellerID,
				"amount":    amount,
			})
		}
		return nil, err
	}

	logger.Debug("Withdrawal created in database", map[string]interface{}{
		"withdrawal_id": withdrawal.ID,
		"seller_id":     sellerID,
		"amount":        amount,
	})
	return withdrawal, nil
}

func (r *withdrawalRepository) FindByID(id uint) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	if err := r.db.First(&withdrawal, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find withdrawal by ID in database", err, map[string]interface{}{
				"withdrawal_id": id,
			})
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *withdrawalRepository) FindBySeller(sellerID uint) ([]model.Withdrawal, error) {
	var withdrawals []model.Withdrawal
	err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&withdrawals).Error
	if err != nil {
		logger.Error("Failed to list seller withdrawals in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}
	return withdrawals, nil
}

func (r *withdrawalRepository) List(status model.WithdrawalStatus, offset, limit int) ([]model.Withdrawal, int64, error) {
	query := r.db.Model(&model.Withdrawal{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var withdrawals []model.Withdrawal
	err := query.Preload("Seller").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&withdrawals).Error
	if err != nil {
		logger.Error("Failed to list withdrawals in database", err)
		return nil, 0, err
	}
	return withdrawals, total, nil
}

// Review moves a pending withdrawal to approved or rejected. Rejection
// restores the deducted amount to the seller balance in the same
// transaction.
func (r *withdrawalRepository) Review(id uint, status model.WithdrawalStatus, note string) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&withdrawal, id).Error; err != nil {
			return err
		}
		if withdrawal.Status != model.WithdrawalPending {
			return gorm.ErrInvalidData
		}

		withdrawal.Status = status
		withdrawal.Note = note
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		if status == model.WithdrawalRejected {
			return tx.Model(&model.Seller{}).
				Where("id = ?", withdrawal.SellerID).
				Update("balance", gorm.Expr("balance + ?", withdrawal.Amount)).Error
		}
		return nil
	})
	if err != nil {
		if err != gorm.ErrRecordNotFound && err != gorm.ErrInvalidData {
			logger.Error("Failed to review withdrawal in database", err, map[string]interface{}{
				"withdrawal_id": id,
				"status":        status,
			})
		}
		return nil, err
	}
	return &withdrawal, nil
}

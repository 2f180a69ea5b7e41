package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

type SellerRepository interface {
	Create(seller *model.Seller) error
	FindByID(id uint) (*model.Seller, error)
	FindByUserID(userID uint) (*model.Seller, error)
	FindByUsername(username string) (*model.Seller, error)
	List(status model.ApprovalStatus, offset, limit int) ([]model.Seller, int64, error)
	Update(seller *model.Seller) error
	AddBalance(sellerID uint, amount int64) error
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(seller *model.Seller) error {
	logger.Debug("Creating seller profile in database", map[string]interface{}{
		"user_id":  seller.UserID,
		"username": seller.Username,
	})

	if err := r.db.Create(seller).Error; err != nil {
		logger.Error("Failed to create seller profile in database", err, map[string]interface{}{
			"user_id":  seller.UserID,
			"username": seller.Username,
		})
		return err
	}

	logger.Debug("Seller profile created in database", map[string]interface{}{
		"seller_id": seller.ID,
		"username":  seller.Username,
	})
	return nil
}

func (r *sellerRepository) FindByID(id uint) (*model.Seller, error) {
	var seller model.Seller
	if err := r.db.First(&seller, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find seller by ID in database", err, map[string]interface{}{
				"seller_id": id,
			})
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) FindByUserID(userID uint) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.Where("user_id = ?", userID).First(&seller).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find seller by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) FindByUsername(username string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.Where("username = ?", username).First(&seller).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find seller by username in database", err, map[string]interface{}{
				"username": username,
			})
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) List(status model.ApprovalStatus, offset, limit int) ([]model.Seller, int64, error) {
	query := r.db.Model(&model.Seller{})
	if status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sellers []model.Seller
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sellers).Error
	if err != nil {
		logger.Error("Failed to list sellers in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, 0, err
	}
	return sellers, total, nil
}

func (r *sellerRepository) Update(seller *model.Seller) error {
	if err := r.db.Save(seller).Error; err != nil {
		logger.Error("Failed to update seller in database", err, map[string]interface{}{
			"seller_id": seller.ID,
		})
		return err
	}
	return nil
}

// AddBalance credits (or with a negative amount debits) a seller's
// balance with a single atomic update.
func (r *sellerRepository) AddBalance(sellerID uint, amount int64) error {
	result := r.db.Model(&model.Seller{}).
		Where("id = ?", sellerID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		logger.Error("Failed to adjust seller balance in database", result.Error, map[string]interface{}{
			"seller_id": sellerID,
			"amount":    amount,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

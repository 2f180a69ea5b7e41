package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status model.OrderStatus
	UserID *uint
	Offset int
	Limit  int
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByNumber(orderNumber string) (*model.Order, error)
	FindByUser(userID uint, offset, limit int) ([]model.Order, int64, error)
	FindBySeller(sellerID uint, offset, limit int) ([]model.Order, int64, error)
	List(filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its items in one transaction.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"user_id":      order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by number in database", err, map[string]interface{}{
				"order_number": orderNumber,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUser(userID uint, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var orders []model.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list user orders in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return orders, total, nil
}

// FindBySeller returns orders containing at least one item sold by the
// seller. Items from other sellers stay in the result; the service
// layer narrows the item list.
func (r *orderRepository) FindBySeller(sellerID uint, offset, limit int) ([]model.Order, int64, error) {
	sub := r.db.Model(&model.OrderItem{}).
		Select("DISTINCT order_id").
		Where("seller_id = ?", sellerID)

	query := r.db.Model(&model.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var orders []model.Order
	err := r.db.Preload("Items").
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list seller orders in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) List(filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var orders []model.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders in database", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

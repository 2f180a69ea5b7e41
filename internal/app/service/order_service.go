package service

import (
	"errors"
	"fmt"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrOrderNotOwned = errors.New("order belongs to another user")

type OrderService interface {
	GetByID(orderID, userID uint) (*model.Order, error)
	ListByUser(userID uint, offset, limit int) ([]model.Order, int64, error)
	ListBySeller(sellerID uint, offset, limit int) ([]model.Order, int64, error)
	List(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	ExportExcel(filter repository.OrderFilter) ([]byte, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  NotificationService
}

func NewOrderService(orderRepo repository.OrderRepository, notifier NotificationService) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// GetByID loads an order for its owner. A zero userID skips the
// ownership check for admin access.
func (s *orderService) GetByID(orderID, userID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if userID != 0 && order.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

func (s *orderService) ListByUser(userID uint, offset, limit int) ([]model.Order, int64, error) {
	return s.orderRepo.FindByUser(userID, offset, limit)
}

// ListBySeller returns the seller's orders with the item list narrowed
// to that seller's own lines.
func (s *orderService) ListBySeller(sellerID uint, offset, limit int) ([]model.Order, int64, error) {
	orders, total, err := s.orderRepo.FindBySeller(sellerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		own := make([]model.OrderItem, 0, len(orders[i].Items))
		for _, item := range orders[i].Items {
			if item.SellerID != nil && *item.SellerID == sellerID {
				own = append(own, item)
			}
		}
		orders[i].Items = own
	}
	return orders, total, nil
}

func (s *orderService) List(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	if s.notifier != nil {
		body := fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, status)
		if err := s.notifier.Notify(order.UserID, model.NotificationOrder, "Order update", body, "/orders"); err != nil {
			logger.Warn("Failed to notify order status change", map[string]interface{}{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}

// ExportExcel renders the filtered orders as a spreadsheet for the
// back-office. Amounts stay in minor units.
func (s *orderService) ExportExcel(filter repository.OrderFilter) ([]byte, error) {
	filter.Limit = 10000
	orders, _, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order Number", "User ID", "Status", "Subtotal", "Discount", "Coupon", "Total", "Free Delivery", "Items", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		coupon := ""
		if order.CouponCode != nil {
			coupon = *order.CouponCode
		}
		values := []interface{}{
			order.OrderNumber,
			order.UserID,
			string(order.Status),
			order.Subtotal,
			order.Discount,
			coupon,
			order.Total,
			order.FreeDelivery,
			len(order.Items),
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render orders spreadsheet", err)
		return nil, err
	}

	logger.Info("Orders exported", map[string]interface{}{
		"count": len(orders),
	})
	return buf.Bytes(), nil
}

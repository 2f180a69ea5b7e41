package service

import (
	"errors"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// CartSummary is the cart with its running totals.
type CartSummary struct {
	Items         []model.CartItem `json:"items"`
	Subtotal      int64            `json:"subtotal"`
	TotalQuantity int              `json:"total_quantity"`
}

type CartService interface {
	Get(userID uint) (*CartSummary, error)
	AddItem(userID, productID uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, productID uint, quantity int) error
	RemoveItem(userID, productID uint) error
	Clear(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) Get(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: items}
	for _, item := range items {
		summary.Subtotal += item.Product.Price * int64(item.Quantity)
		summary.TotalQuantity += item.Quantity
	}
	return summary, nil
}

func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}
	if product.Stock < quantity {
		return nil, ErrProductOutOfStock
	}

	return s.cartRepo.AddItem(userID, productID, quantity)
}

func (s *cartService) UpdateQuantity(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	err := s.cartRepo.UpdateQuantity(userID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *cartService) RemoveItem(userID, productID uint) error {
	return s.cartRepo.RemoveItem(userID, productID)
}

func (s *cartService) Clear(userID uint) error {
	return s.cartRepo.Clear(userID)
}

package service

import (
	"errors"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotOwned   = errors.New("product belongs to another seller")
	ErrProductInvalid    = errors.New("invalid product fields")
	ErrProductOutOfStock = errors.New("product is out of stock")
)

// ProductInput carries product create/update fields.
type ProductInput struct {
	NameAr        string
	NameEn        string
	DescriptionAr string
	DescriptionEn string
	Category      string
	Price         int64
	ImageURLs     []string
	Stock         int
	Active        bool
}

type ProductService interface {
	Create(sellerID *uint, input ProductInput) (*model.Product, error)
	Update(id uint, sellerID *uint, input ProductInput) (*model.Product, error)
	Delete(id uint, sellerID *uint) error
	GetByID(id uint) (*model.Product, error)
	List(filter repository.ProductFilter) ([]model.Product, int64, error)
	SetStock(id uint, stock int) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create adds a listing. A nil sellerID creates a house product, only
// reachable through the admin surface.
func (s *productService) Create(sellerID *uint, input ProductInput) (*model.Product, error) {
	if input.NameAr == "" && input.NameEn == "" {
		return nil, ErrProductInvalid
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, ErrProductInvalid
	}

	product := &model.Product{
		SellerID:      sellerID,
		NameAr:        input.NameAr,
		NameEn:        input.NameEn,
		DescriptionAr: input.DescriptionAr,
		DescriptionEn: input.DescriptionEn,
		Category:      input.Category,
		Price:         input.Price,
		ImageURLs:     model.StringArray(input.ImageURLs),
		Stock:         input.Stock,
		Active:        input.Active,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"seller_id":  sellerID,
	})
	return product, nil
}

// Update edits a listing. A non-nil sellerID restricts the edit to
// that seller's own products; admins pass nil and may edit anything.
func (s *productService) Update(id uint, sellerID *uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if sellerID != nil && (product.SellerID == nil || *product.SellerID != *sellerID) {
		return nil, ErrProductNotOwned
	}
	if input.Price < 0 || input.Stock < 0 {
		return nil, ErrProductInvalid
	}

	if input.NameAr != "" {
		product.NameAr = input.NameAr
	}
	if input.NameEn != "" {
		product.NameEn = input.NameEn
	}
	product.DescriptionAr = input.DescriptionAr
	product.DescriptionEn = input.DescriptionEn
	if input.Category != "" {
		product.Category = input.Category
	}
	product.Price = input.Price
	if input.ImageURLs != nil {
		product.ImageURLs = model.StringArray(input.ImageURLs)
	}
	product.Stock = input.Stock
	product.Active = input.Active

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(id uint, sellerID *uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if sellerID != nil && (product.SellerID == nil || *product.SellerID != *sellerID) {
		return ErrProductNotOwned
	}

	return s.productRepo.Delete(id)
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.List(filter)
}

// SetStock replaces a listing's stock level without touching anything
// else.
func (s *productService) SetStock(id uint, stock int) (*model.Product, error) {
	if stock < 0 {
		return nil, ErrProductInvalid
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Stock = stock
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product stock set", map[string]interface{}{
		"product_id": id,
		"stock":      stock,
	})
	return product, nil
}

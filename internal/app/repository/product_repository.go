package repository

import (
	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category   string
	SellerID   *uint
	ActiveOnly bool
	Search     string // matches either locale's name
	Offset     int
	Limit      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	List(filter ProductFilter) ([]model.Product, int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	DecrementStock(productID uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name_en":   product.NameEn,
		"seller_id": product.SellerID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name_en": product.NameEn,
		})
		return err
	}
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) List(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name_ar LIKE ? OR name_en LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var products []model.Product
	err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products in database", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// DecrementStock reduces stock atomically and fails when the remaining
// stock is insufficient.
func (r *productRepository) DecrementStock(productID uint, quantity int) error {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock in database", result.Error, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

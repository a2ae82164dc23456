package repositories

import (
	"errors"
	"fmt"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their reviews.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Reviews").Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, "failed to get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Reviews").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Product not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to get product %s", id), err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "failed to create product", err)
	}
	return nil
}

// Update updates an existing product, including its review collection.
func (r *GORMProductRepository) Update(product *models.Product) error {
	for i := range product.Reviews {
		if product.Reviews[i].ID == "" {
			product.Reviews[i].ID = uuid.New().String()
		}
		product.Reviews[i].ProductID = product.ID
	}
	res := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(product)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to update product %s", product.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Product not found")
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to delete product %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Product not found")
	}
	return nil
}

// Count returns the number of products, used to decide whether to seed.
func (r *GORMProductRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrPersistence, "failed to count products", err)
	}
	return n, nil
}

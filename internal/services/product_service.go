package services

import (
	"log"
	"time"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"
	"dairydrop/internal/notifier"
	"dairydrop/internal/repositories"

	"github.com/google/uuid"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo     repositories.ProductRepository
	notifier Notifier
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, n Notifier) *ProductService {
	return &ProductService{
		repo:     repo,
		notifier: n,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product (admin stock/price edits) and
// tells connected clients to re-fetch the catalog.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.broadcastCatalogChange()
	return nil
}

// AddReview appends a customer review to a product, recomputes the
// aggregate rating and announces the catalog change. A user may review a
// product only once.
func (s *ProductService) AddReview(productID string, user *models.User, rating int, comment string) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product.ReviewedBy(user.ID) {
		return nil, apperrors.New(apperrors.ErrValidation, "Product already reviewed")
	}

	product.Reviews = append(product.Reviews, models.Review{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	})
	product.RecalculateRating()

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.broadcastCatalogChange()
	return product, nil
}

// broadcastCatalogChange publishes productsUpdated best-effort; the event
// carries no payload, subscribers re-fetch the catalog.
func (s *ProductService) broadcastCatalogChange() {
	var err error
	if s.notifier == nil {
		err = apperrors.New(apperrors.ErrNotInitialized, "notifier not initialized")
	} else {
		err = s.notifier.Publish(notifier.EventProductsUpdated, nil)
	}
	if err != nil {
		log.Printf("productsUpdated broadcast failed: %v", err)
	}
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.broadcastCatalogChange()
	return nil
}

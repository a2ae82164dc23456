package repositories

import (
	"errors"
	"fmt"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their line items, in creation order.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("OrderItems").Order("created_at").Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, "failed to get all orders", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("OrderItems").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Order not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to get order %s", id), err)
	}
	return &order, nil
}

// GetByUserID retrieves all orders owned by the given user.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("OrderItems").Where("user_id = ?", userID).Order("created_at").Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to get orders for user %s", userID), err)
	}
	return orders, nil
}

// Create inserts a new order with its line items in a single call.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.OrderItems {
		if order.OrderItems[i].ID == "" {
			order.OrderItems[i].ID = uuid.New().String()
		}
		order.OrderItems[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, "failed to create order", err)
	}
	return nil
}

// Update persists changes to an existing order's mutable fields.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit("OrderItems").Save(order)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to update order %s", order.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Order not found")
	}
	return nil
}

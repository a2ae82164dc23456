package services

import (
	"log"
	"time"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"
	"dairydrop/internal/notifier"
	"dairydrop/internal/pricing"
	"dairydrop/internal/repositories"

	"github.com/google/uuid"
)

// Notifier is the broadcast capability injected into services. The
// in-process hub implements it; tests substitute a mock.
type Notifier interface {
	Publish(event string, payload any) error
}

// OrderBridge is an optional secondary tap for order events, feeding
// back-office consumers through a message queue.
type OrderBridge interface {
	PublishNewOrder(order *models.Order) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	notifier  Notifier
	bridge    OrderBridge
}

// NewOrderService creates a new OrderService. The bridge may be nil when no
// message queue is configured.
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, n Notifier, bridge OrderBridge) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  n,
		bridge:    bridge,
	}
}

// PlaceOrderInput is the checkout payload: the cart snapshot plus shipping
// and payment data, and the client-derived price breakdown.
type PlaceOrderInput struct {
	OrderItems      []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	PriceBreakdown  models.PriceBreakdown
}

// PlaceOrder validates and persists an order built from a cart snapshot.
// The client-supplied breakdown is stored as sent; a zero breakdown is
// derived from the snapshot instead. Order persistence is the authoritative
// success signal; the newOrder broadcast afterwards is best-effort.
func (s *OrderService) PlaceOrder(userID string, in PlaceOrderInput) (*models.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, apperrors.New(apperrors.ErrValidation, "No order items")
	}

	items := make([]models.OrderItem, len(in.OrderItems))
	for i, it := range in.OrderItems {
		it.ID = uuid.New().String()
		items[i] = it
	}

	breakdown := in.PriceBreakdown
	if breakdown.TotalPrice == 0 {
		breakdown = pricing.Compute(items)
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		OrderItems:      items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   method,
		PriceBreakdown:  breakdown,
		Status:          models.OrderStatusProcessing,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.notifyNewOrder(order)
	return order, nil
}

// notifyNewOrder announces the created order on every configured channel.
// Failures are logged and swallowed: notifications are invalidation hints,
// not part of the order's success path.
func (s *OrderService) notifyNewOrder(order *models.Order) {
	var err error
	if s.notifier == nil {
		err = apperrors.New(apperrors.ErrNotInitialized, "notifier not initialized")
	} else {
		err = s.notifier.Publish(notifier.EventNewOrder, order)
	}
	if err != nil {
		log.Printf("newOrder broadcast failed for order %s: %v", order.ID, err)
	}

	if s.bridge != nil {
		if err := s.bridge.PublishNewOrder(order); err != nil {
			log.Printf("newOrder queue publish failed for order %s: %v", order.ID, err)
		}
	}
}

// GetOrderByID retrieves an order with its owning user's name and email
// joined in.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u, err := s.userRepo.GetByID(order.UserID); err == nil {
		order.User = &models.OrderUser{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return order, nil
}

// ListOrdersForUser returns all orders owned by the given user.
func (s *OrderService) ListOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// ListAllOrders returns every order with minimal owner identity joined in.
func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if u, err := s.userRepo.GetByID(orders[i].UserID); err == nil {
			orders[i].User = &models.OrderUser{ID: u.ID, Name: u.Name}
		}
	}
	return orders, nil
}

// UpdateOrderStatus sets the order's status. "Delivered" also marks the
// order delivered and, because COD is paid on delivery, paid. There is no
// transition back from Delivered.
func (s *OrderService) UpdateOrderStatus(id string, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if status != "" {
		order.Status = status
	}
	if status == models.OrderStatusDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
		order.IsPaid = true
		order.PaidAt = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

package services_test

import (
	"errors"
	"fmt"
	"testing"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"
	"dairydrop/internal/notifier"
	"dairydrop/internal/repositories"
	"dairydrop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

// MockNotifier is a mock implementation of services.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func placeOrderInput() services.PlaceOrderInput {
	return services.PlaceOrderInput{
		OrderItems: []models.OrderItem{
			{ProductID: "prod-milk", Name: "Fresh Whole Milk", Price: 65, Qty: 2},
		},
		ShippingAddress: models.ShippingAddress{
			Address: "12 Dairy Lane", City: "Pune", PostalCode: "411001", Country: "India",
		},
		PaymentMethod: models.PaymentMethodCOD,
		PriceBreakdown: models.PriceBreakdown{
			ItemsPrice: 130, ShippingPrice: 0, TaxPrice: 19.50, TotalPrice: 149.50,
		},
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, mockUsers, mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockNotifier.On("Publish", notifier.EventNewOrder, mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := orderService.PlaceOrder("user-1", placeOrderInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, 149.50, order.TotalPrice)

	mockOrders.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, mockUsers, mockNotifier, nil)

	_, err := orderService.PlaceOrder("user-1", services.PlaceOrderInput{})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "No order items", err.Error())
	// Neither persistence nor notification may happen for an empty cart.
	mockOrders.AssertNotCalled(t, "Create", mock.Anything)
	mockNotifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_StoresClientBreakdownVerbatim(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	in := placeOrderInput()
	in.PriceBreakdown = models.PriceBreakdown{ItemsPrice: 1, ShippingPrice: 2, TaxPrice: 3, TotalPrice: 6}

	order, err := orderService.PlaceOrder("user-1", in)
	assert.NoError(t, err)
	assert.Equal(t, in.PriceBreakdown, order.PriceBreakdown)
}

func TestOrderService_PlaceOrder_DerivesZeroBreakdown(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	in := placeOrderInput()
	in.PriceBreakdown = models.PriceBreakdown{}

	order, err := orderService.PlaceOrder("user-1", in)
	assert.NoError(t, err)
	assert.Equal(t, 130.00, order.ItemsPrice)
	assert.Equal(t, 0.00, order.ShippingPrice)
	assert.Equal(t, 19.50, order.TaxPrice)
	assert.Equal(t, 149.50, order.TotalPrice)
}

func TestOrderService_PlaceOrder_SnapshotIsDeepCopy(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	in := placeOrderInput()
	order, err := orderService.PlaceOrder("user-1", in)
	assert.NoError(t, err)

	// Mutating the caller's slice after placement must not affect the order.
	in.OrderItems[0].Qty = 99
	assert.Equal(t, 2, order.OrderItems[0].Qty)
}

func TestOrderService_PlaceOrder_NotifyFailureIsNonFatal(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockNotifier.On("Publish", mock.Anything, mock.Anything).Return(fmt.Errorf("transport down")).Once()

	order, err := orderService.PlaceOrder("user-1", placeOrderInput())
	assert.NoError(t, err, "order persistence is the authoritative success signal")
	assert.NotNil(t, order)
	mockNotifier.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_NilNotifierIsNonFatal(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), nil, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := orderService.PlaceOrder("user-1", placeOrderInput())
	assert.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_PlaceOrder_PersistenceFailure(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), mockNotifier, nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).
		Return(apperrors.Wrap(apperrors.ErrPersistence, "failed to create order", fmt.Errorf("disk full"))).Once()

	_, err := orderService.PlaceOrder("user-1", placeOrderInput())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
	mockNotifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockUsers := new(MockUserRepository)
	orderService := services.NewOrderService(mockOrders, mockUsers, new(MockNotifier), nil)

	stored := &models.Order{ID: "order-1", UserID: "user-1"}
	owner := &models.User{ID: "user-1", Name: "Test Shopper", Email: "test@example.com"}

	mockOrders.On("GetByID", "order-1").Return(stored, nil).Once()
	mockUsers.On("GetByID", "user-1").Return(owner, nil).Once()

	order, err := orderService.GetOrderByID("order-1")
	assert.NoError(t, err)
	assert.NotNil(t, order.User)
	assert.Equal(t, "Test Shopper", order.User.Name)
	assert.Equal(t, "test@example.com", order.User.Email)

	// Missing order
	mockOrders.On("GetByID", "missing").Return(nil, apperrors.New(apperrors.ErrNotFound, "Order not found")).Once()
	_, err = orderService.GetOrderByID("missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockOrders.AssertExpectations(t)
}

func TestOrderService_ListAllOrders_JoinsMinimalIdentity(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockUsers := new(MockUserRepository)
	orderService := services.NewOrderService(mockOrders, mockUsers, new(MockNotifier), nil)

	mockOrders.On("GetAll").Return([]models.Order{{ID: "order-1", UserID: "user-1"}}, nil).Once()
	mockUsers.On("GetByID", "user-1").Return(&models.User{ID: "user-1", Name: "Test Shopper", Email: "test@example.com"}, nil).Once()

	orders, err := orderService.ListAllOrders()
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.NotNil(t, orders[0].User)
	assert.Equal(t, "Test Shopper", orders[0].User.Name)
	assert.Empty(t, orders[0].User.Email, "admin listing joins minimal identity only")
}

func TestOrderService_UpdateOrderStatus_Delivered(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), new(MockNotifier), nil)

	stored := &models.Order{ID: "order-1", UserID: "user-1", Status: models.OrderStatusProcessing}
	mockOrders.On("GetByID", "order-1").Return(stored, nil).Once()
	mockOrders.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := orderService.UpdateOrderStatus("order-1", models.OrderStatusDelivered)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.True(t, order.IsDelivered)
	assert.True(t, order.IsPaid, "COD is paid on delivery")
	assert.NotNil(t, order.DeliveredAt)
	assert.NotNil(t, order.PaidAt)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_NonDeliveredHasNoSideEffects(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), new(MockNotifier), nil)

	stored := &models.Order{ID: "order-1", Status: models.OrderStatusProcessing}
	mockOrders.On("GetByID", "order-1").Return(stored, nil).Once()
	mockOrders.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := orderService.UpdateOrderStatus("order-1", models.OrderStatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.PaidAt)
	assert.Nil(t, order.DeliveredAt)
}

func TestOrderService_InMemoryRepository_PlaceListAndDeliver(t *testing.T) {
	orders := repositories.NewMockOrderRepository()
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByID", "user-1").
		Return(&models.User{ID: "user-1", Name: "Test Shopper", Email: "test@example.com"}, nil)
	orderService := services.NewOrderService(orders, mockUsers, nil, nil)

	first, err := orderService.PlaceOrder("user-1", placeOrderInput())
	assert.NoError(t, err)

	in := placeOrderInput()
	in.OrderItems[0].Qty = 1
	in.PriceBreakdown = models.PriceBreakdown{}
	second, err := orderService.PlaceOrder("user-1", in)
	assert.NoError(t, err)

	// Listings come back in insertion order
	all, err := orderService.ListAllOrders()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	mine, err := orderService.ListOrdersForUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	// A status change survives a re-fetch through the repository
	_, err = orderService.UpdateOrderStatus(first.ID, models.OrderStatusDelivered)
	assert.NoError(t, err)

	fetched, err := orderService.GetOrderByID(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, fetched.Status)
	assert.True(t, fetched.IsPaid)
	assert.True(t, fetched.IsDelivered)
	assert.Equal(t, "test@example.com", fetched.User.Email)

	_, err = orderService.GetOrderByID("missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestOrderService_UpdateOrderStatus_NotFound(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	orderService := services.NewOrderService(mockOrders, new(MockUserRepository), new(MockNotifier), nil)

	mockOrders.On("GetByID", "missing").Return(nil, apperrors.New(apperrors.ErrNotFound, "Order not found")).Once()

	_, err := orderService.UpdateOrderStatus("missing", models.OrderStatusDelivered)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockOrders.AssertNotCalled(t, "Update", mock.Anything)
}

package models

import "time"

// Order statuses. Any status string is accepted on update; only Delivered
// carries side effects (paid-on-delivery for COD).
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

// PaymentMethodCOD is the only payment method in scope.
const PaymentMethodCOD = "COD"

// OrderItem is a snapshot of one cart line at the time the order was placed.
// It never references the live cart.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product" gorm:"type:varchar(36)"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PriceBreakdown is the derived order pricing. Invariant:
// TotalPrice = ItemsPrice + ShippingPrice + TaxPrice after rounding.
type PriceBreakdown struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// OrderUser is the minimal owner identity joined into order reads.
type OrderUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Order represents a placed customer order. After creation only the
// payment/delivery/status fields may change.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"userId" gorm:"index;type:varchar(36)"`
	User            *OrderUser      `json:"user,omitempty" gorm:"-"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   string          `json:"paymentMethod"`
	PriceBreakdown  `gorm:"embedded"`
	IsPaid          bool       `json:"isPaid"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	IsDelivered     bool       `json:"isDelivered"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

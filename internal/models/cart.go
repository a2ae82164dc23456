package models

import "time"

// CartItem is one line of a shopper's cart. CountInStock is the advisory
// stock cap captured when the product was added.
type CartItem struct {
	ProductID    string  `json:"product"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Qty          int     `json:"qty" validate:"gte=1"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// OrderItem converts the cart line into an order line snapshot.
func (c CartItem) OrderItem() OrderItem {
	return OrderItem{
		ProductID: c.ProductID,
		Name:      c.Name,
		Image:     c.Image,
		Price:     c.Price,
		Qty:       c.Qty,
	}
}

// ClientState is a named durable JSON blob per user, the server-side
// counterpart of the browser's localStorage entries ("cartItems",
// "shippingAddress").
type ClientState struct {
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"primaryKey;type:varchar(100)"`
	Value     string
	UpdatedAt time.Time
}

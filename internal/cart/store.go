// Package cart holds a shopper's selected line items. Every mutation
// re-persists the cart to durable client state before returning, so a
// reload never loses state accepted by a prior call.
package cart

import (
	"errors"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"
)

// Fixed names of the durable client-state entries, matching the keys the
// storefront client uses.
const (
	StateKeyCart     = "cartItems"
	StateKeyShipping = "shippingAddress"
)

// StateStore persists named JSON values per user.
type StateStore interface {
	Save(userID, name string, value any) error
	Load(userID, name string, dest any) error // apperrors.ErrNotFound when absent
	Delete(userID, name string) error
}

// Store is one user's cart. Lines are ordered and keyed by product ID;
// quantity is always >= 1 and never exceeds the advisory stock cap.
type Store struct {
	userID string
	state  StateStore
	items  []models.CartItem
}

// Load reads the user's persisted cart, returning an empty cart when none
// has been saved yet.
func Load(userID string, state StateStore) (*Store, error) {
	s := &Store{userID: userID, state: state}
	if err := state.Load(userID, StateKeyCart, &s.items); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return s, nil
}

// AddItem inserts a line for the product or reconciles an existing line to
// the supplied target quantity. The quantity is clamped to [1, stock cap]
// when the product reports stock; selecting a quantity from the cart page
// carries "set target" semantics, not "adjust by".
func (s *Store) AddItem(product *models.Product, targetQty int) error {
	qty := targetQty
	if qty < 1 {
		qty = 1
	}
	if product.CountInStock > 0 && qty > product.CountInStock {
		qty = product.CountInStock
	}

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Qty = qty
			s.items[i].Price = product.Price
			s.items[i].CountInStock = product.CountInStock
			return s.persist()
		}
	}

	s.items = append(s.items, models.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Image:        product.Image,
		Price:        product.Price,
		Qty:          qty,
		CountInStock: product.CountInStock,
	})
	return s.persist()
}

// RemoveItem drops the line for the product. Removing an absent product is
// a no-op and does not re-persist.
func (s *Store) RemoveItem(productID string) error {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// Clear empties the cart and removes its durable row, used after a
// successful checkout. A later Load sees the same empty cart either way.
func (s *Store) Clear() error {
	s.items = nil
	return s.state.Delete(s.userID, StateKeyCart)
}

// TotalItemCount is the sum of line quantities, used for UI badges.
func (s *Store) TotalItemCount() int {
	var total int
	for _, it := range s.items {
		total += it.Qty
	}
	return total
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []models.CartItem {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Snapshot returns an immutable order-line copy of the cart, decoupled from
// subsequent cart mutations.
func (s *Store) Snapshot() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it.OrderItem())
	}
	return items
}

func (s *Store) persist() error {
	return s.state.Save(s.userID, StateKeyCart, s.items)
}

// SaveShippingAddress persists the checkout address under its fixed name,
// superseding any previous one.
func SaveShippingAddress(state StateStore, userID string, addr models.ShippingAddress) error {
	return state.Save(userID, StateKeyShipping, addr)
}

// LoadShippingAddress reads the persisted checkout address.
func LoadShippingAddress(state StateStore, userID string) (*models.ShippingAddress, error) {
	var addr models.ShippingAddress
	if err := state.Load(userID, StateKeyShipping, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

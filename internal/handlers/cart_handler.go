package handlers

import (
	"errors"
	"log"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/cart"
	"dairydrop/internal/models"
	"dairydrop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the durable per-user cart and shipping address. Each
// mutation persists before the response is written, so a page reload never
// loses accepted state.
type CartHandler struct {
	products *services.ProductService
	orders   *services.OrderService
	state    cart.StateStore
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(products *services.ProductService, orders *services.OrderService, state cart.StateStore) *CartHandler {
	return &CartHandler{
		products: products,
		orders:   orders,
		state:    state,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Put("/items", h.HandleSetItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Post("/clear", h.HandleClear)
	cartRoutes.Post("/checkout", h.HandleCheckout)
	cartRoutes.Get("/shipping", h.HandleGetShippingAddress)
	cartRoutes.Put("/shipping", h.HandleSaveShippingAddress)
}

func (h *CartHandler) loadStore(c *fiber.Ctx) (*cart.Store, error) {
	userID, _ := c.Locals("user_id").(string)
	return cart.Load(userID, h.state)
}

func (h *CartHandler) cartResponse(c *fiber.Ctx, store *cart.Store) error {
	return c.JSON(fiber.Map{
		"items":      store.Items(),
		"totalItems": store.TotalItemCount(),
	})
}

// HandleGetCart returns the persisted cart contents.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	store, err := h.loadStore(c)
	if err != nil {
		log.Printf("Error loading cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
		})
	}
	return h.cartResponse(c, store)
}

// setItemRequest selects a target quantity for a product, as the cart page
// quantity dropdown does.
type setItemRequest struct {
	ProductID string `json:"product" validate:"required"`
	Qty       int    `json:"qty"`
}

// HandleSetItem adds a product to the cart or reconciles its quantity.
func (h *CartHandler) HandleSetItem(c *fiber.Ctx) error {
	var req setItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A product id is required",
		})
	}

	product, err := h.products.GetProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart",
		})
	}

	store, err := h.loadStore(c)
	if err == nil {
		err = store.AddItem(product, req.Qty)
	}
	if err != nil {
		log.Printf("Error updating cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart",
		})
	}
	return h.cartResponse(c, store)
}

// HandleRemoveItem drops a product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	store, err := h.loadStore(c)
	if err == nil {
		err = store.RemoveItem(c.Params("productId"))
	}
	if err != nil {
		log.Printf("Error removing cart item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart",
		})
	}
	return h.cartResponse(c, store)
}

// HandleClear empties the cart, as after a successful order.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	store, err := h.loadStore(c)
	if err == nil {
		err = store.Clear()
	}
	if err != nil {
		log.Printf("Error clearing cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
		})
	}
	return h.cartResponse(c, store)
}

// checkoutRequest optionally selects a payment method; the service defaults
// to COD when it is omitted.
type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// HandleCheckout places an order from the server-held cart: the cart lines
// become the order snapshot, prices are derived server-side and the saved
// shipping address is attached. The cart is cleared once the order persists.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
	}

	store, err := h.loadStore(c)
	if err != nil {
		log.Printf("Error loading cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
		})
	}
	snapshot := store.Snapshot()

	userID, _ := c.Locals("user_id").(string)
	var addr models.ShippingAddress
	if len(snapshot) > 0 {
		saved, err := cart.LoadShippingAddress(h.state, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Shipping address is required",
				})
			}
			log.Printf("Error loading shipping address: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Order creation failed",
			})
		}
		addr = *saved
	}

	order, err := h.orders.PlaceOrder(userID, services.PlaceOrderInput{
		OrderItems:      snapshot,
		ShippingAddress: addr,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": apperrors.Message(err),
			})
		}
		log.Printf("Order creation error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Order creation failed",
		})
	}

	// The order is already persisted; a failed clear only leaves stale lines.
	if err := store.Clear(); err != nil {
		log.Printf("Error clearing cart after checkout: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetShippingAddress returns the persisted checkout address.
func (h *CartHandler) HandleGetShippingAddress(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	addr, err := cart.LoadShippingAddress(h.state, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No shipping address saved",
			})
		}
		log.Printf("Error loading shipping address: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load shipping address",
		})
	}
	return c.JSON(addr)
}

// HandleSaveShippingAddress validates and persists the checkout address,
// superseding any previous one.
func (h *CartHandler) HandleSaveShippingAddress(c *fiber.Ctx) error {
	var addr models.ShippingAddress
	if err := c.BodyParser(&addr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(addr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Address, city, postal code and country are required",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	if err := cart.SaveShippingAddress(h.state, userID, addr); err != nil {
		log.Printf("Error saving shipping address: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save shipping address",
		})
	}
	return c.JSON(addr)
}

package handlers

import (
	"dairydrop/internal/notifier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WSHandler bridges the in-process notifier hub to websocket clients. Each
// connected session gets its own hub subscription, removed on disconnect;
// late joiners receive no backlog.
type WSHandler struct {
	hub *notifier.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *notifier.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes registers the realtime endpoint on the app root.
func (h *WSHandler) RegisterRoutes(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.serve))
}

func (h *WSHandler) serve(conn *websocket.Conn) {
	sub := h.hub.Subscribe()
	defer sub.Close()

	// Drain client frames only to notice the disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

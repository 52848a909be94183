package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"tableau/store"
	"tableau/utils"
)

// EventsHandler streams store mutation events over a websocket so open
// dashboard views can refresh without polling.
type EventsHandler struct {
	bus *store.EventBus
}

// NewEventsHandler creates a new instance of EventsHandler
func NewEventsHandler(bus *store.EventBus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *EventsHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleStream pushes each mutation event to the client as a JSON frame. The
// subscription is released when the client goes away.
func (h *EventsHandler) HandleStream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, events := h.bus.Subscribe()
		defer h.bus.Unsubscribe(id)

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
			case e, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(e); err != nil {
					utils.Log.Debug("Event stream closed: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	})
}

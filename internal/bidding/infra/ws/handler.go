package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/shared/websocket"
	"go.uber.org/zap"
)

// SubscribeHandler upgrades watchers of a listing page onto the hub. Each
// subscriber gets the current view snapshot first, then countdown ticks and
// listing updates until it disconnects.
type SubscribeHandler struct {
	views *application.ViewManager
	hub   *websocket.Hub
}

func NewSubscribeHandler(views *application.ViewManager, hub *websocket.Hub) *SubscribeHandler {
	return &SubscribeHandler{views: views, hub: hub}
}

func (h *SubscribeHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/listings/:id", fiberws.New(h.subscribe))
}

// subscribe runs for the lifetime of one connection, the read pump blocks
// until the peer goes away.
func (h *SubscribeHandler) subscribe(conn *fiberws.Conn) {
	listingID := conn.Params("id")
	ctx := context.Background()

	view, err := h.views.View(ctx, listingID)
	if err != nil {
		log.Warn("ws subscribe rejected",
			zap.String("listingID", listingID),
			zap.Error(err),
		)
		if data, merr := json.Marshal(NewServerErrorMessage("listing unavailable")); merr == nil {
			_ = conn.WriteMessage(fiberws.TextMessage, data)
		}
		_ = conn.Close()
		return
	}

	client := &websocket.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, 16),
		ListingID: listingID,
		ID:        uuid.NewString(),
	}
	h.hub.RegisterClient(client)

	// snapshot first so the page renders before the next tick
	if data, merr := json.Marshal(NewInitialStateMessage(view.State())); merr == nil {
		select {
		case client.Send <- data:
		default:
		}
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/heavymart/bidgate/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the registry of subscribed clients grouped by listing ID and
// handles message broadcasting to each group. The bid placement surface is
// HTTP, so the hub only pushes server state (countdown ticks, price updates)
// and never dispatches inbound client messages.
type Hub struct {
	// Registered clients, grouped by listing ID.
	clients map[string]map[*Client]bool
	// Outbound messages destined for one listing group.
	broadcast chan *Message
	// Register requests from the clients.
	register chan *Client
	// Unregister requests from clients.
	unregister chan *Client
}

// Client represents a ws individual connection subscribed to one listing.
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The listing this client watches.
	ListingID string
	// Unique identifier for the client
	ID string
}

type Message struct {
	ListingID string
	Data      []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// only the hub goroutine touches the clients map
func (h *Hub) subscriberCount(listingID string) int {
	return len(h.clients[listingID])
}

// Run starts the hub listening in their channels. onEmptyGroup is invoked from
// the hub goroutine whenever the last client of a listing group unregisters,
// the view manager uses it to unmount idle views.
func (h *Hub) Run(ctx context.Context, onEmptyGroup func(listingID string)) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket Hub shutting down due to context cancellation")
			return
		case client := <-h.register:
			if _, ok := h.clients[client.ListingID]; !ok {
				h.clients[client.ListingID] = make(map[*Client]bool)
			}
			h.clients[client.ListingID][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("listingID", client.ListingID),
				zap.Int("group_clients", h.subscriberCount(client.ListingID)),
			)

		case client := <-h.unregister:
			if h.dropClient(client, onEmptyGroup) {
				log.Info("Client unregistered",
					zap.String("clientID", client.ID),
					zap.String("listingID", client.ListingID),
				)
			}

		case message := <-h.broadcast:
			if clients, ok := h.clients[message.ListingID]; ok {
				for client := range clients {
					select {
					case client.Send <- message.Data:
					default:
						// client probably disconnected, drop it
						if h.dropClient(client, onEmptyGroup) {
							log.Warn("Failed to send message to client, unregistering",
								zap.String("clientID", client.ID),
								zap.String("listingID", client.ListingID),
							)
						}
					}
				}
			}
		}
	}
}

// dropClient removes a client from its listing group, closing its send channel
// and firing onEmptyGroup when the group empties. Every removal path must go
// through here so empty groups are always reported. Only the hub goroutine may
// call it.
func (h *Hub) dropClient(client *Client, onEmptyGroup func(listingID string)) bool {
	clients, ok := h.clients[client.ListingID]
	if !ok {
		return false
	}
	if _, ok := clients[client]; !ok {
		return false
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.ListingID)
		log.Info("Listing group removed as empty", zap.String("listingID", client.ListingID))
		if onEmptyGroup != nil {
			onEmptyGroup(client.ListingID)
		}
	}
	return true
}

// RegisterClient register a new client in the hub
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("listingID", client.ListingID),
		)
		_ = client.Conn.Close()
	}
}

// UnregisterClient delete a client from the hub
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		// the client might already be closing, not much to do here
	}
}

// BroadcastToListing sends a message to every client subscribed to a listing.
func (h *Hub) BroadcastToListing(listingID string, data []byte) {
	select {
	case h.broadcast <- &Message{ListingID: listingID, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("listingID", listingID))
	}
}

// ReadPump drains the client connection so close frames and pongs are
// processed. Inbound payloads are discarded, the push channel is one way.
// This method must run in a goroutine per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("listingID", c.ListingID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection. A
// goroutine running WritePump is started for each connection, keeping a single
// writer per connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the Hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("listingID", c.ListingID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

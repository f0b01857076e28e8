package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"reviewqr-backend/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard origin is enforced by the CORS layer
	},
}

// Client represents a connected dashboard tab. businessID is empty for
// platform roles, which receive events from every tenant.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	businessID string
}

type envelope struct {
	businessID string
	payload    []byte
}

// Hub maintains the set of active clients and broadcasts dashboard events to
// them. Events are keyed by tenant: a client-role socket only receives events
// for its own business.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.businessID != "" && client.businessID != msg.businessID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (h *Hub) BroadcastEvent(eventType, businessID string, data interface{}) {
	event := Event{Type: eventType, Data: data}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling ws event: %v", err)
		return
	}
	h.broadcast <- envelope{businessID: businessID, payload: payload}
}

// NotifyReview pushes a freshly submitted review to connected dashboards.
func (h *Hub) NotifyReview(r models.Review) {
	h.BroadcastEvent("new_review", r.BusinessID, r)
}

// NotifyCouponClaimed announces a claim so open coupon screens refresh.
func (h *Hub) NotifyCouponClaimed(c models.Coupon) {
	h.BroadcastEvent("coupon_claimed", c.BusinessID, c)
}

// NotifyOrderStatus announces shipment progress.
func (h *Hub) NotifyOrderStatus(o models.QROrder) {
	h.BroadcastEvent("order_status", o.BusinessID, o)
}

// ServeWs upgrades an already-authenticated request. businessID scopes the
// feed; pass the empty string for platform roles.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, businessID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), businessID: businessID}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		// Dashboards only listen; inbound frames are heartbeats at most.
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

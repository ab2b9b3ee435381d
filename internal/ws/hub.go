package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"

	"github.com/gofiber/contrib/websocket"
)

const (
	TypeStockUpdate = "stock_update"

	ActionSaleCreated    = "sale_created"
	ActionProductCreated = "product_created"
	ActionProductUpdated = "product_updated"
	ActionProductDeleted = "product_deleted"
)

// Event is the JSON frame pushed to every subscriber.
type Event struct {
	Type    string              `json:"type"`
	Action  string              `json:"action"`
	Product *model.Product      `json:"producto,omitempty"`
	Sale    *model.SaleResponse `json:"venta,omitempty"`
	User    *model.Identity     `json:"usuario,omitempty"`
	Message string              `json:"mensaje"`
}

// Client is the subset of *websocket.Conn the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run dispatches registrations and broadcasts until ctx is done. Once it
// returns, Attach closes late clients and Detach is a no-op.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			obs.Logger.Debug("ws client connected")

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues ev for broadcast. It never blocks: when the queue is full
// the event is dropped. A nil hub discards everything.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		obs.Logger.Error("ws marshal event", "action", ev.Action, "err", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		obs.Logger.Warn("ws queue full, event dropped", "action", ev.Action)
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Serve registers conn and blocks reading from it until the peer goes away.
// Incoming frames are ignored.
func (h *Hub) Serve(conn *websocket.Conn) {
	h.Attach(conn)
	defer h.Detach(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Attach(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

func (h *Hub) Detach(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

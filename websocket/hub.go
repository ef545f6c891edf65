package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Event is pushed to connected admin dashboards whenever the order
// lifecycle moves: new orders, payment settlements, proof uploads.
type Event struct {
	Type    string    `json:"type"`
	OrderID string    `json:"order_id,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	broadcast chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
	}
}

func (h *Hub) Run() {
	for event := range h.broadcast {
		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Dropping admin websocket client: %v", err)
				conn.Close()
				go h.Unregister(conn)
			}
		}
		h.mu.RUnlock()
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Notify never blocks; when the buffer is full the event is dropped. The
// hub is a convenience channel, not a durable queue.
func (h *Hub) Notify(eventType, orderID, message string) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- Event{Type: eventType, OrderID: orderID, Message: message, At: time.Now()}:
	default:
	}
}

package websocket

import (
	"log"
	"sync"
)

// Client represents a connected admin dashboard.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte
	Hub    *Hub
	Conn   *Connection
}

// Hub maintains the set of connected admin clients and broadcasts
// registration events to all of them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *BroadcastMessage
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// BroadcastMessage is the envelope sent to every connected client.
type BroadcastMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Global Hub instance
var GlobalHub *Hub

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *BroadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the Hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 WebSocket: admin client registered (total: %d)", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 WebSocket: admin client unregistered")

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.Send <- message.ToJSON():
				default:
					h.mu.Lock()
					close(client.Send)
					delete(h.clients, client)
					h.mu.Unlock()
				}
			}
			if len(clients) > 0 {
				log.Printf("📡 WebSocket: broadcasted '%s' to %d admin clients", message.Type, len(clients))
			}
		}
	}
}

// Broadcast sends a message to every connected admin client.
func (h *Hub) Broadcast(messageType string, payload interface{}) {
	h.broadcast <- &BroadcastMessage{
		Type:    messageType,
		Payload: payload,
	}
}

// GetClientCount returns the number of connected admin clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// InitGlobalHub initializes the global hub instance
func InitGlobalHub() {
	GlobalHub = NewHub()
	go GlobalHub.Run()
	log.Println("✅ WebSocket Hub initialized!")
}

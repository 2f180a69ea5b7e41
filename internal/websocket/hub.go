package websocket

import (
	"encoding/json"
	"sync"

	"github.com/almira/almira-backend/pkg/logger"
)

// Client is one connected device of a signed-in user.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans notification events out to connected clients. A user may
// have several devices connected; each gets its own Client.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

// Run processes register/unregister events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()

			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()

			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

// Register queues a client for registration
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUser delivers a JSON payload to every device of one user.
// Slow clients are skipped rather than blocking the hub.
func (h *Hub) SendToUser(userID uint, payload interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal websocket payload", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- message:
		default:
			logger.Warn("WebSocket send buffer full, dropping message", map[string]interface{}{
				"user_id": userID,
			})
		}
	}
}

// ConnectedUsers returns the number of distinct users online.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

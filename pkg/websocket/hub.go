package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub tracks connected clients per user and fans messages out to them.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.userClients[client.UserID] == nil {
				h.userClients[client.UserID] = make(map[*Client]struct{})
			}
			h.userClients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", zap.String("userID", client.UserID))
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	if set, ok := h.userClients[client.UserID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.userClients, client.UserID)
		}
	}
	h.logger.Debug("websocket client disconnected", zap.String("userID", client.UserID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.Send)
	}
	h.clients = make(map[*Client]bool)
	h.userClients = make(map[string]map[*Client]struct{})
}

// SendMessageToUser delivers payload to every open connection of userID.
// Slow connections whose buffer is full are skipped rather than blocking.
func (h *Hub) SendMessageToUser(userID string, payload interface{}, messageType string) (int, error) {
	envelope := Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		return 0, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.userClients[userID] {
		select {
		case client.Send <- messageBytes:
			delivered++
		default:
			h.logger.Warn("websocket send buffer full, dropping message", zap.String("userID", userID))
		}
	}
	return delivered, nil
}

func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients)
}

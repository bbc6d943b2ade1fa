package ws

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/metrics"
	"inkwell_backend/internal/models"
)

// Event is the envelope of every server-to-client message.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const EventNotification = "notification"

// WebSocketManager tracks live connections per user. One user may have several tabs open.
type WebSocketManager struct {
	clients    map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled, then closes every connection.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			set, ok := manager.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				manager.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			manager.mu.Unlock()
			metrics.WSConnections.Inc()
			logger.Debug("WebSocket client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.remove(client)

		case <-ctx.Done():
			manager.mu.Lock()
			for userID, set := range manager.clients {
				for client := range set {
					close(client.Send)
					metrics.WSConnections.Dec()
				}
				delete(manager.clients, userID)
			}
			manager.mu.Unlock()
			return
		}
	}
}

// join and leave never block once Run has returned.
func (manager *WebSocketManager) join(c *Client) bool {
	select {
	case manager.register <- c:
		return true
	case <-manager.done:
		return false
	}
}

func (manager *WebSocketManager) leave(c *Client) {
	select {
	case manager.unregister <- c:
	case <-manager.done:
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	close(client.Send)
	delete(set, client)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
	metrics.WSConnections.Dec()
	logger.Debug("WebSocket client unregistered", "user_id", client.UserID)
}

// SendToUser delivers an event to every connection of userID.
// Slow clients whose buffer is full are disconnected.
func (manager *WebSocketManager) SendToUser(userID uint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode websocket event", "type", event.Type, "error", err.Error())
		return
	}

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			go manager.leave(client)
			logger.Warn("WebSocket client dropped due to full send buffer", "user_id", userID)
		}
	}
}

// PushNotification forwards a freshly stored notification to the follower's open connections.
func (manager *WebSocketManager) PushNotification(userID uint, n *models.Notification) {
	manager.SendToUser(userID, Event{Type: EventNotification, Data: n})
}

func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	n := 0
	for _, set := range manager.clients {
		n += len(set)
	}
	return n
}

func (manager *WebSocketManager) IsClientConnected(userID uint) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}

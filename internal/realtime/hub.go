package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/qr-event/checkin/internal/metrics"
	"github.com/qr-event/checkin/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60

	// EventActivity is the WebSocket event name for activity log entries.
	EventActivity = "activity"
)

// Hub maintains the set of activity feed connections and broadcasts to them.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a client to the feed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	count := len(h.clients)
	h.mu.Unlock()
	metrics.ActivitySubscribers.Set(float64(count))
	h.logger.Debug("activity client joined", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Unregister removes a client from the feed and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.ActivitySubscribers.Set(float64(count))
	h.logger.Debug("activity client left", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Broadcast sends a message to every connected client. Slow clients miss messages.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("broadcast marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// NotifyActivity pushes an activity event to all feed clients.
func (h *Hub) NotifyActivity(_ context.Context, event models.ActivityEvent) {
	h.Broadcast(EventActivity, event)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub tracks one live connection per user for targeted and global sends.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection for a user, closing any previous one.
func (h *Hub) Register(userID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[userID]; exists && old != conn {
		old.Close()
	}

	h.connections[userID] = conn
	h.logger.Info().Str("user_id", userID.String()).Msg("connection registered")
}

// Unregister removes conn if it is still the user's current connection.
// A connection already replaced by a newer one is closed but the newer one is kept.
func (h *Hub) Unregister(userID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	if current, exists := h.connections[userID]; exists && current == conn {
		delete(h.connections, userID)
		h.logger.Info().Str("user_id", userID.String()).Msg("connection unregistered")
	}
}

// BroadcastAll sends a message to every connected user.
func (h *Hub) BroadcastAll(msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var firstErr error
	for userID, conn := range h.connections {
		if err := conn.Send(msg); err != nil && firstErr == nil {
			firstErr = err
			h.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("broadcast_all_send_failed")
		}
	}
	return firstErr
}

// SendToUser delivers a message to a specific user.
func (h *Hub) SendToUser(userID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

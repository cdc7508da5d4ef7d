package relaymcp

import (
	"sync"

	"github.com/google/uuid"
)

// ConnectionManager tracks the set of currently-open connections, keyed by
// their opaque connection id. It exists mainly to support graceful
// shutdown: Shutdown closes every tracked connection so their read loops
// unblock and can exit.
type ConnectionManager struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Connection
}

// NewConnectionManager builds an empty manager.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{conns: make(map[uuid.UUID]*Connection)}
}

// Add registers a newly accepted connection.
func (m *ConnectionManager) Add(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove drops a connection from tracking, typically once its read loop
// has returned.
func (m *ConnectionManager) Remove(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, c.ID)
}

// Len reports the number of currently tracked connections.
func (m *ConnectionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// CloseAll closes every tracked connection. Used during shutdown to
// unblock any read loops still parked in ReadMessage.
func (m *ConnectionManager) CloseAll() {
	m.mu.RLock()
	conns := make([]*Connection, 0, len(m.conns))
	for _, c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

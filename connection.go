package relaymcp

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection wraps one accepted WebSocket connection. Writes are
// serialized with a mutex since gorilla/websocket forbids concurrent
// writers on the same connection, while per-message goroutines on the read
// side may all want to send a response concurrently.
type Connection struct {
	ID   uuid.UUID
	conn *websocket.Conn

	writeMu sync.Mutex
	closed  bool
}

// NewConnection wraps an accepted websocket connection with a fresh id.
func NewConnection(conn *websocket.Conn) *Connection {
	return &Connection{ID: uuid.New(), conn: conn}
}

// Send writes a response frame. Sending on a connection that's already
// closed is reported but treated as non-fatal by the caller: the client is
// gone, there's nothing left to notify.
func (c *Connection) Send(resp *Response) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteJSON(resp)
}

// ReadMessage blocks for the next text frame from the client.
func (c *Connection) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Connection) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

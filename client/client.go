// Package client implements the client half of the WebSocket RPC protocol:
// Connect dials a server, Call sends a tool_call request and waits for its
// correlated response, and a background goroutine demultiplexes responses
// off the single connection back to whichever Call is waiting on them.
// Adapted from the teacher pack's WSClient pending-request-map pattern
// (diane-assistant's ws_client.go), simplified to one request/response
// round trip per Call instead of a full reconnect/heartbeat/proxy client.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relaymcp/relaymcp"
)

// ToolExecutionError is returned by Call when the server replies with an
// error-status response of any kind: an unknown tool, a failed handler, or
// a validation/routing failure ahead of dispatch. Code is one of the
// closed error codes in relaymcp.ErrCode*.
type ToolExecutionError struct {
	Code    string
	Message string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("client: %s: %s", e.Code, e.Message)
}

// Client is a single connection to a relaymcp server.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan *relaymcp.Response

	logger *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// Connect dials url (e.g. "ws://localhost:8080/ws") and starts the
// background listener goroutine.
func Connect(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		pending: make(map[string]chan *relaymcp.Response),
		logger:  slog.Default(),
		closed:  make(chan struct{}),
	}
	go c.listen()
	return c, nil
}

// Call sends a tool_call request for tool with the given arguments and
// blocks until the server responds, ctx is done, or the connection closes.
// A response that arrives after ctx has already been canceled is dropped
// by listen without error; it never gets delivered to a stale Call.
//
// An error-status response is surfaced as a *ToolExecutionError rather than
// returned as a success-shaped *relaymcp.Response the caller has to inspect
// (spec section 4.9 step 5): only a success response is ever returned
// alongside a nil error.
func (c *Client) Call(ctx context.Context, tool string, args map[string]interface{}) (*relaymcp.Response, error) {
	header := relaymcp.NewHeader()
	req := &relaymcp.Request{
		Header: header,
		Type:   relaymcp.RequestTypeToolCall,
		Body:   relaymcp.ToolCallBody{Tool: tool, Args: args},
	}

	ch := make(chan *relaymcp.Response, 1)
	key := header.CorrelationID.String()

	c.pendingMu.Lock()
	c.pending[key] = ch
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, key)
		c.pendingMu.Unlock()
	}()

	if err := c.send(req); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		if resp.Status == relaymcp.StatusError {
			return nil, &ToolExecutionError{Code: resp.Err.Code, Message: resp.Err.Message}
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, fmt.Errorf("client: connection closed while waiting for response")
	}
}

func (c *Client) send(req *relaymcp.Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

// listen reads response frames off the connection and routes each to the
// Call waiting on its correlation id. A response with no matching pending
// Call (already timed out, or a stray frame) is logged and dropped (spec
// section 4.9: "Unknown or already-completed correlation ids are logged
// and dropped").
func (c *Client) listen() {
	defer c.closeOnce.Do(func() { close(c.closed) })

	for {
		var resp relaymcp.Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			return
		}

		key := resp.Header.CorrelationID.String()
		c.pendingMu.Lock()
		ch, ok := c.pending[key]
		if ok {
			delete(c.pending, key)
		}
		c.pendingMu.Unlock()

		if !ok {
			c.logger.Warn("dropping response for unknown or already-completed correlation id",
				"correlation_id", resp.Header.CorrelationID)
			continue
		}
		ch <- &resp
	}
}

// Close closes the underlying connection. Safe to call more than once; any
// Call still waiting unblocks via its ctx or the closed channel.
func (c *Client) Close() error {
	return c.conn.Close()
}

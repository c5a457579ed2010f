// Package socket wraps the websocket transport used to reach the analysis
// server. The engine depends only on the Conn and Dialer interfaces so tests
// can substitute an in-memory transport.
package socket

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/fx"
)

const _handshakeTimeout = 10 * time.Second

// Module is the Fx module for this package.
var Module = fx.Provide(NewDialer)

// Conn is a single message-oriented connection to the server.
//
// Close is deliberately ungraceful: it must unblock a concurrent ReadMessage
// with an error rather than hang, since a read fault is the receive loop's
// wake-up mechanism during disconnect.
type Conn interface {
	// ReadMessage blocks until one whole message arrives.
	ReadMessage() ([]byte, error)
	// WriteMessage sends one whole message.
	WriteMessage(data []byte) error
	// Close terminates the connection.
	Close() error
}

// Dialer establishes websocket connections, negotiating the given
// subprotocols during the handshake.
type Dialer interface {
	Dial(ctx context.Context, address string, subprotocols []string) (Conn, error)
}

type dialer struct{}

// NewDialer returns a Dialer backed by gorilla/websocket.
func NewDialer() Dialer {
	return dialer{}
}

func (dialer) Dial(ctx context.Context, address string, subprotocols []string) (Conn, error) {
	d := websocket.Dialer{
		HandshakeTimeout: _handshakeTimeout,
		Subprotocols:     subprotocols,
	}
	ws, _, err := d.DialContext(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %q: %w", address, err)
	}
	return &conn{ws: ws}, nil
}

type conn struct {
	ws *websocket.Conn
}

func (c *conn) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	return data, nil
}

func (c *conn) WriteMessage(data []byte) error {
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

func (c *conn) Close() error {
	return c.ws.Close()
}

// File: server/websocket.go
package server

import (
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

// wsConnection adapts a websocket to game.ClientConnection. Frames go out as
// text messages.
type wsConnection struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func newWSConnection(conn *websocket.Conn, writeTimeout time.Duration) *wsConnection {
	return &wsConnection{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsConnection) WriteFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()
	}
	return websocket.Message.Send(c.conn, string(frame))
}

func (c *wsConnection) Close() error {
	return c.conn.Close()
}

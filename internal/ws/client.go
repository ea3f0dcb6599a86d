package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer     = 64
	maxMessageSize = 512
)

// Client is one websocket connection subscribed to a single conversation. The feed is
// server to client only; anything the peer sends is read and discarded.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	conversationID uuid.UUID
	userID         uuid.UUID
	send           chan []byte

	writeTimeout time.Duration
	pingInterval time.Duration
}

func NewClient(hub *Hub, conn *websocket.Conn, conversationID, userID uuid.UUID, writeTimeout, pingInterval time.Duration) *Client {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Client{
		hub:            hub,
		conn:           conn,
		conversationID: conversationID,
		userID:         userID,
		send:           make(chan []byte, sendBuffer),
		writeTimeout:   writeTimeout,
		pingInterval:   pingInterval,
	}
}

func (c *Client) pongWait() time.Duration {
	return c.pingInterval * 2
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

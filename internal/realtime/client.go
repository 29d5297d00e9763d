package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	sendBufferSize = 256
)

// EventHandler receives inbound domain events (sendMessage and the legacy
// relays). Connection lifecycle events never reach it.
type EventHandler func(client *Client, event Event)

// Client is one authenticated socket connection. The hub keeps at most one
// Client per user id.
type Client struct {
	id       uuid.UUID
	userID   uint
	username string
	role     string

	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	logger  *zap.Logger
	onEvent EventHandler
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username, role string, logger *zap.Logger, onEvent EventHandler) *Client {
	return &Client{
		id:       uuid.New(),
		userID:   userID,
		username: username,
		role:     role,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		hub:      hub,
		logger:   logger,
		onEvent:  onEvent,
	}
}

func (c *Client) ID() uuid.UUID    { return c.id }
func (c *Client) UserID() uint     { return c.userID }
func (c *Client) Username() string { return c.username }
func (c *Client) Role() string     { return c.role }

// ReadPump consumes inbound frames until the peer goes away or sends a
// logout event. It owns deregistration: the deferred Disconnect removes the
// presence entry and triggers the updateUsers broadcast.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error",
					zap.Uint("userId", c.userID),
					zap.Error(err))
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(message, &evt); err != nil {
			c.logger.Warn("failed to parse client event",
				zap.Uint("userId", c.userID),
				zap.Error(err))
			continue
		}

		if evt.Event == EventLogout {
			return
		}
		if c.onEvent != nil {
			c.onEvent(c, evt)
		}
	}
}

// WritePump drains the send channel onto the socket and keeps the connection
// alive with pings. It exits when the hub closes the send channel, which is
// how a displaced or deregistered connection gets torn down.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

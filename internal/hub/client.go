package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var clientIDCounter atomic.Uint64

// Client is one connected browser viewer. scopes is the FC visibility
// filter from the viewer's session; nil means unrestricted.
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	send     chan Message
	username string
	scopes   map[string]bool
	provider DashboardProvider

	mu      sync.Mutex
	fcRooms map[string]bool
	closed  bool
}

func NewClient(hub *Hub, conn *websocket.Conn, username string, scopes map[string]bool, provider DashboardProvider) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, 64),
		username: username,
		scopes:   scopes,
		provider: provider,
		fcRooms:  make(map[string]bool),
	}
}

// Start begins the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send queues one message for this viewer, dropping it if the buffer is
// full. The readPump calls this while the hub may be shutting the client
// down, so closure is checked under the same lock closeSend takes.
func (c *Client) Send(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// closeSend closes the outbound channel exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) canSeeFC(fcID string) bool {
	return c.scopes == nil || c.scopes[fcID]
}

func (c *Client) inRoom(fcID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fcRooms[fcID]
}

func (c *Client) setRoom(fcID string, joined bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if joined {
		c.fcRooms[fcID] = true
	} else {
		delete(c.fcRooms, fcID)
	}
}

func (c *Client) readPump() {
	logger := slog.With("component", "viewer_client", "username", c.username)

	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg controlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Unexpected websocket close", "error", err)
			}
			return
		}
		c.handleControl(msg)
	}
}

// controlMessage is what viewers are allowed to send upstream.
type controlMessage struct {
	Type string `json:"type"`
	FCID string `json:"fc_id,omitempty"`
}

func (c *Client) handleControl(msg controlMessage) {
	switch msg.Type {
	case MessageTypePing:
		c.Send(Message{Type: MessageTypePong})

	case MessageTypeJoinFC:
		if msg.FCID == "" || !c.canSeeFC(msg.FCID) {
			c.Send(Message{Type: MessageTypeError, Data: "fc not available"})
			return
		}
		c.setRoom(msg.FCID, true)

	case MessageTypeLeaveFC:
		c.setRoom(msg.FCID, false)

	case MessageTypeRequestUpdate:
		if c.provider == nil {
			return
		}
		if data := c.provider.Dashboard(); data != nil {
			c.Send(Message{
				Type: MessageTypeDashboardUpdate,
				Data: fleet.FilterForScopes(data, c.scopes),
			})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"encoding/json"
	"log"
	"time"

	"buildflow-api/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client is one authenticated websocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	UserID uint
	Role   models.UserRole

	// done is closed by the hub when the client is dropped. send stays open
	// until unregister so the read pump can keep calling sendEvent safely.
	done chan struct{}

	// rooms and closed are owned by the hub's run loop
	rooms  map[string]bool
	closed bool
}

// NewClient wraps an upgraded connection. Call Start to begin the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, role models.UserRole) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
		UserID: userID,
		Role:   role,
		rooms:  make(map[string]bool),
	}
}

// Start launches the read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) sendEvent(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}

// inbound is the client->server message envelope
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	OrderID string `json:"order_id"`
}

type locationPayload struct {
	OrderID string  `json:"order_id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Status  string  `json:"status"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}
		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Event {
		case "join_order":
			var p joinPayload
			if err := json.Unmarshal(msg.Data, &p); err == nil {
				c.hub.handleJoin(c, p.OrderID)
			}
		case "leave_order":
			var p joinPayload
			if err := json.Unmarshal(msg.Data, &p); err == nil && p.OrderID != "" {
				c.hub.unsubscribe <- subscription{client: c, room: RoomName(p.OrderID)}
			}
		case "update_location":
			// Driver-originated; fan out to everyone watching the order
			if c.Role != models.RoleDelivery {
				continue
			}
			var p locationPayload
			if err := json.Unmarshal(msg.Data, &p); err == nil && p.OrderID != "" {
				_ = c.hub.PublishLocation(p.OrderID, p.Lat, p.Lng, p.Status)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

package realtime

import (
	"encoding/json"
	"errors"
	"log"

	"buildflow-api/models"
)

// RoomName is the channel identifier for one order
func RoomName(orderID string) string {
	return "order_" + orderID
}

// ErrNotInitialized is returned when a publish is attempted against a hub
// that was never constructed and started.
var ErrNotInitialized = errors.New("realtime hub not initialized")

// Authorizer decides whether a connected user may join an order's room.
// Wired to an order-membership lookup at startup.
type Authorizer func(userID uint, role models.UserRole, orderID string) bool

// Event is the wire format for every server->client message
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type subscription struct {
	client *Client
	room   string
}

type outbound struct {
	room    string
	payload []byte
}

// Hub owns the room membership map. All membership changes and fan-out go
// through the run loop, so no lock is needed on the map itself.
type Hub struct {
	canJoin Authorizer

	rooms map[string]map[*Client]bool

	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan outbound
}

func NewHub(canJoin Authorizer) *Hub {
	return &Hub{
		canJoin:     canJoin,
		rooms:       make(map[string]map[*Client]bool),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan outbound, 64),
	}
}

// Run processes membership and broadcast requests. Start once at startup:
//
//	go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.unregister:
			h.drop(c)
			// The read pump has exited by the time it unregisters, so no
			// sendEvent can race this close.
			close(c.send)
		case sub := <-h.subscribe:
			if sub.client.closed {
				continue
			}
			if h.rooms[sub.room] == nil {
				h.rooms[sub.room] = make(map[*Client]bool)
			}
			h.rooms[sub.room][sub.client] = true
			sub.client.rooms[sub.room] = true
		case sub := <-h.unsubscribe:
			h.leave(sub.client, sub.room)
		case msg := <-h.broadcast:
			for c := range h.rooms[msg.room] {
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer: drop the connection rather than block the hub
					h.drop(c)
				}
			}
		}
	}
}

// drop removes a client from every room and signals shutdown through its done
// channel. The send channel stays open until the client unregisters; its read
// pump may still be running and calling sendEvent. Only called from the run
// loop.
func (h *Hub) drop(c *Client) {
	for room := range c.rooms {
		h.leave(c, room)
	}
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

func (h *Hub) leave(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) publish(room string, ev Event) error {
	if h == nil {
		return ErrNotInitialized
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.broadcast <- outbound{room: room, payload: payload}
	return nil
}

// PublishStatus fans out an order_status_updated event to the order's room.
// Delivery is best-effort, at-most-once; clients that joined late re-fetch
// state over HTTP.
func (h *Hub) PublishStatus(orderID string, status models.OrderStatus, message string) error {
	return h.publish(RoomName(orderID), Event{
		Event: "order_status_updated",
		Data: map[string]any{
			"orderId": orderID,
			"status":  status,
			"message": message,
		},
	})
}

// PublishLocation fans out a driver location update to the order's room
func (h *Hub) PublishLocation(orderID string, lat, lng float64, status string) error {
	return h.publish(RoomName(orderID), Event{
		Event: "location_update",
		Data: map[string]any{
			"lat":    lat,
			"lng":    lng,
			"status": status,
		},
	})
}

func (h *Hub) handleJoin(c *Client, orderID string) {
	if orderID == "" {
		return
	}
	select {
	case <-c.done:
		// Already dropped; the connection is on its way out
		return
	default:
	}
	if h.canJoin != nil && !h.canJoin(c.UserID, c.Role, orderID) {
		log.Printf("ws: user %d denied join for order %s", c.UserID, orderID)
		c.sendEvent(Event{Event: "join_denied", Data: map[string]any{"orderId": orderID}})
		return
	}
	h.subscribe <- subscription{client: c, room: RoomName(orderID)}
	c.sendEvent(Event{Event: "joined", Data: map[string]any{"orderId": orderID}})
}

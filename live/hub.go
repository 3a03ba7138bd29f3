package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/junkeats-app/utils"
)

// Event types
const (
	EventNotification = "notification"
	EventOrderUpdate  = "order_update"
	EventTracking     = "tracking"
	EventCartUpdate   = "cart_update"
	EventTableUpdate  = "table_update"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks open websocket connections by session.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

type client struct {
	sessionID string
	writeMu   sync.Mutex // gorilla allows one writer per connection
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, sessionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{sessionID: sessionID}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// SendToSession delivers msg to every connection of one session.
func (h *Hub) SendToSession(sessionID string, msg Message) {
	h.send(msg, func(sid string) bool { return sid == sessionID })
}

// Broadcast delivers msg to every connection.
func (h *Hub) Broadcast(msg Message) {
	h.send(msg, func(string) bool { return true })
}

// send writes outside the hub lock. Writes to one connection are
// serialised by its client.
func (h *Hub) send(msg Message, match func(string) bool) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	type target struct {
		conn *websocket.Conn
		c    *client
	}
	h.mutex.Lock()
	targets := make([]target, 0, len(h.clients))
	for conn, c := range h.clients {
		if match(c.sessionID) {
			targets = append(targets, target{conn, c})
		}
	}
	h.mutex.Unlock()

	for _, t := range targets {
		if err := t.c.write(t.conn, data); err != nil {
			utils.ErrorLogger.Printf("Dropping websocket client of session %s: %v", t.c.sessionID, err)
			h.Unregister(t.conn)
		}
	}
}

func (c *client) write(conn *websocket.Conn, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"
)

// Roles a connection can hold within a room.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// Client represents a single WebSocket connection in the hub. ID, Role and
// Room are assigned once the connection identifies itself (create, attach
// or join) and stay fixed afterwards.
type Client struct {
	ID   string
	Role string
	Room string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket
// connection. It exits when the connection's context ends; the channel
// itself is never closed.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.Send:
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub is the process-wide connection registry: it maps each room to its
// admin connection and its player connections, and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	players map[string]map[string]*Client // room code -> player id -> client
	admins  map[string]*Client            // room code -> admin client
}

func NewHub() *Hub {
	return &Hub{
		players: make(map[string]map[string]*Client),
		admins:  make(map[string]*Client),
	}
}

// Register adds a player connection to its room, displacing any previous
// connection for the same player id (at most one live connection per
// player).
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room := h.players[c.Room]
	if room == nil {
		room = make(map[string]*Client)
		h.players[c.Room] = room
	}
	old := room[c.ID]
	room[c.ID] = c
	h.mu.Unlock()

	// The displaced connection's read loop and write pump wind down with
	// the closed socket and its request context. Send channels are never
	// closed: the old connection may still have one message in flight, and
	// a reply to it must land in a dead buffer, not panic.
	if old != nil && old != c {
		closeConn(old, websocket.StatusNormalClosure, "superseded by new connection")
	}
}

// SetAdmin binds a connection as the room's admin, displacing any previous
// admin binding without closing the old connection.
func (h *Hub) SetAdmin(room string, c *Client) {
	h.mu.Lock()
	h.admins[room] = c
	h.mu.Unlock()
}

// IsAdmin reports whether c is the current admin connection for room.
func (h *Hub) IsAdmin(room string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.admins[room] == c
}

// HasPlayer reports whether any live connection is registered for the
// given player in the room.
func (h *Hub) HasPlayer(room, playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.players[room][playerID]
	return ok
}

// Unregister removes a connection from the registry. It is a no-op if a
// newer connection has already taken its place. The Send channel stays
// open so a racing Broadcast or Send cannot hit a closed channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.Role == RoleAdmin {
		if h.admins[c.Room] == c {
			delete(h.admins, c.Room)
		}
		return
	}
	if room, ok := h.players[c.Room]; ok && room[c.ID] == c {
		delete(room, c.ID)
		if len(room) == 0 {
			delete(h.players, c.Room)
		}
	}
}

// Broadcast delivers one event to a room's admin connection (if present)
// and every player connection. Delivery is best-effort per recipient: a
// recipient whose send queue is full is pruned and its connection closed,
// without affecting the others.
func (h *Hub) Broadcast(room string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Hub] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	recipients := make([]*Client, 0, len(h.players[room])+1)
	if admin, ok := h.admins[room]; ok {
		recipients = append(recipients, admin)
	}
	for _, c := range h.players[room] {
		recipients = append(recipients, c)
	}
	h.mu.RUnlock()

	var dead []*Client
	for _, c := range recipients {
		select {
		case c.Send <- data:
		default:
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		h.Unregister(c)
		closeConn(c, websocket.StatusInternalError, "send queue full")
	}
}

// Send queues one event for a single connection, pruning it on a full
// queue.
func (h *Hub) Send(c *Client, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Hub] Marshal error: %v\n", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		h.Unregister(c)
		closeConn(c, websocket.StatusInternalError, "send queue full")
	}
}

// closeConn tolerates clients without a live connection, which tests use.
func closeConn(c *Client, code websocket.StatusCode, reason string) {
	if c.Conn != nil {
		c.Conn.Close(code, reason)
	}
}

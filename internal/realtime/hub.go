package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Event names pushed to clients.
const (
	EventNewMessage      = "new_message"
	EventBudgetUpdate    = "budget_update"
	EventChecklistUpdate = "checklist_update"
	EventEventUpdate     = "event_update"
	EventForumUpdate     = "forum_update"
)

// Envelope is the wire shape of every server push.
type Envelope struct {
	Event string      `json:"event"`
	Room  string      `json:"room,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one connected socket. Send is buffered; a client that cannot
// keep up loses its connection rather than blocking the hub.
type Client struct {
	ID   string
	Send chan Envelope

	mu     sync.Mutex
	userID string
	closed bool
}

func NewClient() *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan Envelope, 32),
	}
}

// SetUserID records the authenticated user. The socket read loop calls it
// while broadcasts read the id from other goroutines, so it is guarded by
// the client mutex.
func (c *Client) SetUserID(id string) {
	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
}

// UserID returns the authenticated user id, or "" before the handshake.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Authenticated reports whether the client has completed the authenticate
// handshake. Only authenticated clients may join rooms.
func (c *Client) Authenticated() bool { return c.UserID() != "" }

// trySend queues an envelope without blocking. It returns false when the
// buffer is full or the client is already closed.
func (c *Client) trySend(env Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- env:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Hub tracks connected clients and their room memberships and fans events
// out to rooms. Delivery is best-effort: a disconnected or slow client is
// dropped, never retried.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]bool // client -> set of joined rooms
	rooms   map[string]map[*Client]bool // room -> members
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]map[string]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = make(map[string]bool)
}

// Unregister removes the client from every room and closes its send
// channel. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	rooms, ok := h.clients[c]
	if !ok {
		return
	}
	for room := range rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.clients, c)
	c.closeSend()
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.clients[c]
	if !ok {
		return
	}
	rooms[room] = true
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rooms, ok := h.clients[c]; ok {
		delete(rooms, room)
	}
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast fans an event out to every member of room. Clients whose send
// buffer is full are pruned immediately; the event is simply dropped for
// them.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	env := Envelope{Event: event, Room: room, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []*Client
	for c := range h.rooms[room] {
		if !c.trySend(env) {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		h.removeLocked(c)
	}
}

// BroadcastToUser delivers an event to every connection authenticated as
// userID, regardless of room membership. Used for per-user pushes such as
// budget and checklist updates.
func (h *Hub) BroadcastToUser(userID, event string, data interface{}) {
	env := Envelope{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []*Client
	for c := range h.clients {
		if c.UserID() != userID {
			continue
		}
		if !c.trySend(env) {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		h.removeLocked(c)
	}
}

// RoomSize counts the members of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ClientCount counts connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Package hub tracks connected clients and their session subscriptions so
// the gateway can fan snapshots out to the lobby or to one session's
// participants.
package hub

import (
	"sync"

	"github.com/kapu/maze-duel-go/pkg/dueldto"
)

// Client is one connected WebSocket peer. Frames are queued on Out and
// drained by the gateway's write pump; a peer that cannot keep up has its
// queue overflow reported so the gateway can drop it.
type Client struct {
	ID  string
	Out chan dueldto.Envelope
	// Kick tears the connection down; set by the gateway, invoked when the
	// client's queue overflows.
	Kick func()
}

// Send queues a frame without blocking. It reports false when the client's
// queue is full.
func (c *Client) Send(env dueldto.Envelope) bool {
	select {
	case c.Out <- env:
		return true
	default:
		return false
	}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // conn id -> client
	rooms   map[string]map[string]*Client // session id -> conn id -> client
}

func New() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
}

// Unregister removes the client and every subscription it holds.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	for sid, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, sid)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribe(sessionID string, c *Client) {
	h.mu.Lock()
	members, ok := h.rooms[sessionID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[sessionID] = members
	}
	members[c.ID] = c
	h.mu.Unlock()
}

func (h *Hub) Unsubscribe(sessionID string, c *Client) {
	h.mu.Lock()
	if members, ok := h.rooms[sessionID]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, sessionID)
		}
	}
	h.mu.Unlock()
}

// snapshot copies the receiver set under the read lock so sends happen
// outside it.
func (h *Hub) snapshotAll() []*Client {
	h.mu.RLock()
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	h.mu.RUnlock()
	return out
}

func (h *Hub) snapshotRoom(sessionID string) []*Client {
	h.mu.RLock()
	members := h.rooms[sessionID]
	out := make([]*Client, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	h.mu.RUnlock()
	return out
}

// BroadcastAll queues a frame for every connected client.
func (h *Hub) BroadcastAll(env dueldto.Envelope) {
	for _, c := range h.snapshotAll() {
		deliver(c, env)
	}
}

// BroadcastSession queues a frame for the subscribers of one session.
func (h *Hub) BroadcastSession(sessionID string, env dueldto.Envelope) {
	for _, c := range h.snapshotRoom(sessionID) {
		deliver(c, env)
	}
}

func deliver(c *Client, env dueldto.Envelope) {
	if !c.Send(env) && c.Kick != nil {
		c.Kick()
	}
}

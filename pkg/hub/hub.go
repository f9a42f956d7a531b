package hub

import (
	"sync"

	"camsapi/pkg/logger"

	"github.com/gorilla/websocket"
)

// Hub broadcasts JSON messages to websocket clients grouped by subscription
// key (for example "import:<job id>" or "schedule:<application id>").
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]bool
}

// Client wraps a websocket connection and its group memberships.
type Client struct {
	conn   *websocket.Conn
	sendMu sync.Mutex
	groups map[string]bool
}

var (
	instance *Hub
	once     sync.Once
)

// Get returns the singleton hub instance.
func Get() *Hub {
	once.Do(func() {
		instance = &Hub{groups: make(map[string]map[*Client]bool)}
	})
	return instance
}

// Register wraps a websocket connection into a hub client.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	return &Client{conn: conn, groups: make(map[string]bool)}
}

// Subscribe adds the client to a broadcast group.
func (h *Hub) Subscribe(c *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[group] == nil {
		h.groups[group] = make(map[*Client]bool)
	}
	h.groups[group][c] = true
	c.groups[group] = true
	logger.Debugf("Hub: client subscribed to group %s (%d members)", group, len(h.groups[group]))
}

// Unsubscribe removes the client from a broadcast group.
func (h *Hub) Unsubscribe(c *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, group)
}

// Remove detaches the client from every group. Called when the connection closes.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for group := range c.groups {
		h.removeLocked(c, group)
	}
}

func (h *Hub) removeLocked(c *Client, group string) {
	if members, ok := h.groups[group]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	delete(c.groups, group)
}

// Broadcast sends v as JSON to every member of the group. Clients whose
// writes fail are dropped from all groups.
func (h *Hub) Broadcast(group string, v interface{}) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.groups[group]))
	for c := range h.groups[group] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, c := range members {
		c.sendMu.Lock()
		err := c.conn.WriteJSON(v)
		c.sendMu.Unlock()
		if err != nil {
			logger.Warnf("Hub: dropping client from group %s after write error: %v", group, err)
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		h.Remove(c)
		c.conn.Close()
	}
}

// GroupSize returns the current member count of a group.
func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

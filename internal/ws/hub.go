package ws

import (
	"encoding/json"
	"sync"

	"earnclub/internal/domain"
	"earnclub/internal/logger"
)

// Hub fans the current agent numbers out to connected clients. Clients
// get a snapshot on connect and an update every time the rotation
// changes.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	rotation *Rotation
}

func NewHub(rotation *Rotation) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		rotation: rotation,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	// New client immediately sees the current numbers.
	c.enqueue(h.snapshot())
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast pushes the current rotation state to every client.
func (h *Hub) Broadcast() {
	payload := h.snapshot()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(payload)
	}
}

type agentsPayload struct {
	Type   string            `json:"type"`
	Agents map[string]string `json:"agents"`
}

func (h *Hub) snapshot() []byte {
	current := h.rotation.Current()
	p := agentsPayload{Type: "agents", Agents: make(map[string]string, len(current))}
	for provider, agent := range current {
		p.Agents[string(provider)] = agent.Number
	}

	b, err := json.Marshal(p)
	if err != nil {
		logger.Error("marshal agents payload", "error", err)
		return []byte(`{"type":"agents","agents":{}}`)
	}
	return b
}

// Rotation exposes the underlying rotation state for read access.
func (h *Hub) Rotation() *Rotation {
	return h.rotation
}

// Advance rotates one provider and notifies everyone.
func (h *Hub) Advance(p domain.Provider) (domain.Agent, bool) {
	agent, ok := h.rotation.Advance(p)
	if ok {
		h.Broadcast()
	}
	return agent, ok
}

// Reload swaps the agent pool and notifies everyone.
func (h *Hub) Reload(agents []*domain.Agent) {
	h.rotation.Reload(agents)
	h.Broadcast()
}

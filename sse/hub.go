package sse

import (
	"sync"

	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/rx"
)

// Client is one connected stream.
type Client struct {
	id     string
	events chan frame
	done   chan rx.Completion
	closed chan struct{}
	once   sync.Once
	log    *logger.Logger
}

// NewClient creates a client with room for buffer pending events.
func NewClient(id string, buffer int, log *logger.Logger) *Client {
	return &Client{
		id:     id,
		events: make(chan frame, buffer),
		done:   make(chan rx.Completion, 1),
		closed: make(chan struct{}),
		log:    log,
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// send queues an event. It returns false if the buffer is full (the client
// is too slow) and the event is dropped.
func (c *Client) send(f frame) bool {
	select {
	case c.events <- f:
		return true
	default:
		c.log.Warn("Client buffer full, dropping event", logger.Fields(
			logger.FieldClientID, c.id,
			logger.FieldEvent, f.event,
		))
		return false
	}
}

// complete hands the completion to the writer. It never blocks: a
// subscription completes at most once.
func (c *Client) complete(comp rx.Completion) {
	select {
	case c.done <- comp:
	default:
	}
}

// Close ends the client's stream. Safe to call multiple times.
func (c *Client) Close() {
	c.once.Do(func() { close(c.closed) })
}

// Hub tracks open streams so they can be closed together.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client. It reports false, and closes the client, if the
// hub has been stopped.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		client.Close()
		return false
	}
	h.clients[client.id] = client
	return true
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client.id)
}

// Stop closes every registered client and refuses new ones. Safe to call
// multiple times.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetClientIDs returns the IDs of all connected clients.
func (h *Hub) GetClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

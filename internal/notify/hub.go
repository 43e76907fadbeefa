package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"showrunner/internal/logging"
)

// Client represents one WebSocket subscriber
type Client struct {
	ID   string
	Send chan TimelineEvent

	// Subscription filters, updated by the read pump while the hub reads
	// them during broadcasts.
	mu          sync.RWMutex
	workspaceID string
	eventID     string

	closeOnce sync.Once
}

// NewClient creates a subscriber with an optional workspace/event filter
func NewClient(id, workspaceID, eventID string) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan TimelineEvent, 64),
		workspaceID: workspaceID,
		eventID:     eventID,
	}
}

// SafeClose closes the send channel exactly once
func (c *Client) SafeClose() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// SetFilter replaces the client's subscription scope
func (c *Client) SetFilter(workspaceID, eventID string) {
	c.mu.Lock()
	c.workspaceID = workspaceID
	c.eventID = eventID
	c.mu.Unlock()
}

// Filter returns the client's current subscription scope
func (c *Client) Filter() (workspaceID, eventID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workspaceID, c.eventID
}

// wantsEvent applies the client's subscription filters; connection and
// system events always go through
func (c *Client) wantsEvent(event *TimelineEvent) bool {
	if event.Type == "connection" || event.Type == "system" {
		return true
	}
	workspaceID, eventID := c.Filter()
	if workspaceID != "" && event.WorkspaceID != "" && workspaceID != event.WorkspaceID {
		return false
	}
	if eventID != "" && event.EventID != "" && eventID != event.EventID {
		return false
	}
	return true
}

// Hub fans timeline events out to WebSocket subscribers. It also implements
// Sink so the coordination layer can publish directly into it.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan TimelineEvent

	// clients is owned by the Run goroutine; count mirrors its size for
	// readers on other goroutines.
	clients map[*Client]struct{}
	count   atomic.Int64
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan TimelineEvent, 256),
		clients:    make(map[*Client]struct{}),
	}
}

// Run owns the subscriber set until the context is canceled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			client.SafeClose()
		}
		h.clients = make(map[*Client]struct{})
		h.count.Store(0)
	}()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			welcome := TimelineEvent{
				Type:      "connection",
				Message:   "Connected to timeline event stream",
				Timestamp: time.Now(),
			}
			if !deliver(client, welcome) {
				h.drop(client)
			}

		case client := <-h.unregister:
			h.drop(client)

		case event := <-h.broadcast:
			var stale []*Client
			for client := range h.clients {
				if !client.wantsEvent(&event) {
					continue
				}
				if !deliver(client, event) {
					stale = append(stale, client)
				}
			}
			for _, client := range stale {
				h.drop(client)
			}

		case <-ctx.Done():
			return
		}
	}
}

// deliver is non-blocking; a full send buffer marks the client as stale
func deliver(client *Client, event TimelineEvent) bool {
	select {
	case client.Send <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.SafeClose()
		h.count.Store(int64(len(h.clients)))
	}
}

// RegisterClient registers a subscriber with the hub
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient removes a subscriber from the hub
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// Publish implements Sink; events are dropped rather than blocking the
// caller when the backlog is full
func (h *Hub) Publish(_ context.Context, event TimelineEvent) {
	select {
	case h.broadcast <- event:
	default:
		logging.Warn("timeline event dropped, broadcast backlog full", "type", event.Type)
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

package api

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/status-im/market-game/logger"
	"github.com/status-im/market-game/metrics"
	"github.com/status-im/market-game/scheduler"
)

// Message types pushed over the websocket
const (
	MessageMarket  = "market"
	MessageSession = "session"
)

// Message is the envelope of every websocket frame
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one connected view. Writes are serialized per connection.
type Client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	market atomic.Pointer[scheduler.Scheduler]
}

// Send writes msg to the client
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// pollMarketWith records the task that pushes market snapshots to the client
func (c *Client) pollMarketWith(task *scheduler.Scheduler) {
	c.market.Store(task)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.Close()
}

// Hub tracks the connected views
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Add(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetConnectedViews(n)
	return client
}

func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.SetConnectedViews(n)
		client.close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client, dropping the ones that fail
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(msg); err != nil {
			logger.Get().Debugf("Hub: dropping client: %v", err)
			h.Remove(client)
		}
	}
}

// RefreshMarket asks every client's market task for an early push
func (h *Hub) RefreshMarket() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if task := client.market.Load(); task != nil {
			task.Trigger()
		}
	}
}

// CloseAll disconnects every client
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()
	metrics.SetConnectedViews(0)

	for client := range clients {
		client.close()
	}
}

package broadcast

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
)

// DefaultQueueSize is the per-connection outbound buffer used when none is configured.
const DefaultQueueSize = 64

// writeWait bounds a single frame write on transports that support deadlines.
const writeWait = 10 * time.Second

// Writer is the transport side of a connection. *websocket.Conn satisfies it.
type Writer interface {
	WriteMessage(messageType int, data []byte) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Envelope is the frame pushed to clients.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client is a registered connection with its own outbound queue and writer goroutine.
type Client struct {
	ID       string
	w        Writer
	send     chan []byte
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	groups   map[GroupKey]struct{} // guarded by Hub.mu
}

func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Wait blocks until the client's writer goroutine has returned. After that
// the hub never touches the client's Writer again.
func (c *Client) Wait() {
	<-c.exited
}

// Stopped reports whether the client's writer has stopped.
func (c *Client) Stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

type enqueueResult uint8

const (
	enqueued enqueueResult = iota
	queueFull
	clientStopped
)

func (c *Client) enqueue(data []byte) enqueueResult {
	if c.Stopped() {
		return clientStopped
	}
	select {
	case c.send <- data:
		return enqueued
	default:
		return queueFull
	}
}

// Hub tracks connections and their group subscriptions and fans frames out
// to them. A slow or broken connection only loses its own frames.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	groups    map[GroupKey]map[string]*Client
	queueSize int
	logger    types.Logger
	wg        sync.WaitGroup

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithQueueSize sets the per-connection outbound buffer.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// NewHub creates a new Hub.
func NewHub(logger types.Logger, opts ...Option) *Hub {
	h := &Hub{
		clients:   make(map[string]*Client),
		groups:    make(map[GroupKey]map[string]*Client),
		queueSize: DefaultQueueSize,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a connection and starts its writer. Registering an id that
// is already present replaces the previous client.
func (h *Hub) Register(connID string, w Writer) *Client {
	c := &Client{
		ID:     connID,
		w:      w,
		send:   make(chan []byte, h.queueSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		groups: make(map[GroupKey]struct{}),
	}

	h.mu.Lock()
	old, replaced := h.clients[connID]
	if replaced {
		h.removeLocked(old)
	}
	h.clients[connID] = c
	h.mu.Unlock()

	if replaced {
		old.Wait()
	}

	h.wg.Add(1)
	go h.writePump(c)

	h.logger.Debug("Client registered", "connID", connID)
	return c
}

// Unregister removes a connection from every group and stops its writer.
// It returns once the writer has exited, so the caller may release the
// transport. It reports whether the connection was registered.
func (h *Hub) Unregister(connID string) bool {
	h.mu.Lock()
	c, ok := h.clients[connID]
	if ok {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	if ok {
		c.Wait()
		h.logger.Debug("Client unregistered", "connID", connID)
	}
	return ok
}

func (h *Hub) removeLocked(c *Client) {
	for key := range c.groups {
		h.leaveLocked(c, key)
	}
	delete(h.clients, c.ID)
	c.stop()
}

func (h *Hub) leaveLocked(c *Client, key GroupKey) {
	delete(c.groups, key)
	if members, ok := h.groups[key]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.groups, key)
		}
	}
}

func (h *Hub) writePump(c *Client) {
	defer h.wg.Done()
	defer close(c.exited)

	deadliner, _ := c.w.(writeDeadliner)
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			// select picks randomly when both are ready.
			if c.Stopped() {
				return
			}
			if deadliner != nil {
				_ = deadliner.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.w.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warn("Failed to write to client, stopping writer", "connID", c.ID, "error", err)
				c.stop()
				return
			}
			h.delivered.Add(1)
		}
	}
}

// Subscribe adds a connection to a group. It reports false for unknown connections.
func (h *Hub) Subscribe(connID string, key GroupKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	members, ok := h.groups[key]
	if !ok {
		members = make(map[string]*Client)
		h.groups[key] = members
	}
	members[connID] = c
	c.groups[key] = struct{}{}
	return true
}

// Unsubscribe removes a connection from a group. Unknown connections and
// groups are ignored.
func (h *Hub) Unsubscribe(connID string, key GroupKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[connID]; ok {
		h.leaveLocked(c, key)
	}
}

// Broadcast sends an event to every connection subscribed to key and
// returns the number of connections it was queued for. It never blocks on
// a recipient.
func (h *Hub) Broadcast(key GroupKey, event string, payload any) int {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast", "event", event, "group", key.String(), "error", err)
		return 0
	}

	h.mu.RLock()
	members := h.groups[key]
	targets := make([]*Client, 0, len(members))
	for _, c := range members {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if h.deliver(c, data, event) {
			sent++
		}
	}
	return sent
}

// BroadcastGroups sends one event to the union of several groups. A
// connection subscribed to more than one of them receives it once.
func (h *Hub) BroadcastGroups(event string, payload any, keys ...GroupKey) int {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast", "event", event, "error", err)
		return 0
	}

	h.mu.RLock()
	seen := make(map[string]struct{})
	targets := make([]*Client, 0)
	for _, key := range keys {
		for id, c := range h.groups[key] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if h.deliver(c, data, event) {
			sent++
		}
	}
	return sent
}

// CloseGroup unsubscribes every member of a group and returns how many there were.
func (h *Hub) CloseGroup(key GroupKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.groups[key]
	n := len(members)
	for _, c := range members {
		delete(c.groups, key)
	}
	delete(h.groups, key)
	return n
}

// Send queues an event for a single connection.
func (h *Hub) Send(connID, event string, payload any) bool {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to marshal event", "event", event, "connID", connID, "error", err)
		return false
	}
	return h.deliver(c, data, event)
}

func (h *Hub) deliver(c *Client, data []byte, event string) bool {
	switch c.enqueue(data) {
	case enqueued:
		return true
	case queueFull:
		h.dropped.Add(1)
		h.logger.Warn("Client queue full, dropping event", "connID", c.ID, "event", event)
	}
	return false
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Type: event, Payload: payload})
}

// Subscriptions returns the groups a connection is subscribed to.
func (h *Hub) Subscriptions(connID string) []GroupKey {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[connID]
	if !ok {
		return nil
	}
	keys := make([]GroupKey, 0, len(c.groups))
	for k := range c.groups {
		keys = append(keys, k)
	}
	return keys
}

// IsSubscribed reports whether a connection belongs to a group.
func (h *Hub) IsSubscribed(connID string, key GroupKey) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.groups[key][connID]
	return ok
}

// Members returns the connection ids subscribed to a group.
func (h *Hub) Members(key GroupKey) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.groups[key]))
	for id := range h.groups[key] {
		ids = append(ids, id)
	}
	return ids
}

// GroupSize returns the number of connections in a group.
func (h *Hub) GroupSize(key GroupKey) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[key])
}

// ClientCount returns the total number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats reports delivery counters.
func (h *Hub) Stats() (delivered, dropped uint64) {
	return h.delivered.Load(), h.dropped.Load()
}

// Close stops every client and waits for their writers to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	for _, c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

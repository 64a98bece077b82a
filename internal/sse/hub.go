package sse

import (
	"bytes"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message on a client stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`

	// to limits delivery to these user ids; nil means every client
	to []string
}

// Client is one open stream. A user may hold several (phone and browser).
type Client struct {
	ID           string
	UserID       string
	EventChannel chan Event
	types        map[string]struct{} // nil accepts every type
}

func (c *Client) accepts(eventType string) bool {
	if c.types == nil {
		return true
	}
	_, ok := c.types[eventType]
	return ok
}

// Hub fans events out to client streams. Targeted events are routed through a
// per-user index so delivery cost follows the recipients, not the audience.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // by client id
	byUser  map[string]map[string]*Client // user id -> client id -> client

	queue      chan Event
	register   chan *Client
	unregister chan string
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup

	dropped atomic.Int64
	now     func() time.Time
}

// NewHub creates a hub; call Start before registering clients
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		byUser:     make(map[string]map[string]*Client),
		queue:      make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
		now:        time.Now,
	}
}

// Start runs the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the delivery loop and closes every client channel, which ends the
// open streams. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
		}
		h.byUser = make(map[string]map[string]*Client)
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case c := <-h.register:
			h.add(c)
		case id := <-h.unregister:
			h.remove(id)
		case e := <-h.queue:
			h.deliver(e)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[string]*Client)
	}
	h.byUser[c.UserID][c.ID] = c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	close(c.EventChannel)
	delete(h.clients, id)
	if conns := h.byUser[c.UserID]; conns != nil {
		delete(conns, id)
		if len(conns) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

func (h *Hub) deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if e.to == nil {
		for _, c := range h.clients {
			h.offer(c, e)
		}
		return
	}
	for _, userID := range e.to {
		for _, c := range h.byUser[userID] {
			h.offer(c, e)
		}
	}
}

// offer never blocks: a client that stopped reading misses events instead of
// stalling everyone else
func (h *Hub) offer(c *Client, e Event) {
	if !c.accepts(e.Type) {
		return
	}
	select {
	case c.EventChannel <- e:
	default:
		h.dropped.Add(1)
	}
}

// Register opens a stream for userID. eventTypes, when given, narrows it.
func (h *Hub) Register(userID string, eventTypes []string) *Client {
	c := &Client{
		ID:           uuid.NewString(),
		UserID:       userID,
		EventChannel: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			c.types[t] = struct{}{}
		}
	}

	select {
	case h.register <- c:
	case <-h.shutdown:
		close(c.EventChannel)
	}
	return c
}

// Unregister closes a stream
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Send queues an event for every stream of the given users. It reports false
// when the hub queue is full and the event was dropped.
func (h *Hub) Send(userIDs []string, eventType string, payload interface{}) bool {
	to := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		to = append(to, id)
	}
	return h.enqueue(h.newEvent(eventType, payload, to))
}

// Broadcast queues an event for every stream
func (h *Hub) Broadcast(eventType string, payload interface{}) bool {
	return h.enqueue(h.newEvent(eventType, payload, nil))
}

func (h *Hub) newEvent(eventType string, payload interface{}, to []string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
		to:        to,
	}
}

func (h *Hub) enqueue(e Event) bool {
	select {
	case h.queue <- e:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserCount returns the number of users with at least one open stream
func (h *Hub) UserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// FormatSSEMessage renders e in the text/event-stream wire format
func FormatSSEMessage(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + len(e.ID) + len(e.Type) + 24)
	if e.ID != "" {
		buf.WriteString("id: " + e.ID + "\n")
	}
	buf.WriteString("event: " + e.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

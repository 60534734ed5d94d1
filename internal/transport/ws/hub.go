package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub tracks live assessment connections so they can be closed together
type Hub struct {
	conns map[*Connection]struct{}
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	stop       chan struct{}
	stopOnce   sync.Once
}

// Connection is one client socket. Outbound frames are queued on send and
// written by the connection's write loop in order.
type Connection struct {
	ID   string
	send chan frame
	hub  *Hub

	mu      sync.Mutex
	closing bool
	timer   *time.Timer

	done     chan struct{}
	doneOnce sync.Once
}

// frame is either a text message or, when close is set, a close frame
type frame struct {
	data  []byte
	close *closeFrame
}

type closeFrame struct {
	code int
	text string
}

// NewHub creates a new connection hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		stop:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()

		case <-h.stop:
			return
		}
	}
}

func newConnection(id string, hub *Hub) *Connection {
	return &Connection{
		ID:   id,
		send: make(chan frame, 64),
		hub:  hub,
		done: make(chan struct{}),
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.stop:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
	}
}

// Count returns the number of registered connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll sends a close frame to every live connection
func (h *Hub) CloseAll(code int, text string) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close(code, text)
	}
}

// Stop ends the hub loop. Registered connections are left alone.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Send queues a text message. It is dropped once the connection is closing
// or if the queue is full.
func (c *Connection) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return false
	}
	return c.enqueue(frame{data: data})
}

// Close queues a close frame behind any pending messages. Only the first
// call has an effect.
func (c *Connection) Close(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return
	}
	c.closing = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.enqueue(frame{close: &closeFrame{code: code, text: text}})
}

// CloseAfter schedules Close after d
func (c *Connection) CloseAfter(d time.Duration, code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing || c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(d, func() { c.Close(code, text) })
}

// Closing reports whether a close frame has been queued
func (c *Connection) Closing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

// caller holds c.mu
func (c *Connection) enqueue(f frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// finish releases the connection after its read loop has ended
func (c *Connection) finish() {
	c.doneOnce.Do(func() {
		c.mu.Lock()
		c.closing = true
		if c.timer != nil {
			c.timer.Stop()
		}
		c.mu.Unlock()
		close(c.done)
	})
}

func (f frame) closeMessage() []byte {
	return websocket.FormatCloseMessage(f.close.code, f.close.text)
}

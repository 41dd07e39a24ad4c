// Package ws is the real-time transport: a hub of websocket connections
// addressed by opaque handles, and the courier and customer sockets.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"courier-dispatch/internal/logx"
)

// Outbound message types.
const (
	TypeConnected        = "connected"
	TypeDeliveryOffer    = "delivery_offer"
	TypeDeliveryAccepted = "delivery_accepted"
	TypeNoMatch          = "no_match"
	TypeDeliveryStatus   = "delivery_status"
	TypeError            = "error"
)

var (
	// ErrUnknownHandle is returned when no connection is registered under the handle.
	ErrUnknownHandle = errors.New("unknown connection handle")
	// ErrSlowConsumer is returned when the connection write buffer is full.
	ErrSlowConsumer = errors.New("connection write buffer full")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	egressSize     = 32
)

// Envelope is the frame exchanged over every socket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an envelope of the given type.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: typ}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Envelope{Type: typ, Payload: raw}, nil
}

// Conn is one registered websocket connection with its own write buffer.
type Conn struct {
	handle string
	ws     *websocket.Conn
	egress chan []byte
	done   chan struct{}
	once   sync.Once
}

// Handle returns the opaque address of the connection.
func (c *Conn) Handle() string { return c.handle }

func (c *Conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Hub indexes live connections by handle and tracks which handles follow a delivery.
type Hub struct {
	mu        sync.RWMutex
	conns     map[string]*Conn
	followers map[int64]map[string]struct{}
	logger    logx.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger logx.Logger) *Hub {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Hub{
		conns:     make(map[string]*Conn),
		followers: make(map[int64]map[string]struct{}),
		logger:    logger,
	}
}

// Register wraps an upgraded connection and assigns it a fresh handle.
func (h *Hub) Register(ws *websocket.Conn) *Conn {
	c := &Conn{
		handle: uuid.NewString(),
		ws:     ws,
		egress: make(chan []byte, egressSize),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[c.handle] = c
	h.mu.Unlock()
	return c
}

// Unregister removes the connection and all its follows, then closes it.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.handle)
	for id, set := range h.followers {
		delete(set, c.handle)
		if len(set) == 0 {
			delete(h.followers, id)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Follow subscribes the handle to status broadcasts of a delivery.
func (h *Hub) Follow(deliveryID int64, handle string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[handle]; !ok {
		return fmt.Errorf("follow delivery %d: %w", deliveryID, ErrUnknownHandle)
	}
	set, ok := h.followers[deliveryID]
	if !ok {
		set = make(map[string]struct{})
		h.followers[deliveryID] = set
	}
	set[handle] = struct{}{}
	return nil
}

// Followers returns the handles following a delivery, sorted.
func (h *Hub) Followers(deliveryID int64) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.followers[deliveryID]))
	for handle := range h.followers[deliveryID] {
		out = append(out, handle)
	}
	sort.Strings(out)
	return out
}

// Connected reports whether the handle is live.
func (h *Hub) Connected(handle string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[handle]
	return ok
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Send queues a message for the connection without blocking.
func (h *Hub) Send(handle string, typ string, payload any) error {
	h.mu.RLock()
	c, ok := h.conns[handle]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("send %s: %w", typ, ErrUnknownHandle)
	}

	env, err := NewEnvelope(typ, payload)
	if err != nil {
		return err
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	select {
	case <-c.done:
		return fmt.Errorf("send %s: %w", typ, ErrUnknownHandle)
	default:
	}
	select {
	case c.egress <- b:
		return nil
	default:
		h.logger.Warn("ws egress full, dropping message",
			logx.String("handle", handle),
			logx.String("type", typ),
		)
		return fmt.Errorf("send %s: %w", typ, ErrSlowConsumer)
	}
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[string]*Conn)
	h.followers = make(map[int64]map[string]struct{})
	h.mu.Unlock()
	for _, c := range conns {
		c.close()
	}
}

// writePump drains the egress buffer and keeps the connection alive with pings.
func (h *Hub) writePump(c *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.egress:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("ws write failed", logx.String("handle", c.handle), logx.Err(err))
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// readPump delivers inbound envelopes to handle until the peer goes away.
func (h *Hub) readPump(c *Conn, handle func(Envelope)) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Warn("ws read failed", logx.String("handle", c.handle), logx.Err(err))
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			_ = h.Send(c.handle, TypeError, ErrorPayload{Error: "invalid message"})
			continue
		}
		handle(env)
	}
}

// ErrorPayload reports a rejected inbound message.
type ErrorPayload struct {
	Type  string `json:"type,omitempty"`
	Error string `json:"error"`
}

// serve runs the pumps for a registered connection and blocks until it closes.
func (h *Hub) serve(c *Conn, handle func(Envelope)) {
	go h.writePump(c)
	h.readPump(c, handle)
	h.Unregister(c)
}

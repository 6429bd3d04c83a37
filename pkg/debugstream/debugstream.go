// Package debugstream exposes a read-only WebSocket feed of core
// events (frame boundaries, serial output, illegal opcodes) for
// external debugger UIs. EventInterrupt is defined, but the core does
// not publish it. It sits entirely off the hot path: events are
// dropped rather than allowed to block emulation when no client is
// reading fast enough.
package debugstream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/thelolagemann/gomeboycore/internal/log"
)

// Event is one JSON-encodable debug notification.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	EventFrame         = "frame"
	EventSerialOut     = "serial_out"
	EventInterrupt     = "interrupt"
	EventIllegalOpcode = "illegal_opcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans Events out to every connected client. Create one with
// NewHub: the zero value has a nil client map, and Subscribe or
// ServeHTTP on it panics.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan Event)}
}

// ServeHTTP upgrades the connection and streams Events to it until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Default.WithError(err).Warn("debugstream: upgrade failed")
		return
	}

	ch := make(chan Event, 64)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// Subscribe registers conn to receive Events on ch directly, bypassing
// the HTTP upgrade in ServeHTTP. Exposed so callers that already own a
// *websocket.Conn (or a test double) can attach without an HTTP round
// trip; ServeHTTP itself is just Subscribe plus the upgrade handshake.
func (h *Hub) Subscribe(conn *websocket.Conn, ch chan Event) {
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
}

// Publish delivers ev to every connected client, dropping it for any
// client whose outgoing buffer is full instead of blocking the core.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

package debugstream

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToEveryRegisteredClient(t *testing.T) {
	h := NewHub()
	chA := make(chan Event, 1)
	chB := make(chan Event, 1)
	h.Subscribe(new(websocket.Conn), chA)
	h.Subscribe(new(websocket.Conn), chB)

	h.Publish(Event{Type: EventFrame})

	assert.Equal(t, EventFrame, (<-chA).Type)
	assert.Equal(t, EventFrame, (<-chB).Type)
}

func TestPublishDropsRatherThanBlocksWhenClientBufferIsFull(t *testing.T) {
	h := NewHub()
	ch := make(chan Event, 1)
	h.Subscribe(new(websocket.Conn), ch)

	h.Publish(Event{Type: EventFrame})     // fills the buffer
	h.Publish(Event{Type: EventInterrupt}) // must not block; dropped

	assert.Len(t, ch, 1)
	assert.Equal(t, EventFrame, (<-ch).Type, "the dropped event never displaces the buffered one")
}

func TestPublishWithNoClientsIsANoOp(t *testing.T) {
	h := NewHub()
	h.Publish(Event{Type: EventIllegalOpcode, Data: uint8(0xFD)})
}

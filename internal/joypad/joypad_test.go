package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thelolagemann/gomeboycore/internal/interrupts"
)

func TestDirectionSelection(t *testing.T) {
	irq := interrupts.New()
	s := New(irq)
	s.Set(Right | Down)

	s.Write(0x10) // bit4 set, bit5 clear: direction buttons selected, action deselected
	v := s.Read()
	assert.Equal(t, uint8(0), v&0x01, "Right should read as pressed (bit clear)")
	assert.Equal(t, uint8(0), v&0x08, "Down should read as pressed (bit clear)")
	assert.NotEqual(t, uint8(0), v&0x02, "Left should read as released")
}

func TestActionSelection(t *testing.T) {
	irq := interrupts.New()
	s := New(irq)
	s.Set(A | Start)

	s.Write(0x20) // bit5 set, bit4 clear: action buttons selected
	v := s.Read()
	assert.Equal(t, uint8(0), v&0x01, "A should read as pressed")
	assert.Equal(t, uint8(0), v&0x08, "Start should read as pressed")
}

func TestSetRequestsInterruptOnNewPress(t *testing.T) {
	irq := interrupts.New()
	irq.WriteEnable(0xFF)
	s := New(irq)
	s.Write(0x10) // direction buttons selected

	s.Set(Right)
	assert.True(t, irq.AnyRequested())
}

func TestSetDoesNotReRequestForHeldButtons(t *testing.T) {
	irq := interrupts.New()
	irq.WriteEnable(0xFF)
	s := New(irq)
	s.Write(0x10)

	s.Set(Right)
	irq.Acknowledge(interrupts.Joypad)
	s.Set(Right) // no new presses
	assert.False(t, irq.AnyRequested())
}

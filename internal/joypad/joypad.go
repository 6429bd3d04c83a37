// Package joypad emulates the Game Boy's 2x4 button matrix, exposed
// to the CPU through a single register at 0xFF00.
package joypad

import "github.com/thelolagemann/gomeboycore/internal/interrupts"

// Button identifies a physical button. The bit positions match the
// matrix layout: the low nibble is the direction pad, the high nibble
// the action buttons, so a single byte of "currently held" state can
// be masked directly against the selected half of Register.
type Button = uint8

const (
	Right  Button = 1 << 0
	Left   Button = 1 << 1
	Up     Button = 1 << 2
	Down   Button = 1 << 3
	A      Button = 1 << 4
	B      Button = 1 << 5
	Select Button = 1 << 6
	Start  Button = 1 << 7
)

// State holds the joypad register and the live button state.
type State struct {
	register uint8 // bits 4-5 select which half is exposed
	held     uint8

	irq *interrupts.Controller
}

// New returns a State wired to irq.
func New(irq *interrupts.Controller) *State {
	return &State{register: 0xFF, irq: irq}
}

// Read returns the current value of 0xFF00: bits 6-7 always 1,
// selected inputs readable on bits 0-3 (0 = pressed).
func (s *State) Read() uint8 {
	v := s.register | 0xC0
	if s.register&0x10 == 0 { // action buttons selected
		v &^= (s.held >> 4) & 0x0F
	}
	if s.register&0x20 == 0 { // direction buttons selected
		v &^= s.held & 0x0F
	}
	if s.register&0x30 == 0x30 {
		v |= 0x0F
	}
	return v
}

// Write updates the selection bits (4-5); the rest of the register is
// read-only from the CPU's perspective.
func (s *State) Write(v uint8) {
	s.register = (s.register &^ 0x30) | (v & 0x30)
}

// Set applies a new held-button bitmask, requesting a Joypad
// interrupt if any newly pressed, currently-selected button goes from
// released to pressed.
func (s *State) Set(held uint8) {
	pressed := held &^ s.held
	s.held = held
	if pressed == 0 {
		return
	}
	selected := uint8(0)
	if s.register&0x10 == 0 {
		selected |= pressed & 0xF0
	}
	if s.register&0x20 == 0 {
		selected |= pressed & 0x0F
	}
	if selected != 0 {
		s.irq.Request(interrupts.Joypad)
	}
}

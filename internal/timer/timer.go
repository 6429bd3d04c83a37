// Package timer implements the Game Boy's DIV/TIMA/TMA/TAC timer: a
// free-running 16-bit divider whose upper byte is exposed as DIV, and
// a separately clocked TIMA counter that requests the Timer interrupt
// on overflow.
package timer

import "github.com/thelolagemann/gomeboycore/internal/interrupts"

// timaBit selects which bit of the 16-bit divider, when it falls on a
// 1-to-0 transition, clocks TIMA. Index is TAC bits 0-1.
var timaBit = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7} // 4096, 262144, 65536, 16384 Hz

// Controller is the timer/divider unit.
type Controller struct {
	divider uint16 // free-running; DIV = divider >> 8

	tima uint8
	tma  uint8
	tac  uint8 // bits 0-1 select rate, bit 2 enables TIMA

	irq *interrupts.Controller

	// overflow reload is delayed by 4 T-cycles per real hardware: the
	// cycle after TIMA wraps to 0 it still reads as 0, and only on the
	// following cycle is it reloaded from TMA and the interrupt raised.
	overflowPending bool
	overflowDelay   uint8
}

// New returns a Controller wired to irq.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, divider: 0xABCC}
}

func (t *Controller) enabled() bool { return t.tac&0x04 != 0 }

// Tick advances the timer by one T-cycle.
func (t *Controller) Tick() {
	prevBit := t.enabled() && t.divider&timaBit[t.tac&0x03] != 0
	t.divider++
	if t.overflowPending {
		t.overflowDelay--
		if t.overflowDelay == 0 {
			t.overflowPending = false
			t.tima = t.tma
			t.irq.Request(interrupts.Timer)
		}
	}
	newBit := t.enabled() && t.divider&timaBit[t.tac&0x03] != 0
	if prevBit && !newBit {
		t.incrementTIMA()
	}
}

func (t *Controller) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		t.overflowPending = true
		t.overflowDelay = 4
	}
}

// ReadDIV returns the upper 8 bits of the divider.
func (t *Controller) ReadDIV() uint8 { return uint8(t.divider >> 8) }

// WriteDIV resets the whole 16-bit divider, regardless of the value
// written. If the falling edge this produces would have clocked TIMA,
// TIMA is incremented immediately (the well-known DIV-write glitch).
func (t *Controller) WriteDIV(uint8) {
	prevBit := t.enabled() && t.divider&timaBit[t.tac&0x03] != 0
	t.divider = 0
	if prevBit {
		t.incrementTIMA()
	}
}

// ReadTIMA returns TIMA.
func (t *Controller) ReadTIMA() uint8 { return t.tima }

// WriteTIMA writes TIMA. A write during the reload-delay window
// cancels the pending reload.
func (t *Controller) WriteTIMA(v uint8) {
	t.tima = v
	t.overflowPending = false
}

// ReadTMA returns TMA.
func (t *Controller) ReadTMA() uint8 { return t.tma }

// WriteTMA writes TMA.
func (t *Controller) WriteTMA(v uint8) { t.tma = v }

// ReadTAC returns TAC with its unused upper 5 bits forced to 1.
func (t *Controller) ReadTAC() uint8 { return t.tac&0x07 | 0xF8 }

// WriteTAC writes TAC (only the low 3 bits are meaningful).
func (t *Controller) WriteTAC(v uint8) { t.tac = v & 0x07 }

// Package input defines the host-facing button input contract. The
// core polls it once per frame; concrete keyboard/gamepad backends
// are entirely the host's concern.
package input

import "github.com/thelolagemann/gomeboycore/internal/joypad"

// Source reports the currently held buttons as a bitmask (see
// joypad.Button). Implementations are polled, never pushed: the
// scheduler calls Poll once per frame and forwards the result to the
// joypad controller.
type Source interface {
	Poll() uint8
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() uint8

func (f SourceFunc) Poll() uint8 { return f() }

// Static is a Source that always reports the same fixed mask; useful
// for headless test-ROM runs that don't drive input at all.
type Static uint8

func (s Static) Poll() uint8 { return uint8(s) }

// None is the Static source reporting no buttons held.
const None Static = 0

var _ Source = None

// Buttons re-exports the joypad package's button bit constants so
// hosts need only import pkg/input.
const (
	Right  = joypad.Right
	Left   = joypad.Left
	Up     = joypad.Up
	Down   = joypad.Down
	A      = joypad.A
	B      = joypad.B
	Select = joypad.Select
	Start  = joypad.Start
)

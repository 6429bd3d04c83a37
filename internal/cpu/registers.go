// Package cpu implements the Sharp LR35902: register file, flag
// logic, the full unprefixed and CB-prefixed opcode tables, interrupt
// dispatch, and HALT/STOP handling.
package cpu

// Flag bit positions within F, the low nibble of which is always zero.
const (
	FlagZ = 1 << 7
	FlagN = 1 << 6
	FlagH = 1 << 5
	FlagC = 1 << 4
)

// Registers holds the eight 8-bit registers (addressed individually or
// as the four 16-bit pairs AF/BC/DE/HL), the stack pointer and program
// counter.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP, PC uint16
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) { r.A = uint8(v >> 8); r.F = uint8(v) & 0xF0 }
func (r *Registers) SetBC(v uint16) { r.B = uint8(v >> 8); r.C = uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D = uint8(v >> 8); r.E = uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H = uint8(v >> 8); r.L = uint8(v) }

func (r *Registers) flag(mask uint8) bool { return r.F&mask != 0 }

func (r *Registers) setFlag(mask uint8, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

func (r *Registers) Zero() bool      { return r.flag(FlagZ) }
func (r *Registers) Subtract() bool  { return r.flag(FlagN) }
func (r *Registers) HalfCarry() bool { return r.flag(FlagH) }
func (r *Registers) Carry() bool     { return r.flag(FlagC) }

func (r *Registers) setFlags(z, n, h, c bool) {
	r.setFlag(FlagZ, z)
	r.setFlag(FlagN, n)
	r.setFlag(FlagH, h)
	r.setFlag(FlagC, c)
}

// Package serial captures the byte stream written through SB/SC. Real
// link-cable peer communication is out of scope; this models only the
// transfer-complete timing that test ROMs (Blargg, Mooneye) rely on to
// report results.
package serial

import "github.com/thelolagemann/gomeboycore/internal/interrupts"

const ticksPerBit = 512 // 8192 Hz internal clock, 1 bit per 512 T-cycles

// Controller models SB (0xFF01) / SC (0xFF02).
type Controller struct {
	sb uint8
	sc uint8

	transferring bool
	bitsLeft     uint8
	counter      uint16

	irq *interrupts.Controller

	// Captured accumulates every byte that completes a transfer, in
	// order. The out-of-scope host reads this to print test-ROM
	// output; the core never interprets it.
	Captured []byte

	// OnByte, if set, is called with each byte as it completes a
	// transfer. Optional hook for a host debugger; Captured already
	// holds the same data for polling consumers.
	OnByte func(b uint8)
}

// New returns a Controller wired to irq.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq}
}

// ReadSB returns SB.
func (c *Controller) ReadSB() uint8 { return c.sb }

// WriteSB writes SB.
func (c *Controller) WriteSB(v uint8) { c.sb = v }

// ReadSC returns SC with unused bits forced to 1.
func (c *Controller) ReadSC() uint8 {
	v := c.sc & 0x81
	return v | 0x7E
}

// WriteSC starts a transfer when bit 7 (and the internal-clock bit 0)
// are set.
func (c *Controller) WriteSC(v uint8) {
	c.sc = v & 0x81
	if c.sc&0x81 == 0x81 && !c.transferring {
		c.transferring = true
		c.bitsLeft = 8
		c.counter = 0
	}
}

// Tick advances the serial clock by one T-cycle.
func (c *Controller) Tick() {
	if !c.transferring {
		return
	}
	c.counter++
	if c.counter >= ticksPerBit {
		c.counter = 0
		// no peer is attached, so the incoming bit is always 1; SB
		// keeps the byte the cartridge wrote so test-ROM output
		// (Blargg/Mooneye, which send one ASCII byte per transfer)
		// stays readable by the out-of-scope host.
		c.bitsLeft--
		if c.bitsLeft == 0 {
			c.transferring = false
			c.sc &^= 0x80
			c.Captured = append(c.Captured, c.sb)
			c.irq.Request(interrupts.Serial)
			if c.OnByte != nil {
				c.OnByte(c.sb)
			}
		}
	}
}

package cpu

import "github.com/thelolagemann/gomeboycore/internal/interrupts"

// MemBus is the minimal interface the CPU needs from the System Bus.
type MemBus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, v uint8)
}

// CPU is the Sharp LR35902 core.
type CPU struct {
	Reg Registers
	bus MemBus
	irq *interrupts.Controller

	halted   bool
	haltBug  bool
	stopped  bool

	// doubleSpeed is set by the CGB KEY1 switch; the scheduler reads it
	// to decide how many wall-clock T-cycles one CPU T-cycle consumes.
	doubleSpeed      bool
	speedSwitchArmed bool
	cgb              bool

	// cycles accumulates the T-cycles spent by the instruction/dispatch
	// currently being executed; Step returns and resets it.
	cycles int

	// pendingEI tracks EI's one-instruction delay: IME is set only
	// after the instruction following EI finishes executing.
	pendingEI bool

	// OnIllegalOpcode, if set, is called with the raw opcode byte any
	// time execute() hits one of the undefined Sharp LR35902 opcodes.
	// Optional hook for a host debugger; the core itself just treats
	// the opcode as a one-cycle no-op either way.
	OnIllegalOpcode func(op uint8)
}

// New returns a CPU wired to bus and irq, with the post-boot-ROM
// register state (boot-ROM execution itself is out of scope: the core
// starts directly in the state the real boot ROM leaves behind).
func New(bus MemBus, irq *interrupts.Controller, cgb bool) *CPU {
	c := &CPU{bus: bus, irq: irq, cgb: cgb}
	c.Reg.SetAF(0x01B0)
	if cgb {
		c.Reg.A = 0x11
	}
	c.Reg.SetBC(0x0013)
	c.Reg.SetDE(0x00D8)
	c.Reg.SetHL(0x014D)
	c.Reg.SP = 0xFFFE
	c.Reg.PC = 0x0100
	return c
}

// DoubleSpeed reports whether the CGB double-speed mode is active.
func (c *CPU) DoubleSpeed() bool { return c.doubleSpeed }

// ReadKEY1 returns the CGB speed-switch register (0xFF4D): bit 7 is
// the current speed, bit 0 the armed-for-switch-on-STOP flag.
func (c *CPU) ReadKEY1() uint8 {
	v := uint8(0x7E)
	if c.doubleSpeed {
		v |= 0x80
	}
	if c.speedSwitchArmed {
		v |= 0x01
	}
	return v
}

// WriteKEY1 arms (or disarms) the speed switch; it takes effect the
// next time a STOP instruction executes.
func (c *CPU) WriteKEY1(v uint8) {
	if !c.cgb {
		return
	}
	c.speedSwitchArmed = v&0x01 != 0
}

// Step executes one instruction (first servicing any pending
// interrupt), returning the number of T-cycles consumed.
func (c *CPU) Step() int {
	c.cycles = 0

	if serviced := c.serviceInterrupt(); serviced {
		return c.cycles
	}

	if c.stopped {
		// STOP exits only when a button press occurs (joypad logic
		// raises the Joypad IF bit even with IME/IE masked out); until
		// then the CPU fetches nothing.
		if c.irq.ReadFlag()&(1<<uint8(interrupts.Joypad)) != 0 {
			c.stopped = false
		} else {
			c.cycles = 4
			return c.cycles
		}
	}

	if c.halted {
		if c.irq.AnyRequested() {
			c.halted = false
		} else {
			c.cycles = 4
			return c.cycles
		}
	}

	wasEnabling := c.pendingEI
	opcode := c.fetch8()
	if c.haltBug {
		// the halt bug replays the byte after PC without advancing it
		c.Reg.PC--
		c.haltBug = false
	}
	c.execute(opcode)
	if wasEnabling {
		c.irq.IME = true
		c.pendingEI = false
	}

	return c.cycles
}

func (c *CPU) serviceInterrupt() bool {
	if c.pendingEI && !c.irq.IME {
		// EI's one-instruction delay: IME takes effect only after the
		// instruction following EI has executed, so no dispatch yet.
		return false
	}
	if !c.irq.IME {
		return false
	}
	line, ok := c.irq.Pending()
	if !ok {
		return false
	}
	c.halted = false
	c.irq.IME = false
	c.irq.Acknowledge(line)
	c.tick(8)
	c.push16(c.Reg.PC)
	c.Reg.PC = line.Vector()
	c.tick(4)
	return true
}

// tick accounts for T-cycles spent by the instruction currently
// executing; the scheduler advances every other component by the same
// amount immediately after Step returns, so sub-instruction component
// interleaving is out of scope.
func (c *CPU) tick(t int) { c.cycles += t }

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read8(c.Reg.PC)
	c.Reg.PC++
	c.tick(4)
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read8(addr uint16) uint8 {
	v := c.bus.Read8(addr)
	c.tick(4)
	return v
}

func (c *CPU) write8(addr uint16, v uint8) {
	c.bus.Write8(addr, v)
	c.tick(4)
}

func (c *CPU) push16(v uint16) {
	c.Reg.SP--
	c.write8(c.Reg.SP, uint8(v>>8))
	c.Reg.SP--
	c.write8(c.Reg.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.read8(c.Reg.SP)
	c.Reg.SP++
	hi := c.read8(c.Reg.SP)
	c.Reg.SP++
	return uint16(hi)<<8 | uint16(lo)
}

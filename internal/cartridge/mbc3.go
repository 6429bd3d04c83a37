package cartridge

// mbc3 implements a 7-bit ROM bank, a RAM bank (0-3) that shares its
// select register with the RTC register index (0x08-0x0C), and the
// latch-on-0-then-1 sequence that freezes a readable RTC snapshot.
type mbc3 struct {
	rom []byte
	ram []byte

	romBanks int

	ramEnable bool
	romBank   uint8
	bankSel   uint8 // 0-3 = RAM bank, 0x08-0x0C = RTC register

	hasRTC     bool
	clock      rtc
	latchPhase uint8 // tracks the 0x00-then-0x01 latch write sequence
}

func newMBC3(rom []byte, ramSize int, hasRTC bool) *mbc3 {
	return &mbc3{
		rom:      rom,
		ram:      make([]byte, ramSize),
		romBanks: len(rom) / 0x4000,
		romBank:  1,
		hasRTC:   hasRTC,
	}
}

func (m *mbc3) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom[addr]
	case addr < 0x8000:
		bank := int(m.romBank) % m.romBanks
		return m.rom[bank*0x4000+int(addr-0x4000)]
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnable {
			return 0xFF
		}
		if m.hasRTC && m.bankSel >= 0x08 && m.bankSel <= 0x0C {
			return m.clock.readLatched(m.bankSel - 0x08)
		}
		if m.bankSel <= 0x03 && len(m.ram) > 0 {
			off := int(m.bankSel)*0x2000 + int(addr-0xA000)
			return m.ram[off%len(m.ram)]
		}
		return 0xFF
	}
	return 0xFF
}

func (m *mbc3) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case addr < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case addr < 0x6000:
		m.bankSel = value
	case addr < 0x8000:
		if value == 0x00 {
			m.latchPhase = 1
		} else if value == 0x01 && m.latchPhase == 1 {
			m.clock.latch()
			m.latchPhase = 0
		} else {
			m.latchPhase = 0
		}
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnable {
			return
		}
		if m.hasRTC && m.bankSel >= 0x08 && m.bankSel <= 0x0C {
			m.clock.writeLive(m.bankSel-0x08, value)
			return
		}
		if m.bankSel <= 0x03 && len(m.ram) > 0 {
			off := int(m.bankSel)*0x2000 + int(addr-0xA000)
			m.ram[off%len(m.ram)] = value
		}
	}
}

func (m *mbc3) RAM() []byte        { return m.ram }
func (m *mbc3) SetRAM(data []byte) { copy(m.ram, data) }

// Tick advances the RTC, when present, by one second.
func (m *mbc3) Tick() {
	if m.hasRTC {
		m.clock.Tick()
	}
}

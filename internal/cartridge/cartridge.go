// Package cartridge owns the ROM image and any battery-backed
// external RAM, and applies the memory-bank-controller rules that map
// CPU addresses 0x0000-0x7FFF and 0xA000-0xBFFF onto ROM/RAM banks.
package cartridge

import (
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gomeboycore/internal/coreerr"
)

// Cartridge wraps a parsed Header and the MBC instance selected for
// its cartridge type.
type Cartridge struct {
	header Header
	mbc    MBC
	hash   uint64
}

// Load parses rom's header, validates it, and constructs the
// appropriate MBC. It returns a *coreerr.Error (Kind InvalidROM) on
// any validation failure; no partial Cartridge is returned in that case.
func Load(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, coreerr.New(coreerr.InvalidROM, "%v", err)
	}

	var mbc MBC
	switch header.Type {
	case ROMOnly:
		mbc = newNoMBC(rom, header.RAMSize)
	case MBC1, MBC1RAM, MBC1RAMBattery:
		mbc = newMBC1(rom, header.RAMSize)
	case MBC2, MBC2Battery:
		mbc = newMBC2(rom)
	case MBC3, MBC3RAM, MBC3RAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt:
		mbc = newMBC3(rom, header.RAMSize, header.HasTimer())
	case MBC5, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		mbc = newMBC5(rom, header.RAMSize)
	default:
		return nil, coreerr.New(coreerr.InvalidROM, "unsupported cartridge type 0x%02X", uint8(header.Type))
	}

	return &Cartridge{
		header: header,
		mbc:    mbc,
		hash:   xxhash.Sum64(rom),
	}, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header { return c.header }

// Hash is an xxhash64 digest of the whole ROM image, used for log
// correlation and as a stable cartridge identity independent of the
// header's own (often-duplicated) title field.
func (c *Cartridge) Hash() uint64 { return c.hash }

// Read dispatches a ROM-space (0x0000-0x7FFF) or external-RAM-space
// (0xA000-0xBFFF) read to the MBC.
func (c *Cartridge) Read(addr uint16) uint8 { return c.mbc.Read(addr) }

// Write dispatches a control-register or external-RAM write to the MBC.
func (c *Cartridge) Write(addr uint16, value uint8) { c.mbc.Write(addr, value) }

// TickRTC advances the MBC3 real-time clock (a no-op for every other
// MBC, and for MBC3 cartridges without a timer) by one second.
func (c *Cartridge) TickRTC() {
	if m3, ok := c.mbc.(*mbc3); ok {
		m3.Tick()
	}
}

// GetRAM returns the cartridge's external RAM for persistence. It is
// nil for cartridges with no RAM.
func (c *Cartridge) GetRAM() []byte {
	return c.mbc.RAM()
}

// SetRAM installs previously persisted RAM. It returns a
// *coreerr.Error (Kind PersistenceMismatch) if data's length does not
// match the cartridge's declared RAM size; the host may retry with a
// corrected buffer.
func (c *Cartridge) SetRAM(data []byte) error {
	want := len(c.mbc.RAM())
	if len(data) != want {
		return coreerr.New(coreerr.PersistenceMismatch, "cartridge declares %d bytes of RAM, got %d", want, len(data))
	}
	c.mbc.SetRAM(data)
	return nil
}

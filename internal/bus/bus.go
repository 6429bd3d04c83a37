// Package bus implements the Game Boy's 16-bit System Bus: the
// single memory-map decoder every other component reads and writes
// through, including the OAM-DMA access restriction and CGB's WRAM
// bank switching.
package bus

import (
	"github.com/thelolagemann/gomeboycore/internal/apu"
	"github.com/thelolagemann/gomeboycore/internal/cartridge"
	"github.com/thelolagemann/gomeboycore/internal/dma"
	"github.com/thelolagemann/gomeboycore/internal/interrupts"
	"github.com/thelolagemann/gomeboycore/internal/joypad"
	"github.com/thelolagemann/gomeboycore/internal/serial"
	"github.com/thelolagemann/gomeboycore/internal/timer"
	"github.com/thelolagemann/gomeboycore/internal/video"
)

// Bus ties every addressable component together behind a single
// Read8/Write8 pair. It holds no cycle-timing state of its own — the
// scheduler in internal/gameboy drives each component's Tick.
type Bus struct {
	Cart *cartridge.Cartridge
	PPU  *video.PPU
	APU  *apu.APU
	IRQ  *interrupts.Controller
	Timer *timer.Controller
	Pad   *joypad.State
	Serial *serial.Controller
	OAMDMA *dma.OAM
	HDMA   *dma.HDMA

	// Speed, when non-nil, backs the CGB KEY1 register (0xFF4D). The
	// scheduler wires the CPU in after both are constructed, since the
	// CPU itself depends on the Bus.
	Speed SpeedSwitch

	wram *wram
	hram [0x7F]byte
}

// SpeedSwitch is implemented by the CPU for the CGB KEY1 register.
type SpeedSwitch interface {
	ReadKEY1() uint8
	WriteKEY1(v uint8)
}

// New returns a Bus with the given components already constructed and
// wired to each other (the caller is responsible for constructing
// them in dependency order — interrupts first, then everything that
// requests them).
func New(cart *cartridge.Cartridge, ppu *video.PPU, a *apu.APU, irq *interrupts.Controller,
	tm *timer.Controller, pad *joypad.State, ser *serial.Controller,
	oamDMA *dma.OAM, hdma *dma.HDMA, cgb bool) *Bus {
	return &Bus{
		Cart: cart, PPU: ppu, APU: a, IRQ: irq, Timer: tm, Pad: pad,
		Serial: ser, OAMDMA: oamDMA, HDMA: hdma,
		wram: newWRAM(cgb),
	}
}

// Read8 reads one byte from the full 16-bit address space, honoring
// the OAM-DMA access restriction (only HRAM is reachable from the CPU
// while a transfer is active).
func (b *Bus) Read8(addr uint16) uint8 {
	if b.OAMDMA.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return 0xFF
	}
	return b.read(addr)
}

// Write8 writes one byte, honoring the same OAM-DMA restriction as Read8.
func (b *Bus) Write8(addr uint16, v uint8) {
	if b.OAMDMA.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return
	}
	b.write(addr, v)
}

// ReadForDMA bypasses the OAM-DMA restriction entirely; it is the
// source read DMA itself uses (and echoed through to HDMA), since both
// DMA engines read the same address space the CPU would, not the
// physical OAM/VRAM arrays directly.
func (b *Bus) ReadForDMA(addr uint16) uint8 { return b.read(addr) }

func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xCFFF:
		return b.wram.readLow(addr - 0xC000)
	case addr <= 0xDFFF:
		return b.wram.readHigh(addr - 0xD000)
	case addr <= 0xEFFF:
		return b.wram.readLow(addr - 0xE000)
	case addr <= 0xFDFF:
		return b.wram.readHigh(addr - 0xF000)
	case addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr <= 0xFF7F:
		return b.readIO(addr)
	case addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		return b.IRQ.ReadEnable()
	}
}

func (b *Bus) write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.Write(addr, v)
	case addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, v)
	case addr <= 0xBFFF:
		b.Cart.Write(addr, v)
	case addr <= 0xCFFF:
		b.wram.writeLow(addr-0xC000, v)
	case addr <= 0xDFFF:
		b.wram.writeHigh(addr-0xD000, v)
	case addr <= 0xEFFF:
		b.wram.writeLow(addr-0xE000, v)
	case addr <= 0xFDFF:
		b.wram.writeHigh(addr-0xF000, v)
	case addr <= 0xFE9F:
		b.PPU.WriteOAM(addr, v)
	case addr <= 0xFEFF:
		// prohibited region: writes dropped
	case addr <= 0xFF7F:
		b.writeIO(addr, v)
	case addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	default: // 0xFFFF
		b.IRQ.WriteEnable(v)
	}
}

const (
	ioJOYP = 0xFF00
	ioSB   = 0xFF01
	ioSC   = 0xFF02
	ioDIV  = 0xFF04
	ioTIMA = 0xFF05
	ioTMA  = 0xFF06
	ioTAC  = 0xFF07
	ioIF   = 0xFF0F
	ioDMA  = 0xFF46
	ioSVBK = 0xFF70
	ioHDMA1 = 0xFF51
	ioHDMA2 = 0xFF52
	ioHDMA3 = 0xFF53
	ioHDMA4 = 0xFF54
	ioHDMA5 = 0xFF55
)

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == ioJOYP:
		return b.Pad.Read()
	case addr == ioSB:
		return b.Serial.ReadSB()
	case addr == ioSC:
		return b.Serial.ReadSC()
	case addr == ioDIV:
		return b.Timer.ReadDIV()
	case addr == ioTIMA:
		return b.Timer.ReadTIMA()
	case addr == ioTMA:
		return b.Timer.ReadTMA()
	case addr == ioTAC:
		return b.Timer.ReadTAC()
	case addr == ioIF:
		return b.IRQ.ReadFlag()
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.Read(uint8(addr - 0xFF00))
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.PPU.ReadReg(addr)
	case addr == ioHDMA5:
		return b.HDMA.ReadHDMA5()
	case addr == 0xFF4F:
		return b.PPU.ReadReg(addr)
	case addr == ioSVBK:
		return b.wram.readSVBK()
	case addr >= 0xFF68 && addr <= 0xFF6C:
		return b.PPU.ReadReg(addr)
	case addr == 0xFF4D:
		if b.Speed != nil {
			return b.Speed.ReadKEY1()
		}
	}
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == ioJOYP:
		b.Pad.Write(v)
	case addr == ioSB:
		b.Serial.WriteSB(v)
	case addr == ioSC:
		b.Serial.WriteSC(v)
	case addr == ioDIV:
		b.Timer.WriteDIV(v)
	case addr == ioTIMA:
		b.Timer.WriteTIMA(v)
	case addr == ioTMA:
		b.Timer.WriteTMA(v)
	case addr == ioTAC:
		b.Timer.WriteTAC(v)
	case addr == ioIF:
		b.IRQ.WriteFlag(v)
	case addr == ioDMA:
		b.OAMDMA.Start(v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.Write(uint8(addr-0xFF00), v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.WriteReg(addr, v)
	case addr == 0xFF4F:
		b.PPU.WriteReg(addr, v)
		b.HDMA.SetVRAMBank(v & 1)
	case addr == ioHDMA1:
		b.HDMA.WriteSourceHi(v)
	case addr == ioHDMA2:
		b.HDMA.WriteSourceLo(v)
	case addr == ioHDMA3:
		b.HDMA.WriteDestHi(v)
	case addr == ioHDMA4:
		b.HDMA.WriteDestLo(v)
	case addr == ioHDMA5:
		b.HDMA.WriteHDMA5(v)
	case addr == ioSVBK:
		b.wram.writeSVBK(v)
	case addr >= 0xFF68 && addr <= 0xFF6C:
		b.PPU.WriteReg(addr, v)
	case addr == 0xFF4D:
		if b.Speed != nil {
			b.Speed.WriteKEY1(v)
		}
	}
}

package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	mem [0x10000]byte
}

func (f *fakeBus) ReadForDMA(addr uint16) uint8 { return f.mem[addr] }

type fakeOAM struct {
	bytes [160]byte
}

func (f *fakeOAM) WriteOAMRaw(index uint8, v uint8) { f.bytes[index] = v }

type fakeVRAM struct {
	banks [2][0x2000]byte
}

func (f *fakeVRAM) WriteVRAMBank(bank uint8, addr uint16, v uint8) { f.banks[bank&1][addr] = v }

func TestOAMDMATransfersAllBytesOverTransferLengthCycles(t *testing.T) {
	bus := &fakeBus{}
	for i := 0; i < transferLength; i++ {
		bus.mem[0xC000+i] = byte(i)
	}
	oamWriter := &fakeOAM{}
	d := NewOAM(bus, oamWriter)

	d.Start(0xC0) // source = 0xC000
	assert.True(t, d.Active())

	for i := 0; i < transferLength; i++ {
		assert.True(t, d.Active(), "still active before the final machine cycle")
		d.TickMachineCycle()
	}
	assert.False(t, d.Active(), "transfer completes after exactly transferLength machine cycles")

	for i := 0; i < transferLength; i++ {
		assert.Equal(t, byte(i), oamWriter.bytes[i])
	}
}

func TestOAMDMATickWhileInactiveIsNoOp(t *testing.T) {
	bus := &fakeBus{}
	oamWriter := &fakeOAM{}
	d := NewOAM(bus, oamWriter)
	d.TickMachineCycle() // no Start() called
	assert.False(t, d.Active())
}

func TestOAMDMARestartMidTransfer(t *testing.T) {
	bus := &fakeBus{}
	oamWriter := &fakeOAM{}
	d := NewOAM(bus, oamWriter)
	d.Start(0x00)
	for i := 0; i < 50; i++ {
		d.TickMachineCycle()
	}
	d.Start(0x80) // restart from a new source before completion
	assert.Equal(t, uint16(0x8000), d.src)
	assert.Equal(t, uint8(0), d.pos)
}

func TestHDMAGeneralPurposeTransferIsBlockingAndSynchronous(t *testing.T) {
	bus := &fakeBus{}
	for i := 0; i < 32; i++ {
		bus.mem[0x4000+i] = byte(0x10 + i)
	}
	vram := &fakeVRAM{}
	h := NewHDMA(bus, vram)

	h.WriteSourceHi(0x40)
	h.WriteSourceLo(0x00)
	h.WriteDestHi(0x00)
	h.WriteDestLo(0x00)
	h.WriteHDMA5(0x01) // bit7 clear: general-purpose, length = (1+1)*16 = 32 bytes

	assert.False(t, h.Active(), "general-purpose transfers complete before WriteHDMA5 returns")
	for i := 0; i < 32; i++ {
		assert.Equal(t, byte(0x10+i), vram.banks[0][i])
	}
}

func TestHDMAHBlankTransferCopiesOneBlockPerHBlank(t *testing.T) {
	bus := &fakeBus{}
	for i := 0; i < 64; i++ {
		bus.mem[0x5000+i] = byte(i)
	}
	vram := &fakeVRAM{}
	h := NewHDMA(bus, vram)

	h.WriteSourceHi(0x50)
	h.WriteSourceLo(0x00)
	h.WriteDestHi(0x00)
	h.WriteDestLo(0x00)
	h.WriteHDMA5(0x83) // bit7 set: H-Blank mode, length = (3+1)*16 = 64 bytes

	assert.True(t, h.Active())
	h.OnHBlank()
	assert.True(t, h.Active(), "3 of 4 16-byte blocks remain")
	assert.Equal(t, byte(15), vram.banks[0][15])
	assert.Equal(t, byte(0), vram.banks[0][16], "the second block hasn't been copied yet")

	h.OnHBlank()
	h.OnHBlank()
	h.OnHBlank()
	assert.False(t, h.Active(), "transfer completes after its fourth block")
	assert.Equal(t, byte(63), vram.banks[0][63])
}

func TestHDMAWriteHDMA5CancelsActiveHBlankTransfer(t *testing.T) {
	bus := &fakeBus{}
	vram := &fakeVRAM{}
	h := NewHDMA(bus, vram)
	h.WriteHDMA5(0x81) // start an H-Blank transfer (length 32)
	assert.True(t, h.Active())

	h.WriteHDMA5(0x00) // bit7 clear while active: cancel
	assert.False(t, h.Active())
}

func TestHDMAReadHDMA5ReflectsRemainingBlocks(t *testing.T) {
	bus := &fakeBus{}
	vram := &fakeVRAM{}
	h := NewHDMA(bus, vram)
	assert.Equal(t, uint8(0xFF), h.ReadHDMA5(), "inactive reads as 0xFF")

	h.WriteHDMA5(0x81) // H-Blank, length 32 (2 blocks)
	assert.Equal(t, uint8(1), h.ReadHDMA5(), "2 blocks remaining encodes as 1 (blocks-1)")
}

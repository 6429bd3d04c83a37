package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thelolagemann/gomeboycore/internal/interrupts"
)

func newTestPPU() *PPU {
	irq := interrupts.New()
	irq.WriteEnable(0xFF)
	p := New(irq, false)
	p.WriteReg(regLCDC, 0x80) // LCD on, otherwise Tick is a no-op
	return p
}

func TestModeTimingWithinScanline(t *testing.T) {
	p := newTestPPU()
	assert.Equal(t, OAMScan, p.CurrentMode())

	for i := 0; i < oamScanDots; i++ {
		p.Tick()
	}
	assert.Equal(t, Drawing, p.CurrentMode())

	for i := 0; i < drawingDots; i++ {
		p.Tick()
	}
	assert.Equal(t, HBlank, p.CurrentMode())

	for i := 0; i < dotsPerLine-hblankStart; i++ {
		p.Tick()
	}
	assert.Equal(t, OAMScan, p.CurrentMode(), "wrapping past dotsPerLine starts the next line in OAM-Scan")
	assert.Equal(t, uint8(1), p.LY())
}

func TestVBlankEntryAtLine144(t *testing.T) {
	p := newTestPPU()
	for line := 0; line < 144; line++ {
		for i := 0; i < dotsPerLine; i++ {
			p.Tick()
		}
	}
	assert.Equal(t, VBlank, p.CurrentMode())
	assert.Equal(t, uint8(144), p.LY())
	assert.True(t, p.FrameReady)
}

func TestFrameWrapsAtLine154(t *testing.T) {
	p := newTestPPU()
	for line := 0; line < 154; line++ {
		for i := 0; i < dotsPerLine; i++ {
			p.Tick()
		}
	}
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, OAMScan, p.CurrentMode())
}

func TestSTATInterruptFiresOnceOnModeEntry(t *testing.T) {
	irq := interrupts.New()
	irq.WriteEnable(0xFF)
	p := New(irq, false)
	p.WriteReg(regLCDC, 0x80)
	p.WriteReg(regSTAT, 0x08) // enable the HBlank STAT source

	for i := 0; i < hblankStart; i++ {
		p.Tick()
	}
	assert.Equal(t, HBlank, p.CurrentMode())
	_, ok := irq.Pending()
	assert.True(t, ok)
	irq.Acknowledge(interrupts.LCDStat)

	p.Tick() // still in HBlank, line stays asserted: must not re-fire
	_, ok = irq.Pending()
	assert.False(t, ok, "STAT blocking: an already-asserted source doesn't re-trigger without a falling edge first")
}

func TestLYCMatchSetsSTATBitAndInterrupts(t *testing.T) {
	irq := interrupts.New()
	irq.WriteEnable(0xFF)
	p := New(irq, false)
	p.WriteReg(regLCDC, 0x80)
	p.WriteReg(regLYC, 0)
	p.WriteReg(regSTAT, 0x40) // enable LYC=LY STAT source

	assert.NotEqual(t, uint8(0), p.ReadReg(regSTAT)&0x04, "LY starts at 0, matching LYC=0 immediately")
	_, ok := irq.Pending()
	assert.True(t, ok)
}

func TestLCDCDisableBlanksAndResetsLine(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < dotsPerLine*2; i++ {
		p.Tick()
	}
	p.WriteReg(regLCDC, 0x00) // disable the LCD
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, HBlank, p.CurrentMode())

	before := p.dot
	p.Tick() // Tick is a no-op while disabled
	assert.Equal(t, before, p.dot)
}

func TestVRAMLockedDuringDrawing(t *testing.T) {
	p := newTestPPU()
	p.WriteVRAM(0x8000, 0x11)
	for i := 0; i < oamScanDots; i++ {
		p.Tick()
	}
	assert.Equal(t, Drawing, p.CurrentMode())
	assert.Equal(t, uint8(0xFF), p.ReadVRAM(0x8000), "VRAM reads are locked out during Drawing")

	p.WriteVRAM(0x8001, 0x22) // write during Drawing is dropped
	for i := 0; i < drawingDots+(dotsPerLine-hblankStart); i++ {
		p.Tick()
	}
	assert.Equal(t, uint8(0x00), p.ReadVRAM(0x8001))
}

func TestOAMScanSelectsUpTo10SpritesOnLine(t *testing.T) {
	p := newTestPPU()
	for i := uint8(0); i < 12; i++ {
		base := int(i) * 4
		p.oam[base] = 16   // Y=16 -> visible at LY=0 (8px sprites, on-screen Y 0)
		p.oam[base+1] = 8 + i
		p.oam[base+2] = i
		p.oam[base+3] = 0
	}
	p.scanOAM()
	assert.Len(t, p.sprites, 10, "only the first 10 intersecting sprites in OAM order are selected")
	assert.Equal(t, uint8(0), p.sprites[0].OAMIndex)
}

func TestSpriteDrawOrderDMGSortsByXThenOAMIndex(t *testing.T) {
	p := New(interrupts.New(), false)
	p.sprites = []Sprite{
		{X: 50, OAMIndex: 2},
		{X: 20, OAMIndex: 1},
		{X: 20, OAMIndex: 0},
	}
	ordered := p.spriteDrawOrder()
	assert.Equal(t, uint8(0), ordered[0].OAMIndex)
	assert.Equal(t, uint8(1), ordered[1].OAMIndex)
	assert.Equal(t, uint8(2), ordered[2].OAMIndex)
}

func TestSpriteDrawOrderCGBStrictOAMOrder(t *testing.T) {
	p := New(interrupts.New(), true)
	p.objPriority = false // OPRI bit0 clear: strict OAM order
	p.sprites = []Sprite{
		{X: 50, OAMIndex: 2},
		{X: 20, OAMIndex: 1},
	}
	ordered := p.spriteDrawOrder()
	assert.Equal(t, uint8(2), ordered[0].OAMIndex, "CGB strict-priority mode keeps OAM order regardless of X")
}

func TestRegVBKIgnoredOutsideCGB(t *testing.T) {
	p := New(interrupts.New(), false)
	p.WriteReg(regVBK, 0x01)
	assert.Equal(t, uint8(0xFE), p.ReadReg(regVBK), "VBK write is a no-op on DMG; bank stays 0")
}

func TestWindowLatchesOnceLYReachesWYAndStaysTriggered(t *testing.T) {
	p := newTestPPU()
	p.WriteReg(regLCDC, 0x80|0x20) // LCD on, window on, no BG
	p.WriteReg(regWY, 10)
	p.WriteReg(regWX, 7) // WX=7 puts the window at screen X=0

	p.ly = 5
	p.renderLine()
	assert.False(t, p.windowTriggered, "LY has not reached WY yet")

	p.ly = 10
	p.renderLine()
	assert.True(t, p.windowTriggered)
	lineAfterTrigger := p.windowLine

	// raising WY after the window has triggered must not un-draw it.
	p.WriteReg(regWY, 200)
	p.ly = 11
	p.renderLine()
	assert.True(t, p.windowTriggered)
	assert.Equal(t, lineAfterTrigger+1, p.windowLine, "window keeps advancing once triggered, regardless of WY changes")
}

func TestWindowTriggerResetsEachFrame(t *testing.T) {
	p := newTestPPU()
	p.WriteReg(regLCDC, 0x80|0x20)
	p.WriteReg(regWY, 0)
	p.ly = 0
	p.renderLine()
	assert.True(t, p.windowTriggered)

	for i := 0; i < dotsPerLine*linesPerFrame; i++ {
		p.Tick()
	}
	assert.False(t, p.windowTriggered, "the latch clears on the frame wrap")
	assert.Equal(t, uint8(0), p.windowLine)
}

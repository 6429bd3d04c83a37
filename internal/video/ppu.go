// Package video implements the Game Boy / Game Boy Color Picture
// Processing Unit: VRAM/OAM storage, the four-mode scanline state
// machine, and the background/window/sprite pixel mixer.
package video

import "github.com/thelolagemann/gomeboycore/internal/interrupts"

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine   = 456
	linesPerFrame = 154

	oamScanDots = 80
	drawingDots = 172
	hblankStart = oamScanDots + drawingDots // 252
)

// Mode is one of the PPU's four scanline states.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Drawing
)

// Sprite is one decoded OAM entry, cached for the duration of a
// scanline's selection.
type Sprite struct {
	Y, X, Tile, Attr uint8
	OAMIndex         uint8
}

// PPU is the Picture Processing Unit.
type PPU struct {
	irq *interrupts.Controller
	cgb bool

	lcdc, stat      uint8
	scy, scx        uint8
	ly, lyc         uint8
	wx, wy          uint8
	windowLine      uint8
	windowTriggered bool
	bgp, obp0, obp1 dmgPalette

	vram     [2][0x2000]byte
	vramBank uint8
	oam      [160]byte

	bgPalettes  cgbPaletteRAM
	objPalettes cgbPaletteRAM
	objPriority bool // OPRI bit 0: 0 = CGB strict-OAM-order priority

	dot  uint16
	mode Mode

	statLine bool // combined STAT-interrupt line level, for edge detection

	sprites    []Sprite
	oamLocked  bool
	vramLocked bool

	pending [ScreenHeight][ScreenWidth][3]uint8

	// Frame holds the completed-frame RGB buffer, row-major,
	// ScreenHeight x ScreenWidth x 3. FrameReady latches true exactly
	// once per frame, at VBlank entry, and is cleared by the
	// scheduler after it hands the frame to the sink.
	Frame      [ScreenHeight][ScreenWidth][3]uint8
	FrameReady bool

	// HBlankHook, when non-nil, is invoked once at the start of every
	// H-Blank (dot hblankStart) — the CGB HDMA unit hooks this to
	// copy its next 16-byte block.
	HBlankHook func()
}

// New returns a PPU wired to irq. cgb selects Color Game Boy palette
// and priority behavior.
func New(irq *interrupts.Controller, cgb bool) *PPU {
	p := &PPU{irq: irq, cgb: cgb}
	p.bgp = byteToPalette(0xFC)
	p.enterMode(OAMScan)
	p.scanOAM()
	return p
}

// Enabled reports whether LCDC bit 7 (LCD/PPU enable) is set.
func (p *PPU) Enabled() bool { return p.lcdc&0x80 != 0 }

// LY returns the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

// CurrentMode returns the active scanline mode.
func (p *PPU) CurrentMode() Mode { return p.mode }

// Dot returns the current dot within the scanline (always < 456).
func (p *PPU) Dot() uint16 { return p.dot }

// Tick advances the PPU by one T-cycle.
func (p *PPU) Tick() {
	if !p.Enabled() {
		return
	}
	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.ly++
		switch {
		case p.ly == ScreenHeight:
			p.enterMode(VBlank)
			p.irq.Request(interrupts.VBlank)
			p.Frame = p.pending
			p.FrameReady = true
		case p.ly >= linesPerFrame:
			p.ly = 0
			p.windowLine = 0
			p.windowTriggered = false
		}
	}
	if p.ly < ScreenHeight {
		switch p.dot {
		case 0:
			p.enterMode(OAMScan)
			p.scanOAM()
		case oamScanDots:
			p.enterMode(Drawing)
			p.renderLine()
		case hblankStart:
			p.enterMode(HBlank)
			if p.HBlankHook != nil {
				p.HBlankHook()
			}
		}
	}
	p.updateSTATLine()
}

func (p *PPU) enterMode(m Mode) {
	p.mode = m
	switch m {
	case OAMScan:
		p.oamLocked, p.vramLocked = true, false
	case Drawing:
		p.oamLocked, p.vramLocked = true, true
	case HBlank, VBlank:
		p.oamLocked, p.vramLocked = false, false
	}
}

func (p *PPU) lycMatch() bool { return p.ly == p.lyc }

// updateSTATLine recomputes the OR'ed STAT-interrupt-source line and
// requests the LCD interrupt on its rising edge (the "STAT blocking"
// rule: overlapping sources never fire more than once per edge).
func (p *PPU) updateSTATLine() {
	line := p.lycMatch() && p.stat&0x40 != 0
	switch p.mode {
	case HBlank:
		line = line || p.stat&0x08 != 0
	case VBlank:
		line = line || p.stat&0x10 != 0
	case OAMScan:
		line = line || p.stat&0x20 != 0
	}
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDStat)
	}
	p.statLine = line
}

// setEnabled handles an LCDC bit-7 transition: disabling resets LY to
// 0, forces mode 0, and blanks the screen; re-enabling restarts at
// LY=0 in OAM-Scan.
func (p *PPU) setEnabled(on bool) {
	if !on {
		p.ly = 0
		p.dot = 0
		p.mode = HBlank
		p.windowLine = 0
		p.windowTriggered = false
		for y := range p.pending {
			for x := range p.pending[y] {
				p.pending[y][x] = [3]uint8{0xFF, 0xFF, 0xFF}
			}
		}
	} else {
		p.ly = 0
		p.dot = 0
		p.enterMode(OAMScan)
		p.scanOAM()
	}
}

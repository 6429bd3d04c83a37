package video

// tileRow decodes the two bitplane bytes at vramBank/addr into 8
// palette indices (0-3), MSB (screen-leftmost pixel) first.
func (p *PPU) tileRow(bank uint8, addr uint16, xflip bool) [8]uint8 {
	lo := p.vram[bank][addr]
	hi := p.vram[bank][addr+1]
	var row [8]uint8
	for bit := 0; bit < 8; bit++ {
		shift := uint(7 - bit)
		v := uint8(0)
		if lo&(1<<shift) != 0 {
			v |= 1
		}
		if hi&(1<<shift) != 0 {
			v |= 2
		}
		row[bit] = v
	}
	if xflip {
		row[0], row[7] = row[7], row[0]
		row[1], row[6] = row[6], row[1]
		row[2], row[5] = row[5], row[2]
		row[3], row[4] = row[4], row[3]
	}
	return row
}

// bgTileAddr resolves a tile index to its data address, honoring the
// LCDC bit-4 addressing mode (unsigned 0x8000-base, or signed
// 0x8800-base for the window/background when that bit is clear).
func (p *PPU) bgTileAddr(index uint8, row uint8) uint16 {
	if p.lcdc&0x10 != 0 {
		return uint16(index)*16 + uint16(row)*2
	}
	return uint16(0x1000+int16(int8(index))*16) + uint16(row)*2
}

type bgAttr struct {
	palette    uint8 // CGB BG/OBJ palette number, bits 0-2
	dmgOBP1    bool  // DMG sprite palette select, bit 4 (OAM attrs only)
	bank       uint8
	xflip      bool
	yflip      bool
	priority   bool
}

func decodeAttr(v uint8) bgAttr {
	return bgAttr{
		palette:  v & 0x07,
		dmgOBP1:  v&0x10 != 0,
		bank:     (v >> 3) & 0x01,
		xflip:    v&0x20 != 0,
		yflip:    v&0x40 != 0,
		priority: v&0x80 != 0,
	}
}

// bgPixel computes the colour index and CGB attribute byte for the
// background/window pixel at map coordinates (mapX, mapY) within the
// tile map starting at mapBase.
func (p *PPU) bgPixel(mapBase uint16, mapX, mapY uint16) (uint8, bgAttr) {
	tileX := mapX / 8
	tileY := mapY / 8
	mapAddr := mapBase + tileY*32 + tileX
	tileIndex := p.vram[0][mapAddr]

	attr := bgAttr{}
	if p.cgb {
		attr = decodeAttr(p.vram[1][mapAddr])
	}

	row := mapY % 8
	if attr.yflip {
		row = 7 - row
	}
	addr := p.bgTileAddr(tileIndex, row)
	pixels := p.tileRow(attr.bank, addr, attr.xflip)
	return pixels[mapX%8], attr
}

// renderLine computes the whole visible line p.ly in one shot (a
// scanline renderer, not a pixel FIFO — the core models instruction/
// line-granular timing, not sub-scanline pixel timing).
func (p *PPU) renderLine() {
	y := p.ly
	var colourIdx [ScreenWidth]uint8
	var attrs [ScreenWidth]bgAttr
	var bgDrawn [ScreenWidth]bool

	bgEnabled := p.cgb || p.lcdc&0x01 != 0
	if bgEnabled {
		bgMapBase := uint16(0x1800)
		if p.lcdc&0x08 != 0 {
			bgMapBase = 0x1C00
		}
		mapY := uint16(y) + uint16(p.scy)
		mapY %= 256
		for x := 0; x < ScreenWidth; x++ {
			mapX := (uint16(x) + uint16(p.scx)) % 256
			idx, a := p.bgPixel(bgMapBase, mapX, mapY)
			colourIdx[x] = idx
			attrs[x] = a
			bgDrawn[x] = true
		}
	}

	windowEnabled := p.lcdc&0x20 != 0
	if windowEnabled && !p.windowTriggered && y >= p.wy {
		// the first line with LY >= WY latches the trigger for the rest
		// of the frame; once triggered,
		// the window keeps drawing for the rest of the frame even if WY
		// is changed afterwards (real hardware doesn't re-check it).
		p.windowTriggered = true
	}
	if windowEnabled && p.windowTriggered {
		winMapBase := uint16(0x1800)
		if p.lcdc&0x40 != 0 {
			winMapBase = 0x1C00
		}
		wx := int(p.wx) - 7
		drewAny := false
		for x := 0; x < ScreenWidth; x++ {
			if x < wx {
				continue
			}
			drewAny = true
			winX := uint16(x - wx)
			idx, a := p.bgPixel(winMapBase, winX, uint16(p.windowLine))
			colourIdx[x] = idx
			attrs[x] = a
		}
		if drewAny {
			p.windowLine++
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		rgb := p.resolveColour(false, colourIdx[x], attrs[x], bgDrawn[x])
		p.pending[y][x] = rgb
	}

	if p.lcdc&0x02 != 0 {
		p.renderSprites(y, colourIdx[:], attrs[:])
	}
}

func (p *PPU) renderSprites(y uint8, bgIdx []uint8, bgAttrs []bgAttr) {
	order := p.spriteDrawOrder()
	height := p.spriteHeight()
	for x := 0; x < ScreenWidth; x++ {
		for _, s := range order {
			sx := int(s.X) - 8
			if x < sx || x >= sx+8 {
				continue
			}
			a := decodeAttr(s.Attr)
			row := uint8(int(y) + 16 - int(s.Y))
			if a.yflip {
				row = height - 1 - row
			}
			tile := s.Tile
			if height == 16 {
				tile &^= 0x01
				if row >= 8 {
					tile |= 0x01
					row -= 8
				}
			}
			addr := uint16(tile)*16 + uint16(row)*2
			pixels := p.tileRow(a.bank, addr, a.xflip)
			colour := pixels[x-sx]
			if colour == 0 {
				continue
			}
			bgOpaque := bgIdx[x] != 0
			bgPriorityBit := p.cgb && bgAttrs[x].priority
			masterBGPriority := !p.cgb || p.lcdc&0x01 != 0
			if masterBGPriority && (a.priority || bgPriorityBit) && bgOpaque {
				break // background wins; sprite is fully occluded here
			}
			rgb := p.resolveColour(true, colour, a, true)
			p.pending[y][x] = rgb
			break
		}
	}
}

// resolveColour maps a 2-bit colour index through the relevant
// palette (BGP/OBP0/OBP1 on DMG, BCPD/OCPD on CGB) to display RGB.
func (p *PPU) resolveColour(sprite bool, idx uint8, a bgAttr, opaque bool) [3]uint8 {
	if !opaque {
		return dmgShades[p.bgp[0]]
	}
	if p.cgb {
		if sprite {
			return p.objPalettes.colour(a.palette, idx)
		}
		return p.bgPalettes.colour(a.palette, idx)
	}
	var pal dmgPalette
	switch {
	case sprite && a.dmgOBP1:
		pal = p.obp1
	case sprite:
		pal = p.obp0
	default:
		pal = p.bgp
	}
	return dmgShades[pal[idx]]
}

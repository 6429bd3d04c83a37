package video

// spriteHeight returns 16 when LCDC bit 2 (OBJ size) selects 8x16
// sprites, else 8.
func (p *PPU) spriteHeight() uint8 {
	if p.lcdc&0x04 != 0 {
		return 16
	}
	return 8
}

// scanOAM selects up to 10 sprites intersecting the current line, in
// OAM order. Rendering order (X-ascending with OAM-index tie-break on
// DMG, strict OAM order on CGB with OPRI bit 0 clear) is applied later
// by spriteDrawOrder, which renderSprites calls on this OAM-ordered slice.
func (p *PPU) scanOAM() {
	p.sprites = p.sprites[:0]
	height := p.spriteHeight()
	for i := uint8(0); i < 40 && len(p.sprites) < 10; i++ {
		base := int(i) * 4
		y := p.oam[base]
		x := p.oam[base+1]
		tile := p.oam[base+2]
		attr := p.oam[base+3]
		if p.ly+16 >= y && p.ly+16 < y+height {
			p.sprites = append(p.sprites, Sprite{Y: y, X: x, Tile: tile, Attr: attr, OAMIndex: i})
		}
	}
}

// spriteDrawOrder returns the draw order for the current line's
// selected sprites: DMG sorts by X ascending with OAM index as a
// tie-break (so the earliest OAM entry wins when two sprites share an
// X); CGB with OPRI bit 0 clear keeps strict OAM order.
func (p *PPU) spriteDrawOrder() []Sprite {
	if p.cgb && !p.objPriority {
		return p.sprites
	}
	ordered := make([]Sprite, len(p.sprites))
	copy(ordered, p.sprites)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && less(ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

func less(a, b Sprite) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.OAMIndex < b.OAMIndex
}

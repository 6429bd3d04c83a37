package video

// ReadVRAM reads VRAM at CPU address addr (0x8000-0x9FFF). Reads
// during Drawing return 0xFF; OAM-DMA restrictions are enforced by
// the bus, not here.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if p.Enabled() && p.vramLocked {
		return 0xFF
	}
	return p.vram[p.vramBank][addr-0x8000]
}

// WriteVRAM writes VRAM; writes during Drawing are dropped.
func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	if p.Enabled() && p.vramLocked {
		return
	}
	p.vram[p.vramBank][addr-0x8000] = v
}

// ReadVRAMBank reads VRAM bank `bank` directly, bypassing mode
// restrictions and the VBK register.
func (p *PPU) ReadVRAMBank(bank uint8, addr uint16) uint8 {
	return p.vram[bank&1][addr]
}

// WriteVRAMBank writes VRAM bank `bank` directly; used by HDMA.
func (p *PPU) WriteVRAMBank(bank uint8, addr uint16, v uint8) {
	p.vram[bank&1][addr] = v
}

// ReadOAM reads OAM at CPU address addr (0xFE00-0xFE9F). Reads during
// OAM-Scan or Drawing return 0xFF.
func (p *PPU) ReadOAM(addr uint16) uint8 {
	if p.Enabled() && p.oamLocked {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

// WriteOAM writes OAM; writes during OAM-Scan/Drawing are dropped.
func (p *PPU) WriteOAM(addr uint16, v uint8) {
	if p.Enabled() && p.oamLocked {
		return
	}
	p.oam[addr-0xFE00] = v
}

// WriteOAMRaw writes OAM unconditionally, used by OAM-DMA which is
// the one writer allowed to bypass mode locking (DMA runs on its own
// schedule and the real hardware also bypasses PPU access gating).
func (p *PPU) WriteOAMRaw(index uint8, v uint8) {
	p.oam[index] = v
}

const (
	regLCDC = 0xFF40
	regSTAT = 0xFF41
	regSCY  = 0xFF42
	regSCX  = 0xFF43
	regLY   = 0xFF44
	regLYC  = 0xFF45
	regBGP  = 0xFF47
	regOBP0 = 0xFF48
	regOBP1 = 0xFF49
	regWY   = 0xFF4A
	regWX   = 0xFF4B
	regVBK  = 0xFF4F
	regBCPS = 0xFF68
	regBCPD = 0xFF69
	regOCPS = 0xFF6A
	regOCPD = 0xFF6B
	regOPRI = 0xFF6C
)

// ReadReg reads one of the PPU's memory-mapped registers.
func (p *PPU) ReadReg(addr uint16) uint8 {
	switch addr {
	case regLCDC:
		return p.lcdc
	case regSTAT:
		v := p.stat&0x78 | uint8(p.mode) | 0x80
		if p.lycMatch() {
			v |= 0x04
		}
		return v
	case regSCY:
		return p.scy
	case regSCX:
		return p.scx
	case regLY:
		return p.ly
	case regLYC:
		return p.lyc
	case regBGP:
		return p.paletteByte(p.bgp)
	case regOBP0:
		return p.paletteByte(p.obp0)
	case regOBP1:
		return p.paletteByte(p.obp1)
	case regWY:
		return p.wy
	case regWX:
		return p.wx
	case regVBK:
		return p.vramBank | 0xFE
	case regBCPS:
		return p.bgPalettes.readSpec()
	case regBCPD:
		return p.bgPalettes.readData()
	case regOCPS:
		return p.objPalettes.readSpec()
	case regOCPD:
		return p.objPalettes.readData()
	case regOPRI:
		if p.objPriority {
			return 0x01
		}
		return 0x00
	}
	return 0xFF
}

// WriteReg writes one of the PPU's memory-mapped registers.
func (p *PPU) WriteReg(addr uint16, v uint8) {
	switch addr {
	case regLCDC:
		was := p.Enabled()
		p.lcdc = v
		now := v&0x80 != 0
		if was != now {
			p.setEnabled(now)
		}
	case regSTAT:
		p.stat = v & 0x78
		p.updateSTATLine()
	case regSCY:
		p.scy = v
	case regSCX:
		p.scx = v
	case regLY:
		// any write resets the value to 0
		p.ly = 0
	case regLYC:
		p.lyc = v
		p.updateSTATLine()
	case regBGP:
		p.bgp = byteToPalette(v)
	case regOBP0:
		p.obp0 = byteToPalette(v)
	case regOBP1:
		p.obp1 = byteToPalette(v)
	case regWY:
		p.wy = v
	case regWX:
		p.wx = v
	case regVBK:
		if p.cgb {
			p.vramBank = v & 0x01
		}
	case regBCPS:
		p.bgPalettes.writeSpec(v)
	case regBCPD:
		p.bgPalettes.writeData(v)
	case regOCPS:
		p.objPalettes.writeSpec(v)
	case regOCPD:
		p.objPalettes.writeData(v)
	case regOPRI:
		p.objPriority = v&0x01 != 0
	}
}

func (p *PPU) paletteByte(pal dmgPalette) uint8 {
	return pal[0] | pal[1]<<2 | pal[2]<<4 | pal[3]<<6
}

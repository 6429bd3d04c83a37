package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// newROM builds a minimal header-valid ROM image: romSizeCode selects
// the bank count (2<<code), ramSizeCode selects the RAM size, and each
// 16KiB bank is stamped with its own index so tests can detect which
// bank got mapped where.
func newROM(cartType Type, romSizeCode, ramSizeCode uint8, title string) []byte {
	banks := 2 << romSizeCode
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		for i := 0; i < 0x4000; i++ {
			rom[b*0x4000+i] = byte(b)
		}
	}
	copy(rom[0x0134:], title)
	rom[0x0147] = byte(cartType)
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	return rom
}

func TestParseHeaderBasics(t *testing.T) {
	rom := newROM(MBC1, 0x00, 0x00, "TESTGAME")
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.Equal(t, "TESTGAME", h.Title)
	assert.Equal(t, MBC1, h.Type)
	assert.Equal(t, 2, h.ROMBanks)
	assert.Equal(t, 0, h.RAMSize)
}

func TestParseHeaderCGBFlagShortensTitle(t *testing.T) {
	rom := newROM(ROMOnly, 0x00, 0x00, "ABCDEFGHIJKLMNOP")
	rom[0x0143] = 0xC0
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.Equal(t, CGBOnly, h.CGBSupport)
	assert.Equal(t, "ABCDEFGHIJKLMNO", h.Title, "CGB-flagged header reserves 0x0143, shortening the title field by one byte")
}

func TestParseHeaderRejectsShortROM(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x100))
	assert.Error(t, err)
}

func TestParseHeaderRejectsBadRAMSizeCode(t *testing.T) {
	rom := newROM(ROMOnly, 0x00, 0xFF, "X")
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestHeaderCapabilityFlags(t *testing.T) {
	assert.True(t, Header{Type: MBC3TimerRAMBatt}.HasRAM())
	assert.True(t, Header{Type: MBC3TimerRAMBatt}.HasBattery())
	assert.True(t, Header{Type: MBC3TimerRAMBatt}.HasTimer())
	assert.False(t, Header{Type: ROMOnly}.HasRAM())
	assert.False(t, Header{Type: ROMOnly}.HasBattery())
}

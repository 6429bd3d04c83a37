package gameboy

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/thelolagemann/gomeboycore/internal/cartridge"
	"github.com/thelolagemann/gomeboycore/pkg/debugstream"
	"github.com/thelolagemann/gomeboycore/pkg/framebuffer"
)

// illegalOpcodeROM builds a ROM-only cartridge whose first instruction
// is one of the Sharp LR35902's undefined opcodes, followed by NOPs.
func illegalOpcodeROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = byte(cartridge.ROMOnly)
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00
	rom[0x0100] = 0xD3 // undefined opcode
	return rom
}

// subscribedHub returns a Hub with one fake client already registered,
// along with the channel that client's events land on.
func subscribedHub() (*debugstream.Hub, chan debugstream.Event) {
	h := debugstream.NewHub()
	ch := make(chan debugstream.Event, 8)
	h.Subscribe(new(websocket.Conn), ch)
	return h, ch
}

// minimalROM builds a ROM-only cartridge whose program enables the LCD
// and then spins forever; good enough to drive a frame to completion
// since the PPU/APU/timer advance on T-cycles regardless of what the
// CPU is executing.
func minimalROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = byte(cartridge.ROMOnly)
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00

	program := []byte{
		0x3E, 0x80, // LD A,0x80
		0xE0, 0x40, // LDH (0xFF40),A  -- enable the LCD
		0x18, 0xFE, // JR -2          -- spin
	}
	copy(rom[0x0100:], program)
	return rom
}

func newTestGameBoy(t *testing.T, opts ...Option) *GameBoy {
	t.Helper()
	cart, err := cartridge.Load(minimalROM())
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	return New(cart, opts...)
}

func TestNewWiresEveryComponent(t *testing.T) {
	g := newTestGameBoy(t)
	assert.NotNil(t, g.CPU)
	assert.NotNil(t, g.Bus)
	assert.NotNil(t, g.PPU)
	assert.NotNil(t, g.APU)
	assert.Same(t, g.CPU, g.Bus.Speed, "the CPU backs the CGB speed-switch register")
}

func TestRunFrameProducesACompletedFrame(t *testing.T) {
	g := newTestGameBoy(t)
	frame := framebuffer.New()

	g.RunFrame(frame)

	assert.False(t, g.PPU.FrameReady, "RunFrame consumes the ready flag before returning")
}

func TestStepInstructionAdvancesPC(t *testing.T) {
	g := newTestGameBoy(t)
	before := g.CPU.Reg.PC
	g.StepInstruction()
	assert.NotEqual(t, before, g.CPU.Reg.PC)
}

func TestRequestStopHaltsRunFrameAtNextBoundary(t *testing.T) {
	g := newTestGameBoy(t)
	g.RequestStop()
	frame := framebuffer.New()
	g.RunFrame(frame) // must return promptly, not spin forever
}

func TestWithCGBOverridesHeaderDetection(t *testing.T) {
	g := newTestGameBoy(t, WithCGB(true))
	assert.True(t, g.cgb)
}

func TestWithDebugStreamPublishesFrameCompleteEvents(t *testing.T) {
	hub, ch := subscribedHub()
	g := newTestGameBoy(t, WithDebugStream(hub))

	g.RunFrame(framebuffer.New())

	select {
	case ev := <-ch:
		assert.Equal(t, debugstream.EventFrame, ev.Type)
	default:
		t.Fatal("expected a frame-complete event to have been published")
	}
}

func TestWithDebugStreamPublishesIllegalOpcodeEvents(t *testing.T) {
	hub, ch := subscribedHub()
	cart, err := cartridge.Load(illegalOpcodeROM())
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	g := New(cart, WithDebugStream(hub))

	g.StepInstruction()

	select {
	case ev := <-ch:
		assert.Equal(t, debugstream.EventIllegalOpcode, ev.Type)
		assert.Equal(t, uint8(0xD3), ev.Data)
	default:
		t.Fatal("expected an illegal-opcode event to have been published")
	}
}

func TestWithoutDebugStreamNeverTouchesTheHook(t *testing.T) {
	g := newTestGameBoy(t)
	assert.Nil(t, g.CPU.OnIllegalOpcode)
	assert.Nil(t, g.Serial.OnByte)
}

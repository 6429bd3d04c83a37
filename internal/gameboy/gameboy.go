// Package gameboy assembles every subsystem into a runnable machine:
// it owns the CPU, Bus, PPU, APU and DMA engines, and drives them
// together one CPU instruction at a time.
package gameboy

import (
	"github.com/sirupsen/logrus"

	"github.com/thelolagemann/gomeboycore/internal/apu"
	"github.com/thelolagemann/gomeboycore/internal/bus"
	"github.com/thelolagemann/gomeboycore/internal/cartridge"
	"github.com/thelolagemann/gomeboycore/internal/cpu"
	"github.com/thelolagemann/gomeboycore/internal/dma"
	"github.com/thelolagemann/gomeboycore/internal/interrupts"
	"github.com/thelolagemann/gomeboycore/internal/joypad"
	"github.com/thelolagemann/gomeboycore/internal/log"
	"github.com/thelolagemann/gomeboycore/internal/serial"
	"github.com/thelolagemann/gomeboycore/internal/timer"
	"github.com/thelolagemann/gomeboycore/internal/video"
	"github.com/thelolagemann/gomeboycore/pkg/audio"
	"github.com/thelolagemann/gomeboycore/pkg/debugstream"
	"github.com/thelolagemann/gomeboycore/pkg/framebuffer"
	"github.com/thelolagemann/gomeboycore/pkg/input"
)

// GameBoy is the top-level emulation core. It has no rendering or
// audio-playback logic of its own: frames and samples are pushed to
// whatever framebuffer/audio sinks the host supplied.
type GameBoy struct {
	CPU  *cpu.CPU
	Bus  *bus.Bus
	PPU  *video.PPU
	APU  *apu.APU
	IRQ  *interrupts.Controller
	Timer   *timer.Controller
	Pad     *joypad.State
	Serial  *serial.Controller
	OAMDMA  *dma.OAM
	HDMA    *dma.HDMA
	Cart    *cartridge.Cartridge

	cgb           bool
	log           *logrus.Logger
	stopRequested bool

	audioSink      audio.Sink
	cgbOverride    bool
	cgbOverrideSet bool
	inputSource    input.Source
	debug          *debugstream.Hub

	rtcAccum int
}

// Option configures a GameBoy at construction time.
type Option func(*GameBoy)

// WithAudioSink routes APU samples to sink instead of discarding them.
func WithAudioSink(sink audio.Sink) Option {
	return func(g *GameBoy) { g.audioSink = sink }
}

// WithLogger overrides the default logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(g *GameBoy) { g.log = l }
}

// WithInput polls src for held buttons once per frame; without it the
// joypad reports nothing held.
func WithInput(src input.Source) Option {
	return func(g *GameBoy) { g.inputSource = src }
}

// WithCGB forces Color Game Boy mode regardless of the cartridge
// header's own CGB-support flag (useful for DMG-mode compatibility
// testing of CGB-aware titles).
func WithCGB(on bool) Option {
	return func(g *GameBoy) { g.cgbOverride, g.cgbOverrideSet = on, true }
}

// WithDebugStream publishes frame-complete and illegal-opcode events
// to hub for an external debugger to subscribe to. Publishing is
// non-blocking and entirely off the core's hot path.
func WithDebugStream(hub *debugstream.Hub) Option {
	return func(g *GameBoy) { g.debug = hub }
}

// New constructs a GameBoy from a parsed cartridge. CGB mode is
// selected from the cartridge header unless overridden by WithCGB.
func New(cart *cartridge.Cartridge, opts ...Option) *GameBoy {
	g := &GameBoy{Cart: cart, log: log.Default}
	for _, opt := range opts {
		opt(g)
	}

	cgb := cart.Header().CGBSupport != cartridge.DMGOnly
	if g.cgbOverrideSet {
		cgb = g.cgbOverride
	}
	g.cgb = cgb

	if g.audioSink == nil {
		g.audioSink = audio.Discard{}
	}

	g.IRQ = interrupts.New()
	g.PPU = video.New(g.IRQ, cgb)
	g.APU = apu.New(g.audioSink)
	g.Timer = timer.New(g.IRQ)
	g.Pad = joypad.New(g.IRQ)
	g.Serial = serial.New(g.IRQ)
	g.OAMDMA = dma.NewOAM(busAdapter{g}, g.PPU)
	g.HDMA = dma.NewHDMA(busAdapter{g}, g.PPU)
	g.PPU.HBlankHook = g.HDMA.OnHBlank

	g.Bus = bus.New(cart, g.PPU, g.APU, g.IRQ, g.Timer, g.Pad, g.Serial, g.OAMDMA, g.HDMA, cgb)
	g.CPU = cpu.New(g.Bus, g.IRQ, cgb)
	g.Bus.Speed = g.CPU

	if g.debug != nil {
		g.CPU.OnIllegalOpcode = func(op uint8) {
			g.debug.Publish(debugstream.Event{Type: debugstream.EventIllegalOpcode, Data: op})
		}
		g.Serial.OnByte = func(b uint8) {
			g.debug.Publish(debugstream.Event{Type: debugstream.EventSerialOut, Data: b})
		}
	}

	g.log.WithField("cgb", cgb).WithField("hash", cart.Hash()).Info("gameboy initialized")
	return g
}

// busAdapter lets dma.OAM/dma.HDMA depend on the not-yet-constructed
// Bus through a stable indirection (New wires Bus after the DMA
// engines since Bus itself needs them).
type busAdapter struct{ g *GameBoy }

func (b busAdapter) ReadForDMA(addr uint16) uint8 { return b.g.Bus.ReadForDMA(addr) }

// StepInstruction executes exactly one CPU instruction (or interrupt
// dispatch) and advances every other subsystem by the resulting
// number of T-cycles, scaled for CGB double speed.
func (g *GameBoy) StepInstruction() {
	t := g.CPU.Step()
	g.advance(t)
}

// RunFrame steps instructions until the PPU latches a completed
// frame, copies it into frame (if non-nil), then returns.
func (g *GameBoy) RunFrame(frame *framebuffer.Buffer) {
	if g.inputSource != nil {
		g.Pad.Set(g.inputSource.Poll())
	}
	for !g.PPU.FrameReady && !g.stopRequested {
		g.StepInstruction()
	}
	completed := g.PPU.FrameReady
	g.PPU.FrameReady = false
	if frame != nil {
		frame.LoadFrame(g.PPU.Frame)
	}
	if completed && g.debug != nil {
		g.debug.Publish(debugstream.Event{Type: debugstream.EventFrame})
	}
}

// RequestStop makes RunFrame return before its next instruction without
// completing the frame. The request is never cleared, so every later
// RunFrame call also returns without stepping.
func (g *GameBoy) RequestStop() { g.stopRequested = true }

// advance ticks every cycle-driven subsystem by t T-cycles. Under CGB
// double speed only the PPU and APU ticks are halved; the timer, serial
// port and OAM-DMA advance by the full t.
func (g *GameBoy) advance(t int) {
	ppuTicks := t
	if g.CPU.DoubleSpeed() {
		ppuTicks = t / 2
	}
	for i := 0; i < t; i++ {
		g.Timer.Tick()
		g.Serial.Tick()
	}
	for i := 0; i < ppuTicks; i++ {
		g.PPU.Tick()
		g.APU.Tick(1)
	}
	for i := 0; i < t/4; i++ {
		g.OAMDMA.TickMachineCycle()
	}

	const cyclesPerSecond = 4194304
	g.rtcAccum += t
	for g.rtcAccum >= cyclesPerSecond {
		g.rtcAccum -= cyclesPerSecond
		g.Cart.TickRTC()
	}
}

package apu

import "github.com/thelolagemann/gomeboycore/pkg/audio"

// Register addresses, relative to the 0xFF00 I/O page.
const (
	RegNR10 = 0x10
	RegNR11 = 0x11
	RegNR12 = 0x12
	RegNR13 = 0x13
	RegNR14 = 0x14

	RegNR21 = 0x16
	RegNR22 = 0x17
	RegNR23 = 0x18
	RegNR24 = 0x19

	RegNR30 = 0x1A
	RegNR31 = 0x1B
	RegNR32 = 0x1C
	RegNR33 = 0x1D
	RegNR34 = 0x1E

	RegNR41 = 0x20
	RegNR42 = 0x21
	RegNR43 = 0x22
	RegNR44 = 0x23

	RegNR50 = 0x24
	RegNR51 = 0x25
	RegNR52 = 0x26

	WaveRAMStart = 0x30
	WaveRAMEnd   = 0x3F
)

// cpuClockHz and sampleRateHz drive the sample-rate accumulator: an
// integer Bresenham-style counter rather than a truncated flat divider,
// so the long-run output rate is exactly sampleRateHz with no drift.
const (
	cpuClockHz   = 4194304
	sampleRateHz = 44100
)

// APU is the Game Boy's Audio Processing Unit: four channels mixed
// through NR50 (volume) and NR51 (panning), gated by NR52's master
// enable, clocked by a 512Hz frame sequencer that Tick drives from its
// own 8192-T-cycle counter (not from the timer's DIV register).
type APU struct {
	sink audio.Sink

	enabled bool
	nr50    uint8
	nr51    uint8

	ch1 *channel1
	ch2 *channel2
	ch3 *channel3
	ch4 *channel4

	seqStep   uint8
	seqTimer  int32
	sampleAcc int32
}

// New returns an APU pushing mixed samples to sink. A nil sink is
// replaced with audio.Discard.
func New(sink audio.Sink) *APU {
	if sink == nil {
		sink = audio.Discard{}
	}
	return &APU{
		sink: sink,
		ch1:  newChannel1(),
		ch2:  newChannel2(),
		ch3:  newChannel3(),
		ch4:  newChannel4(),
	}
}

// Tick advances the APU by tCycles T-cycles: channel frequency
// timers, the 512Hz frame sequencer, and the fixed-rate sample
// accumulator that feeds the Sink.
func (a *APU) Tick(tCycles int) {
	if !a.enabled {
		return
	}

	a.ch1.tick(tCycles)
	a.ch2.tick(tCycles)
	a.ch3.tick(tCycles)
	a.ch4.tick(tCycles)

	a.seqTimer -= int32(tCycles)
	for a.seqTimer <= 0 {
		a.seqTimer += 8192 // 4,194,304 / 512
		a.clockSequencer()
	}

	// accumulate in units of cycles*sampleRateHz and emit a sample every
	// time the running total passes a full cpuClockHz worth of cycles;
	// the remainder carries forward instead of being dropped, so the
	// average rate over time is exactly sampleRateHz/cpuClockHz.
	acc := int64(a.sampleAcc) + int64(tCycles)*sampleRateHz
	for acc >= cpuClockHz {
		acc -= cpuClockHz
		a.pushSample()
	}
	a.sampleAcc = int32(acc)
}

// clockSequencer runs one step of the frame sequencer: length
// counters clock on steps 0,2,4,6, the sweep unit on 2 and 6, and
// envelopes on step 7.
func (a *APU) clockSequencer() {
	switch a.seqStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.ch1.clockSweep()
	case 7:
		a.ch1.env.clock()
		a.ch2.env.clock()
		a.ch4.env.clock()
	}
	a.seqStep = (a.seqStep + 1) % 8
}

func (a *APU) clockLength() {
	if a.ch1.length.clock() {
		a.ch1.enabled = false
	}
	if a.ch2.length.clock() {
		a.ch2.enabled = false
	}
	if a.ch3.length.clock() {
		a.ch3.enabled = false
	}
	if a.ch4.length.clock() {
		a.ch4.enabled = false
	}
}

func (a *APU) pushSample() {
	if !a.enabled {
		a.sink.PushSample(0, 0)
		return
	}

	s1, s2, s3, s4 := a.ch1.sample(), a.ch2.sample(), a.ch3.sample(), a.ch4.sample()

	var left, right float32
	if a.nr51&0x10 != 0 {
		left += s1
	}
	if a.nr51&0x20 != 0 {
		left += s2
	}
	if a.nr51&0x40 != 0 {
		left += s3
	}
	if a.nr51&0x80 != 0 {
		left += s4
	}
	if a.nr51&0x01 != 0 {
		right += s1
	}
	if a.nr51&0x02 != 0 {
		right += s2
	}
	if a.nr51&0x04 != 0 {
		right += s3
	}
	if a.nr51&0x08 != 0 {
		right += s4
	}

	leftVol := float32((a.nr50>>4)&0x7+1) / 8
	rightVol := float32(a.nr50&0x7+1) / 8

	a.sink.PushSample((left/4)*leftVol, (right/4)*rightVol)
}

// Read dispatches an I/O-page read for addr (relative to 0xFF00).
func (a *APU) Read(addr uint8) uint8 {
	switch {
	case addr == RegNR10:
		return a.ch1.readNR10()
	case addr == RegNR11:
		return a.ch1.duty<<6 | 0x3F
	case addr == RegNR12:
		return a.ch1.env.initial<<4 | boolBit(a.ch1.env.up, 3) | a.ch1.env.period
	case addr == RegNR14:
		return boolBit(a.ch1.length.enabled, 6) | 0xBF

	case addr == RegNR21:
		return a.ch2.duty<<6 | 0x3F
	case addr == RegNR22:
		return a.ch2.env.initial<<4 | boolBit(a.ch2.env.up, 3) | a.ch2.env.period
	case addr == RegNR24:
		return boolBit(a.ch2.length.enabled, 6) | 0xBF

	case addr == RegNR30:
		return boolBit(a.ch3.dacOn, 7) | 0x7F
	case addr == RegNR32:
		return a.ch3.volumeCode<<5 | 0x9F
	case addr == RegNR34:
		return boolBit(a.ch3.length.enabled, 6) | 0xBF

	case addr == RegNR42:
		return a.ch4.env.initial<<4 | boolBit(a.ch4.env.up, 3) | a.ch4.env.period
	case addr == RegNR43:
		return a.ch4.shiftAmount<<4 | boolBit(a.ch4.widthMode7, 3) | a.ch4.divisorCode
	case addr == RegNR44:
		return boolBit(a.ch4.length.enabled, 6) | 0xBF

	case addr == RegNR50:
		return a.nr50
	case addr == RegNR51:
		return a.nr51
	case addr == RegNR52:
		return a.readNR52()

	case addr >= WaveRAMStart && addr <= WaveRAMEnd:
		return a.ch3.readWave(addr - WaveRAMStart)
	}
	return 0xFF
}

// Write dispatches an I/O-page write for addr (relative to 0xFF00).
// Writes other than to NR52 and Wave RAM are ignored while the APU is
// powered off, matching hardware.
func (a *APU) Write(addr uint8, v uint8) {
	if addr == RegNR52 {
		a.writeNR52(v)
		return
	}
	if addr >= WaveRAMStart && addr <= WaveRAMEnd {
		a.ch3.writeWave(addr-WaveRAMStart, v)
		return
	}
	if !a.enabled {
		return
	}

	switch addr {
	case RegNR10:
		a.ch1.writeNR10(v)
	case RegNR11:
		a.ch1.writeNR11(v)
	case RegNR12:
		a.ch1.writeNR12(v)
	case RegNR13:
		a.ch1.writeNR13(v)
	case RegNR14:
		a.ch1.writeNR14(v)

	case RegNR21:
		a.ch2.writeNR21(v)
	case RegNR22:
		a.ch2.writeNR22(v)
	case RegNR23:
		a.ch2.writeNR23(v)
	case RegNR24:
		a.ch2.writeNR24(v)

	case RegNR30:
		a.ch3.writeNR30(v)
	case RegNR31:
		a.ch3.writeNR31(v)
	case RegNR32:
		a.ch3.writeNR32(v)
	case RegNR33:
		a.ch3.writeNR33(v)
	case RegNR34:
		a.ch3.writeNR34(v)

	case RegNR41:
		a.ch4.writeNR41(v)
	case RegNR42:
		a.ch4.writeNR42(v)
	case RegNR43:
		a.ch4.writeNR43(v)
	case RegNR44:
		a.ch4.writeNR44(v)

	case RegNR50:
		a.nr50 = v
	case RegNR51:
		a.nr51 = v
	}
}

func (a *APU) readNR52() uint8 {
	v := uint8(0x70)
	v |= boolBit(a.enabled, 7)
	v |= boolBit(a.ch1.enabled, 0)
	v |= boolBit(a.ch2.enabled, 1)
	v |= boolBit(a.ch3.enabled, 2)
	v |= boolBit(a.ch4.enabled, 3)
	return v
}

// writeNR52 toggles the master enable. Powering off clears every
// register and channel except Wave RAM, which keeps its contents;
// powering on resets the frame sequencer step,
// matching the DMG's documented reset behaviour.
func (a *APU) writeNR52(v uint8) {
	on := v&0x80 != 0
	if on == a.enabled {
		return
	}
	a.enabled = on
	if !on {
		a.nr50, a.nr51 = 0, 0
		wave := a.ch3.wave
		a.ch1 = newChannel1()
		a.ch2 = newChannel2()
		a.ch3 = newChannel3()
		a.ch3.wave = wave
		a.ch4 = newChannel4()
		return
	}
	a.seqStep = 0
}

func boolBit(b bool, bit uint8) uint8 {
	if b {
		return 1 << bit
	}
	return 0
}

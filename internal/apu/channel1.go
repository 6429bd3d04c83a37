package apu

// dutyTable holds the four 8-step waveform patterns shared by
// channels 1 and 2, selected by NRx1 bits 6-7.
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{1, 0, 0, 0, 0, 0, 0, 1}, // 25%
	{1, 0, 0, 0, 0, 1, 1, 1}, // 50%
	{0, 1, 1, 1, 1, 1, 1, 0}, // 75%
}

// channel1 is the square wave channel with frequency sweep.
type channel1 struct {
	length   lengthCounter
	env      envelope
	enabled  bool
	dacOn    bool

	duty     uint8
	dutyStep uint8

	freq     uint16
	timer    int32

	sweepPeriod uint8
	sweepUp     bool
	sweepShift  uint8
	sweepTimer  uint8
	sweepEnabled bool
	shadowFreq  uint16
}

func newChannel1() *channel1 {
	c := &channel1{}
	c.length.full = 64
	return c
}

func (c *channel1) writeNR10(v uint8) {
	c.sweepPeriod = (v >> 4) & 0x7
	c.sweepUp = v&0x08 == 0
	c.sweepShift = v & 0x7
}

func (c *channel1) readNR10() uint8 {
	v := (c.sweepPeriod << 4) & 0x70
	if !c.sweepUp {
		v |= 0x08
	}
	return v | c.sweepShift | 0x80
}

func (c *channel1) writeNR11(v uint8) {
	c.duty = v >> 6
	c.length.load(uint16(v & 0x3F))
}

func (c *channel1) writeNR12(v uint8) {
	c.env.initial = v >> 4
	c.env.up = v&0x08 != 0
	c.env.period = v & 0x7
	c.dacOn = dacFromNRx2(v)
	if !c.dacOn {
		c.enabled = false
	}
}

func (c *channel1) writeNR13(v uint8) {
	c.freq = c.freq&0x700 | uint16(v)
}

func (c *channel1) writeNR14(v uint8) {
	c.freq = c.freq&0xFF | uint16(v&0x7)<<8
	c.length.enabled = v&0x40 != 0
	if v&0x80 != 0 {
		c.trigger()
	}
}

func (c *channel1) trigger() {
	if c.dacOn {
		c.enabled = true
	}
	if c.length.counter == 0 {
		c.length.counter = c.length.full
	}
	c.timer = (2048 - int32(c.freq)) * 4
	c.env.trigger()

	c.shadowFreq = c.freq
	c.sweepTimer = c.sweepPeriod
	if c.sweepTimer == 0 {
		c.sweepTimer = 8
	}
	c.sweepEnabled = c.sweepPeriod != 0 || c.sweepShift != 0
	if c.sweepShift != 0 {
		c.sweepCalculate()
	}
}

// sweepCalculate computes the next shadow frequency and disables the
// channel on overflow, matching the real unit's quirk of performing
// the overflow check even for a sweep that will never be clocked.
func (c *channel1) sweepCalculate() uint16 {
	delta := c.shadowFreq >> c.sweepShift
	var next uint16
	if c.sweepUp {
		next = c.shadowFreq + delta
	} else {
		next = c.shadowFreq - delta
	}
	if next > 2047 {
		c.enabled = false
	}
	return next
}

func (c *channel1) clockSweep() {
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	c.sweepTimer = c.sweepPeriod
	if c.sweepTimer == 0 {
		c.sweepTimer = 8
	}
	if !c.sweepEnabled || c.sweepPeriod == 0 {
		return
	}
	next := c.sweepCalculate()
	if next <= 2047 && c.sweepShift != 0 {
		c.shadowFreq = next
		c.freq = next
		c.sweepCalculate()
	}
}

func (c *channel1) tick(tCycles int) {
	c.timer -= int32(tCycles)
	for c.timer <= 0 {
		c.timer += (2048 - int32(c.freq)) * 4
		c.dutyStep = (c.dutyStep + 1) % 8
	}
}

func (c *channel1) sample() float32 {
	if !c.enabled || !c.dacOn {
		return 0
	}
	if dutyTable[c.duty][c.dutyStep] == 0 {
		return 0
	}
	return (float32(c.env.volume)/15)*2 - 1
}

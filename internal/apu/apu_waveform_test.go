package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thelolagemann/gomeboycore/pkg/waveplot"
)

// capturingSink records every pushed sample instead of discarding it,
// standing in for a real audio backend so a test can inspect the APU's
// output waveform.
type capturingSink struct {
	left, right []float32
}

func (s *capturingSink) PushSample(l, r float32) {
	s.left = append(s.left, l)
	s.right = append(s.right, r)
}
func (s *capturingSink) Flush() {}

// TestWaveformRendersChannel1Output drives channel 1 for one frame's
// worth of T-cycles and renders the captured left channel to a PNG
// waveform, the way a developer eyeballing APU output without an
// audio backend would.
func TestWaveformRendersChannel1Output(t *testing.T) {
	sink := &capturingSink{}
	a := New(sink)
	a.Write(RegNR52, 0x80) // power on
	a.Write(RegNR50, 0x77) // max volume, both channels unmuted
	a.Write(RegNR51, 0x11) // channel 1 routed to both left and right
	a.Write(RegNR10, 0x00)
	a.Write(RegNR11, 0x80) // 50% duty
	a.Write(RegNR12, 0xF0) // max volume, DAC on
	a.Write(RegNR13, 0x00)
	a.Write(RegNR14, 0x87) // trigger, high freq bits

	const cyclesPerFrame = 70224 // one video frame at the base clock
	a.Tick(cyclesPerFrame)

	assert.NotEmpty(t, sink.left, "the accumulator must have pushed at least one sample")

	png, err := waveplot.Render(sink.left, 320, 120)
	assert.NoError(t, err)
	assert.True(t, len(png) > 8 && string(png[1:4]) == "PNG", "waveplot.Render must return a PNG-encoded image")
}

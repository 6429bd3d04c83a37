// Package audio defines the core's audio output contract. The concrete
// SDL2-backed sink for host frontends is in the sdlsink sub-package.
package audio

// Sink receives stereo samples from the APU at a constant sample rate
// fixed at construction (the core defaults to 44100 Hz). Each value is
// in [-1.0, 1.0]. Flush is an optional hint that the sink may use to
// drain any internal buffering; sinks that don't buffer can leave it a
// no-op.
type Sink interface {
	PushSample(left, right float32)
	Flush()
}

// Discard is a Sink that drops every sample; useful for running the
// core headless (tests, the scheduler's own unit tests).
type Discard struct{}

func (Discard) PushSample(float32, float32) {}
func (Discard) Flush()                      {}

// Package sdlsink provides a concrete audio.Sink backed by SDL2's
// audio queue, for hosts that want sound without writing their own
// backend.
package sdlsink

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/thelolagemann/gomeboycore/internal/log"
)

// SampleRate is the fixed output rate the core's APU assumes.
const SampleRate = 44100

// Sink queues interleaved stereo float32 samples to an SDL audio
// device opened in callback-free "queue" mode.
type Sink struct {
	deviceID sdl.AudioDeviceID
	buf      []float32
}

// New opens an SDL audio device at SampleRate and returns a Sink
// writing to it. The caller must have already called sdl.Init(sdl.INIT_AUDIO).
func New() (*Sink, error) {
	spec := &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 2,
		Samples:  1024,
	}
	id, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, err
	}
	sdl.PauseAudioDevice(id, false)
	return &Sink{deviceID: id}, nil
}

// PushSample implements audio.Sink.
func (s *Sink) PushSample(left, right float32) {
	s.buf = append(s.buf, left, right)
	// flush in modest batches rather than one QueueAudio call per
	// sample, to keep the syscall rate sane at 44.1kHz
	if len(s.buf) >= 512 {
		s.Flush()
	}
}

// Flush implements audio.Sink, pushing any buffered samples to SDL.
func (s *Sink) Flush() {
	if len(s.buf) == 0 {
		return
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s.buf[0])), len(s.buf)*4)
	if err := sdl.QueueAudio(s.deviceID, bytes); err != nil {
		log.Default.WithError(err).Warn("sdlsink: QueueAudio failed")
	}
	s.buf = s.buf[:0]
}

// Close stops and releases the SDL audio device.
func (s *Sink) Close() {
	sdl.CloseAudioDevice(s.deviceID)
}

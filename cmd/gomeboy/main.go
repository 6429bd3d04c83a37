// Command gomeboy is a minimal SDL2-backed frontend demonstrating the
// core: it loads a ROM, runs it frame after frame with no speed pacing
// of its own, and presents the framebuffer in a window.
package main

import (
	"flag"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/thelolagemann/gomeboycore/internal/cartridge"
	"github.com/thelolagemann/gomeboycore/internal/gameboy"
	"github.com/thelolagemann/gomeboycore/internal/log"
	"github.com/thelolagemann/gomeboycore/internal/romload"
	"github.com/thelolagemann/gomeboycore/pkg/audio/sdlsink"
	"github.com/thelolagemann/gomeboycore/pkg/framebuffer"
)

const (
	windowScale = 4
	title       = "gomeboycore"
)

func main() {
	romPath := flag.String("rom", "", "path to a .gb/.gbc ROM image (or a .7z/.br archive containing one)")
	forceCGB := flag.Bool("cgb", false, "force Color Game Boy mode regardless of cartridge header")
	mute := flag.Bool("mute", false, "disable audio output")
	flag.Parse()

	if *romPath == "" {
		log.Default.Fatal("gomeboy: -rom is required")
	}

	if err := run(*romPath, *forceCGB, *mute); err != nil {
		log.Default.WithError(err).Fatal("gomeboy: fatal error")
	}
}

func run(romPath string, forceCGB, mute bool) error {
	data, err := romload.Load(romPath)
	if err != nil {
		return err
	}
	if err := romload.Detect(data); err != nil {
		log.Default.WithError(err).Warn("gomeboy: ROM header sanity check failed, continuing anyway")
	}

	cart, err := cartridge.Load(data)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	var opts []gameboy.Option
	if forceCGB {
		opts = append(opts, gameboy.WithCGB(true))
	}

	var sink *sdlsink.Sink
	if !mute {
		sink, err = sdlsink.New()
		if err != nil {
			log.Default.WithError(err).Warn("gomeboy: audio init failed, running muted")
		} else {
			defer sink.Close()
			opts = append(opts, gameboy.WithAudioSink(sink))
		}
	}

	gb := gameboy.New(cart, opts...)

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		framebuffer.Width*windowScale, framebuffer.Height*windowScale, sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		framebuffer.Width, framebuffer.Height)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	frame := framebuffer.New()

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				return nil
			}
		}

		gb.RunFrame(frame)
		if err := presentFrame(texture, renderer, frame); err != nil {
			return err
		}
		if sink != nil {
			sink.Flush()
		}
	}
}

func presentFrame(texture *sdl.Texture, renderer *sdl.Renderer, frame *framebuffer.Buffer) error {
	snapshot := frame.Snapshot()
	pixels := make([]byte, 0, framebuffer.Width*framebuffer.Height*3)
	for y := 0; y < framebuffer.Height; y++ {
		for x := 0; x < framebuffer.Width; x++ {
			p := snapshot[y][x]
			pixels = append(pixels, p[0], p[1], p[2])
		}
	}
	if err := texture.Update(nil, pixels, framebuffer.Width*3); err != nil {
		return err
	}
	renderer.Clear()
	renderer.Copy(texture, nil, nil)
	renderer.Present()
	return nil
}

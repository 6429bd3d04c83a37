// Package framebuffer provides the core's pixel sink: a fixed
// 160x144 grid of 24-bit RGB pixels, plus a BMP snapshot encoder for
// hosts that want to dump a frame without a full display backend.
package framebuffer

import (
	"bytes"
	"image"
	"image/color"

	"golang.org/x/image/bmp"
)

const (
	Width  = 160
	Height = 144
)

// Sink is a 160x144 pixel target. PutPixel writes one pixel;
// out-of-range coordinates are silently ignored. Snapshot returns the
// most recently completed frame. The core's scheduler fills a Buffer
// once per frame through LoadFrame and does not call PutPixel.
type Sink interface {
	PutPixel(x, y int, r, g, b uint8)
	Snapshot() [Height][Width][3]uint8
}

// Buffer is the default Sink: a flat, heap-allocated-once array of
// packed pixels (no per-pixel allocation, per the core's no-GC-churn
// design).
type Buffer struct {
	pixels [Height][Width][3]uint8
}

// New returns an empty (black) Buffer.
func New() *Buffer { return &Buffer{} }

// PutPixel implements Sink.
func (b *Buffer) PutPixel(x, y int, r, g, bl uint8) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	b.pixels[y][x] = [3]uint8{r, g, bl}
}

// Snapshot implements Sink.
func (b *Buffer) Snapshot() [Height][Width][3]uint8 {
	return b.pixels
}

// LoadFrame replaces the buffer's contents wholesale; the scheduler
// calls this once per completed frame instead of looping PutPixel.
func (b *Buffer) LoadFrame(frame [Height][Width][3]uint8) {
	b.pixels = frame
}

// EncodeBMP renders the current frame to a BMP image, using
// golang.org/x/image/bmp so hosts can dump a screenshot without
// pulling in PNG/JPEG codecs.
func (b *Buffer) EncodeBMP() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p := b.pixels[y][x]
			img.SetRGBA(x, y, color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

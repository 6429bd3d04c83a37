// Package waveplot renders a captured sample buffer to a PNG waveform
// image, for APU debugging and test-fixture visualization.
package waveplot

import (
	"bytes"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Render draws samples (as pushed by an audio.Sink, one value per
// channel-interleaved pair flattened by the caller) as a single line
// plot and returns PNG-encoded bytes sized w x h points.
func Render(samples []float32, w, h vg.Length) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "waveform"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(s)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(line)

	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Channel splits interleaved stereo samples into separate left/right
// slices, for plotting one channel at a time.
func Channel(interleaved []float32, right bool) []float32 {
	out := make([]float32, 0, len(interleaved)/2)
	start := 0
	if right {
		start = 1
	}
	for i := start; i < len(interleaved); i += 2 {
		out = append(out, interleaved[i])
	}
	return out
}

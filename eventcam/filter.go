// Package eventcam simulates an event camera over rendered frames.
//
// Each pixel compares the log luminance of the current frame against a
// comparison frame. Changes past a threshold fire a positive or negative event;
// otherwise previously fired events fade. The renderer runs the same math as a
// fragment shader; this package is the reference used for offline frames and tests.
package eventcam

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Epsilon floors luminance before taking its logarithm.
const Epsilon = 1e-4

// ErrFrameSize is returned when frames passed to one Compute call differ in size.
var ErrFrameSize = errors.New("eventcam: frame size mismatch")

// Params tunes the filter.
type Params struct {
	PosThreshold  float64
	NegThreshold  float64
	DecayRate     float64
	NoiseStrength float64
	Seed          float64
}

// DefaultParams returns the stock sensor tuning.
func DefaultParams() Params {
	return Params{
		PosThreshold:  0.04,
		NegThreshold:  -0.04,
		DecayRate:     0.01,
		NoiseStrength: 0.081,
	}
}

// Frame is a rendered color frame, row-major from the top-left pixel.
type Frame struct {
	Width  int
	Height int
	Pix    []color.RGBA
}

// NewFrame allocates a black frame.
func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]color.RGBA, w*h)}
}

// FrameFromImage copies any image into a Frame.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.Pix[y*f.Width+x] = color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
		}
	}
	return f
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Pix: make([]color.RGBA, len(f.Pix))}
	copy(c.Pix, f.Pix)
	return c
}

// EventFrame holds per-pixel event charges in [0, 1].
type EventFrame struct {
	Width  int
	Height int
	Pos    []float32 // Brightness increase events
	Neg    []float32 // Brightness decrease events
}

// NewEventFrame allocates an empty event frame.
func NewEventFrame(w, h int) *EventFrame {
	return &EventFrame{Width: w, Height: h, Pos: make([]float32, w*h), Neg: make([]float32, w*h)}
}

// Image renders positive events in red and negative events in blue.
func (e *EventFrame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	for i := range e.Pos {
		img.Pix[i*4+0] = channel(e.Pos[i])
		img.Pix[i*4+2] = channel(e.Neg[i])
		img.Pix[i*4+3] = 255
	}
	return img
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// Luminance returns the Rec. 601 luma of c in [Epsilon, 1].
func Luminance(c color.RGBA) float64 {
	l := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	return math.Max(l, Epsilon)
}

// Classify applies the threshold policy to one pixel.
func Classify(logDiff, prevPos, prevNeg float64, p Params) (pos, neg float64) {
	switch {
	case logDiff > p.PosThreshold:
		return 1, 0
	case logDiff < p.NegThreshold:
		return 0, 1
	default:
		k := 1 - p.DecayRate
		return prevPos * k, prevNeg * k
	}
}

// Noise returns zero-mean sensor noise for texture coordinate (u, v).
// The hash matches the common GLSL one-liner so both paths agree.
func Noise(u, v, time float64, p Params) float64 {
	if p.NoiseStrength == 0 {
		return 0
	}
	off := time + p.Seed
	return (hash(u+off, v+off) - 0.5) * p.NoiseStrength
}

func hash(x, y float64) float64 {
	s := math.Sin(x*12.9898+y*78.233) * 43758.5453
	return s - math.Floor(s)
}

// Filter carries the persistence buffer between frames.
type Filter struct {
	params      Params
	persistence *EventFrame
}

// NewFilter creates a filter with an empty persistence buffer.
func NewFilter(p Params) *Filter {
	return &Filter{params: p}
}

// Params returns the filter tuning.
func (f *Filter) Params() Params { return f.params }

// Reset clears the persistence buffer.
func (f *Filter) Reset() { f.persistence = nil }

// Compute produces the event frame for current. While paused the comparison
// frame is lastActive, otherwise previous. A nil comparison frame compares
// current with itself, so only noise and decay apply. The result becomes the
// persistence buffer for the next call.
func (f *Filter) Compute(current, previous, lastActive *Frame, paused bool, time float64) (*EventFrame, error) {
	if current == nil {
		return nil, fmt.Errorf("%w: no current frame", ErrFrameSize)
	}
	if len(current.Pix) != current.Width*current.Height {
		return nil, fmt.Errorf("%w: %dx%d frame has %d pixels", ErrFrameSize, current.Width, current.Height, len(current.Pix))
	}

	cmp := previous
	if paused {
		cmp = lastActive
	}
	if cmp == nil {
		cmp = current
	}
	if cmp.Width != current.Width || cmp.Height != current.Height || len(cmp.Pix) != len(current.Pix) {
		return nil, fmt.Errorf("%w: current %dx%d, comparison %dx%d",
			ErrFrameSize, current.Width, current.Height, cmp.Width, cmp.Height)
	}

	w, h := current.Width, current.Height
	if f.persistence == nil || f.persistence.Width != w || f.persistence.Height != h {
		f.persistence = NewEventFrame(w, h)
	}

	out := NewEventFrame(w, h)
	for y := 0; y < h; y++ {
		v := 1 - (float64(y)+0.5)/float64(h)
		for x := 0; x < w; x++ {
			i := y*w + x
			u := (float64(x) + 0.5) / float64(w)

			logDiff := math.Log(Luminance(current.Pix[i])) - math.Log(Luminance(cmp.Pix[i]))
			logDiff += Noise(u, v, time, f.params)

			pos, neg := Classify(logDiff, float64(f.persistence.Pos[i]), float64(f.persistence.Neg[i]), f.params)
			out.Pos[i] = float32(pos)
			out.Neg[i] = float32(neg)
		}
	}

	f.persistence = out
	return out, nil
}

package particles

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Surface is anything a frame can be drawn onto.
type Surface interface {
	Clear()
	FillCircle(center Vec, radius float64, c colorful.Color, alpha float64)
	StrokeLine(from, to Vec, c colorful.Color, alpha float64)
}

// Resizer is implemented by surfaces whose pixel size follows the viewport.
type Resizer interface {
	Resize(width, height int)
}

// Circle is a recorded FillCircle call.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"color"`
	Alpha  float64 `json:"alpha"`
}

// Line is a recorded StrokeLine call.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

// Frame is one recorded drawing, in the shape the browser replays it.
type Frame struct {
	Seq     uint64   `json:"seq"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Circles []Circle `json:"circles"`
	Lines   []Line   `json:"lines"`
}

// Recorder is a Surface that keeps the draw calls of the latest frame.
type Recorder struct {
	width, height int
	clears        uint64
	circles       []Circle
	lines         []Line
}

// NewRecorder returns a recorder reporting the given pixel size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Clear() {
	r.clears++
	r.circles = r.circles[:0]
	r.lines = r.lines[:0]
}

func (r *Recorder) FillCircle(center Vec, radius float64, c colorful.Color, alpha float64) {
	r.circles = append(r.circles, Circle{X: center.X, Y: center.Y, Radius: radius, Color: c.Hex(), Alpha: alpha})
}

func (r *Recorder) StrokeLine(from, to Vec, c colorful.Color, alpha float64) {
	r.lines = append(r.lines, Line{X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y, Color: c.Hex(), Alpha: alpha})
}

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
}

// Clears is the number of frames started on this recorder.
func (r *Recorder) Clears() uint64 { return r.clears }

// Frame copies out the current drawing.
func (r *Recorder) Frame() Frame {
	f := Frame{
		Seq:     r.clears,
		Width:   r.width,
		Height:  r.height,
		Circles: make([]Circle, len(r.circles)),
		Lines:   make([]Line, len(r.lines)),
	}
	copy(f.Circles, r.circles)
	copy(f.Lines, r.lines)
	return f
}

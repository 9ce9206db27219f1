package particles

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// strokeOpacity is the base opacity of the connection colour; the distance
// alpha is applied on top of it.
const strokeOpacity = 0.1

// Raster draws frames into an RGBA bitmap.
type Raster struct {
	img        *image.RGBA
	background colorful.Color
}

// NewRaster allocates a width x height bitmap cleared to background.
func NewRaster(width, height int, background colorful.Color) *Raster {
	r := &Raster{background: background}
	r.Resize(width, height)
	return r
}

// Resize reallocates the bitmap. The previous contents are lost.
func (r *Raster) Resize(width, height int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	r.Clear()
}

// Image exposes the bitmap.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
}

func (r *Raster) FillCircle(center Vec, radius float64, c colorful.Color, alpha float64) {
	b := r.img.Bounds()
	x0 := max(int(math.Floor(center.X-radius)), b.Min.X)
	x1 := min(int(math.Ceil(center.X+radius)), b.Max.X-1)
	y0 := max(int(math.Floor(center.Y-radius)), b.Min.Y)
	y1 := min(int(math.Ceil(center.Y+radius)), b.Max.Y-1)
	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= r2 {
				r.blend(x, y, c, alpha)
			}
		}
	}
}

func (r *Raster) StrokeLine(from, to Vec, c colorful.Color, alpha float64) {
	a := alpha * strokeOpacity
	steps := int(math.Ceil(math.Max(math.Abs(to.X-from.X), math.Abs(to.Y-from.Y))))
	if steps == 0 {
		r.blendAt(from, c, a)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.blendAt(Vec{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}, c, a)
	}
}

// EncodePNG writes the bitmap as a PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

func (r *Raster) blendAt(p Vec, c colorful.Color, alpha float64) {
	r.blend(int(math.Floor(p.X)), int(math.Floor(p.Y)), c, alpha)
}

func (r *Raster) blend(x, y int, c colorful.Color, alpha float64) {
	if !(image.Point{X: x, Y: y}).In(r.img.Bounds()) {
		return
	}
	dst, _ := colorful.MakeColor(r.img.RGBAAt(x, y))
	r.img.Set(x, y, dst.BlendRgb(c, math.Min(math.Max(alpha, 0), 1)).Clamped())
}

package particles

import (
	"math/rand/v2"
	"sync"

	"github.com/Zachkp/portfolio/internal/theme"
)

// Renderer binds a Field to the Surface it is drawn on. Once disposed, or
// while it has no surface, frames are skipped.
type Renderer struct {
	mu       sync.Mutex
	field    *Field
	surface  Surface
	disposed bool
	frames   uint64
}

// NewRenderer creates a field of width x height in palette p and attaches s.
func NewRenderer(width, height int, p theme.Palette, s Surface, rng *rand.Rand) *Renderer {
	f := NewField(rng)
	f.Initialize(float64(width), float64(height), p)
	return &Renderer{field: f, surface: s}
}

// Frame advances the field one step and draws it. It reports whether a frame
// was produced.
func (r *Renderer) Frame() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.usable() {
		return false
	}
	r.field.Advance()
	r.field.Render(r.surface)
	r.frames++
	return true
}

// Advance steps the simulation without drawing.
func (r *Renderer) Advance() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.usable() {
		return false
	}
	r.field.Advance()
	return true
}

// Render draws the current state without stepping.
func (r *Renderer) Render() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.usable() {
		return false
	}
	r.field.Render(r.surface)
	return true
}

// Resize updates the wrap bounds and, when the surface supports it, its pixel
// size. Existing particles are left where they are.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	r.field.Resize(float64(width), float64(height))
	if rs, ok := r.surface.(Resizer); ok {
		rs.Resize(width, height)
	}
}

// SetPalette recreates the whole particle set in the new palette, keeping the
// current bounds.
func (r *Renderer) SetPalette(p theme.Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	w, h := r.field.Size()
	r.field.Initialize(w, h, p)
}

// Dispose releases the surface. Later calls are no-ops.
func (r *Renderer) Dispose() {
	r.mu.Lock()
	r.disposed = true
	r.surface = nil
	r.mu.Unlock()
}

// Disposed reports whether Dispose has been called.
func (r *Renderer) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Frames is the number of frames drawn so far.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Particles returns a copy of the particle set.
func (r *Renderer) Particles() []Particle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Particles()
}

// Palette is the palette the particles were created in.
func (r *Renderer) Palette() theme.Palette {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Palette()
}

func (r *Renderer) usable() bool {
	return !r.disposed && r.surface != nil
}

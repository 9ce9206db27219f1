// Package particles animates the decorative network of drifting points behind
// the portfolio: a fixed set of particles that wrap around the viewport and are
// joined by faint lines when they come close to each other.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	// Count is the number of particles in a field.
	Count = 100
	// ConnectDistance is the distance below which two particles are joined.
	ConnectDistance = 150.0
	// MaxLineAlpha is the alpha of a connection between coincident particles.
	MaxLineAlpha = 0.5

	maxSpeed    = 0.25
	minRadius   = 1.0
	radiusSpan  = 3.0
	minOpacity  = 0.1
	opacitySpan = 0.5
)

// Vec is a point or a displacement on the drawing surface.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist is the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Particle is a single animated point. Only Pos changes after creation.
type Particle struct {
	Pos     Vec
	Vel     Vec
	Radius  float64
	Opacity float64
	Color   colorful.Color
}

// Connection joins particles A and B (A < B) with the given line alpha.
type Connection struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	Alpha float64 `json:"alpha"`
}

// Field owns the particle set and the dimensions it wraps around.
type Field struct {
	width, height float64
	palette       theme.Palette
	particles     []Particle
	rng           *rand.Rand
}

// NewField returns an empty field. A nil rng gets a randomly seeded one.
func NewField(rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Field{rng: rng}
}

// Initialize discards any existing particles and creates Count new ones spread
// uniformly over width x height, coloured from the palette's hue band.
func (f *Field) Initialize(width, height float64, p theme.Palette) {
	f.width = math.Max(width, 0)
	f.height = math.Max(height, 0)
	f.palette = p

	band := p.ParticleHues()
	f.particles = make([]Particle, Count)
	for i := range f.particles {
		f.particles[i] = Particle{
			Pos: Vec{
				X: wrap(f.rng.Float64()*f.width, f.width),
				Y: wrap(f.rng.Float64()*f.height, f.height),
			},
			Vel: Vec{
				X: (f.rng.Float64()*2 - 1) * maxSpeed,
				Y: (f.rng.Float64()*2 - 1) * maxSpeed,
			},
			Radius:  minRadius + f.rng.Float64()*radiusSpan,
			Opacity: minOpacity + f.rng.Float64()*opacitySpan,
			Color:   band.Pick(f.rng),
		}
	}
}

// Advance moves every particle by its velocity, wrapping toroidally.
func (f *Field) Advance() {
	for i := range f.particles {
		p := &f.particles[i]
		p.Pos.X = wrap(p.Pos.X+p.Vel.X, f.width)
		p.Pos.Y = wrap(p.Pos.Y+p.Vel.Y, f.height)
	}
}

// Resize changes the wrap bounds only. Particles keep their absolute
// positions and are folded back into range on the next Advance.
func (f *Field) Resize(width, height float64) {
	f.width = math.Max(width, 0)
	f.height = math.Max(height, 0)
}

// Size returns the current wrap bounds.
func (f *Field) Size() (width, height float64) { return f.width, f.height }

// Palette returns the palette the particles were created with.
func (f *Field) Palette() theme.Palette { return f.palette }

// Particles returns a copy of the current particle set.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Connections lists every unordered pair closer than ConnectDistance.
func (f *Field) Connections() []Connection {
	var out []Connection
	for i := range f.particles {
		for j := i + 1; j < len(f.particles); j++ {
			d := f.particles[i].Pos.Dist(f.particles[j].Pos)
			if d < ConnectDistance {
				out = append(out, Connection{A: i, B: j, Alpha: ConnectionAlpha(d)})
			}
		}
	}
	return out
}

// Render clears s and draws every particle followed by its connections to
// later particles, so each pair is stroked once.
func (f *Field) Render(s Surface) {
	s.Clear()
	line := f.palette.LineColor()
	for i := range f.particles {
		p := &f.particles[i]
		s.FillCircle(p.Pos, p.Radius, p.Color, p.Opacity)
		for j := i + 1; j < len(f.particles); j++ {
			q := &f.particles[j]
			if d := p.Pos.Dist(q.Pos); d < ConnectDistance {
				s.StrokeLine(p.Pos, q.Pos, line, ConnectionAlpha(d))
			}
		}
	}
}

// ConnectionAlpha falls linearly from MaxLineAlpha at distance 0 to 0 at
// ConnectDistance and beyond.
func ConnectionAlpha(d float64) float64 {
	if d < 0 || d >= ConnectDistance {
		return 0
	}
	return (ConnectDistance - d) / ConnectDistance * MaxLineAlpha
}

func wrap(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if v >= 0 && v < limit {
		return v
	}
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	// -epsilon + limit can round up to limit
	if v >= limit {
		v = 0
	}
	return v
}

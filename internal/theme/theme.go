// Package theme holds the light/dark palette shared by the page shell and the
// background renderer.
package theme

import (
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the visual mode of the site.
type Palette int

const (
	Dark Palette = iota
	Light
)

// CookieName is where the page shell keeps the visitor's preference.
const CookieName = "theme"

// Default is used when no preference has been stored yet.
const Default = Dark

// Parse reads a stored preference. Anything unrecognised falls back to Default.
func Parse(s string) Palette {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light
	case "dark":
		return Dark
	default:
		return Default
	}
}

func (p Palette) String() string {
	if p == Light {
		return "light"
	}
	return "dark"
}

// Toggle returns the opposite palette.
func (p Palette) Toggle() Palette {
	if p == Light {
		return Dark
	}
	return Light
}

// IsDark reports whether p is the dark palette.
func (p Palette) IsDark() bool { return p != Light }

// HueBand is the half-open range of hues particles are drawn from.
type HueBand struct {
	Min, Max   float64
	Saturation float64
	Lightness  float64
}

// ParticleHues returns the hue band for p: teal/green when dark, blue when light.
func (p Palette) ParticleHues() HueBand {
	if p == Light {
		return HueBand{Min: 200, Max: 260, Saturation: 0.7, Lightness: 0.5}
	}
	return HueBand{Min: 160, Max: 220, Saturation: 0.7, Lightness: 0.6}
}

// Pick draws a colour uniformly from the band.
func (b HueBand) Pick(rng *rand.Rand) colorful.Color {
	h := b.Min + rng.Float64()*(b.Max-b.Min)
	return colorful.Hsl(h, b.Saturation, b.Lightness)
}

// Contains reports whether c lies in the band's hue range.
func (b HueBand) Contains(c colorful.Color) bool {
	h, _, _ := c.Hsl()
	const eps = 1e-6
	return h >= b.Min-eps && h < b.Max+eps
}

// LineColor is the stroke colour for connections between particles.
func (p Palette) LineColor() colorful.Color {
	if p == Light {
		return colorful.Color{R: 59 / 255.0, G: 130 / 255.0, B: 246 / 255.0}
	}
	return colorful.Color{R: 16 / 255.0, G: 185 / 255.0, B: 129 / 255.0}
}

// Background is the page background behind the particle field.
func (p Palette) Background() colorful.Color {
	if p == Light {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	c, _ := colorful.Hex("#111827")
	return c
}

// Foreground is the body text colour.
func (p Palette) Foreground() colorful.Color {
	if p == Light {
		c, _ := colorful.Hex("#111827")
		return c
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

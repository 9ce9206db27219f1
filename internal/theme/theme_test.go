package theme

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Light, Parse("light"))
	assert.Equal(t, Light, Parse(" LIGHT "))
	assert.Equal(t, Dark, Parse("dark"))
	assert.Equal(t, Default, Parse(""))
	assert.Equal(t, Default, Parse("sepia"))
}

func TestToggleRoundTrip(t *testing.T) {
	assert.Equal(t, Light, Dark.Toggle())
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, "dark", Dark.String())
	assert.Equal(t, "light", Light.String())
	assert.True(t, Dark.IsDark())
	assert.False(t, Light.IsDark())
}

func TestHueBandPick(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, p := range []Palette{Dark, Light} {
		band := p.ParticleHues()
		for i := 0; i < 200; i++ {
			c := band.Pick(rng)
			assert.True(t, band.Contains(c), "%s palette produced hue outside band", p)
		}
	}
}

func TestLineColors(t *testing.T) {
	r, g, b := Dark.LineColor().RGB255()
	assert.Equal(t, [3]uint8{16, 185, 129}, [3]uint8{r, g, b})
	r, g, b = Light.LineColor().RGB255()
	assert.Equal(t, [3]uint8{59, 130, 246}, [3]uint8{r, g, b})
}

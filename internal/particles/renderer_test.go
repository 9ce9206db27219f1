package particles

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/theme"
)

func TestRendererFrame(t *testing.T) {
	rec := NewRecorder(320, 240)
	r := NewRenderer(320, 240, theme.Dark, rec, rand.New(rand.NewPCG(1, 1)))

	require.True(t, r.Frame())
	require.True(t, r.Frame())
	assert.Equal(t, uint64(2), r.Frames())
	assert.Equal(t, uint64(2), rec.Clears())
}

func TestRendererNoSurface(t *testing.T) {
	r := NewRenderer(320, 240, theme.Dark, nil, nil)
	before := r.Particles()

	assert.False(t, r.Frame())
	assert.False(t, r.Advance())
	assert.False(t, r.Render())
	assert.Equal(t, before, r.Particles())
}

func TestRendererDispose(t *testing.T) {
	rec := NewRecorder(100, 100)
	r := NewRenderer(100, 100, theme.Light, rec, nil)
	r.Dispose()

	assert.True(t, r.Disposed())
	assert.False(t, r.Frame())
	assert.Equal(t, uint64(0), rec.Clears())
}

func TestRendererResize(t *testing.T) {
	rec := NewRecorder(100, 100)
	r := NewRenderer(100, 100, theme.Dark, rec, nil)
	before := r.Particles()

	r.Resize(640, 480)
	assert.Equal(t, before, r.Particles())
	require.True(t, r.Frame())
	frame := rec.Frame()
	assert.Equal(t, 640, frame.Width)
	assert.Equal(t, 480, frame.Height)
}

func TestRendererSetPalette(t *testing.T) {
	r := NewRenderer(300, 300, theme.Dark, NewRecorder(300, 300), nil)
	r.SetPalette(theme.Light)

	assert.Equal(t, theme.Light, r.Palette())
	band := theme.Light.ParticleHues()
	for _, p := range r.Particles() {
		assert.True(t, band.Contains(p.Color))
	}
}

func TestLoopStop(t *testing.T) {
	r := NewRenderer(200, 200, theme.Dark, NewRecorder(200, 200), nil)
	var frames atomic.Int64
	h := Start(context.Background(), r, 200, func(*Renderer) { frames.Add(1) })

	require.Eventually(t, func() bool { return frames.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	h.Stop()
	h.Stop()

	stopped := frames.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load())
	assert.Equal(t, uint64(stopped), r.Frames())
}

func TestLoopEndsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRenderer(200, 200, theme.Dark, NewRecorder(200, 200), nil)
	h := Start(ctx, r, 100, nil)
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after cancel")
	}
}

func TestLoopEndsOnDispose(t *testing.T) {
	r := NewRenderer(200, 200, theme.Dark, NewRecorder(200, 200), nil)
	h := Start(context.Background(), r, 100, nil)
	r.Dispose()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after dispose")
	}
}

package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/particles"
)

const (
	defaultBackgroundWidth  = 800
	defaultBackgroundHeight = 600
	maxBackgroundWidth      = 3840
	maxBackgroundHeight     = 2160
	maxBackgroundFrames     = 600
)

// boundedInt reads a query parameter and rejects values outside [lo, hi].
func boundedInt(c *gin.Context, key string, def, lo, hi int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": key + " must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		})
		return 0, false
	}
	return v, true
}

func backgroundSize(c *gin.Context) (w, h int, ok bool) {
	if w, ok = boundedInt(c, "w", defaultBackgroundWidth, 1, maxBackgroundWidth); !ok {
		return 0, 0, false
	}
	if h, ok = boundedInt(c, "h", defaultBackgroundHeight, 1, maxBackgroundHeight); !ok {
		return 0, 0, false
	}
	return w, h, true
}

// handleBackgroundPNG renders a still of the field after ?frames= steps.
func (s *Server) handleBackgroundPNG(c *gin.Context) {
	w, h, ok := backgroundSize(c)
	if !ok {
		return
	}
	frames, ok := boundedInt(c, "frames", 60, 0, maxBackgroundFrames)
	if !ok {
		return
	}

	p := paletteFrom(c)
	raster := particles.NewRaster(w, h, p.Background())
	r := particles.NewRenderer(w, h, p, raster, nil)
	defer r.Dispose()
	renderStill(r, frames)

	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := raster.EncodePNG(c.Writer); err != nil {
		s.logger.Warn("encode background", zap.Error(err))
	}
}

// renderStill steps r without drawing, then draws the final state once.
func renderStill(r *particles.Renderer, steps int) {
	for range steps {
		r.Advance()
	}
	r.Render()
}

// handleBackgroundStream runs a field for this client and pushes each frame
// as a server-sent "frame" event until the client goes away. Frames the
// client is too slow to take are dropped.
func (s *Server) handleBackgroundStream(c *gin.Context) {
	w, h, ok := backgroundSize(c)
	if !ok {
		return
	}

	rec := particles.NewRecorder(w, h)
	r := particles.NewRenderer(w, h, paletteFrom(c), rec, nil)
	frames := make(chan particles.Frame, 1)

	ctx := c.Request.Context()
	handle := particles.Start(ctx, r, s.cfg.BackgroundFPS, func(*particles.Renderer) {
		f := rec.Frame()
		select {
		case frames <- f:
		default:
		}
	})
	defer func() {
		handle.Stop()
		r.Dispose()
	}()

	s.metrics.BackgroundStreams.Inc()
	defer s.metrics.BackgroundStreams.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(io.Writer) bool {
		select {
		case f := <-frames:
			c.SSEvent("frame", f)
			return true
		case <-handle.Done():
			return false
		case <-ctx.Done():
			return false
		}
	})
}

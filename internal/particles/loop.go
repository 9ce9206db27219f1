package particles

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultFPS is used when Start is given a non-positive rate.
const DefaultFPS = 60

// Handle controls a running frame loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs r.Frame at fps frames per second on its own goroutine until ctx
// is cancelled, Stop is called, or the renderer is disposed. onFrame, if set,
// is called on the loop goroutine after every drawn frame.
func Start(ctx context.Context, r *Renderer, fps int, onFrame func(r *Renderer)) *Handle {
	if fps <= 0 {
		fps = DefaultFPS
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)

	go func() {
		defer close(h.done)
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if !r.Frame() {
				return
			}
			if onFrame != nil {
				onFrame(r)
			}
		}
	}()
	return h
}

// Stop cancels the loop and waits until no further frame will be drawn.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

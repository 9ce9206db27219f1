package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSessions(ttl time.Duration, max int) (*Sessions, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessions(ttl, max, func() *Engine {
		return NewEngine(WithScheduler(&manualScheduler{}))
	}, nil)
	s.now = clock.now
	return s, clock
}

func TestSessionsGetOrCreate(t *testing.T) {
	s, _ := newTestSessions(time.Minute, 10)

	id, e := s.GetOrCreate("")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Len())

	id2, e2 := s.GetOrCreate(id)
	assert.Equal(t, id, id2)
	assert.Same(t, e, e2)

	got, ok := s.Get(id)
	assert.True(t, ok)
	assert.Same(t, e, got)
}

func TestSessionsRejectsMalformedID(t *testing.T) {
	s, _ := newTestSessions(time.Minute, 10)
	id, _ := s.GetOrCreate("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", id)

	known := uuid.NewString()
	id, _ = s.GetOrCreate(known)
	assert.Equal(t, known, id)
}

func TestSessionsSweep(t *testing.T) {
	s, clock := newTestSessions(10*time.Minute, 10)
	oldID, old := s.GetOrCreate("")
	clock.advance(8 * time.Minute)
	freshID, _ := s.GetOrCreate("")
	clock.advance(5 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	_, ok := s.Get(oldID)
	assert.False(t, ok)
	assert.True(t, old.Closed())
	_, ok = s.Get(freshID)
	assert.True(t, ok)
}

func TestSessionsEvictsLeastRecentlyUsed(t *testing.T) {
	s, clock := newTestSessions(time.Hour, 2)
	a, ea := s.GetOrCreate("")
	clock.advance(time.Second)
	b, _ := s.GetOrCreate("")
	clock.advance(time.Second)
	s.Get(a)
	clock.advance(time.Second)
	s.GetOrCreate("")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(b)
	assert.False(t, ok)
	_, ok = s.Get(a)
	assert.True(t, ok)
	assert.False(t, ea.Closed())
}

func TestSessionsEvictionSparesPendingReplies(t *testing.T) {
	s, clock := newTestSessions(time.Hour, 2)
	busy, eb := s.GetOrCreate("")
	require.True(t, eb.Submit("hello"))
	clock.advance(time.Second)
	idle, ei := s.GetOrCreate("")
	clock.advance(time.Second)
	s.GetOrCreate("")

	_, ok := s.Get(busy)
	assert.True(t, ok)
	assert.False(t, eb.Closed())
	_, ok = s.Get(idle)
	assert.False(t, ok)
	assert.True(t, ei.Closed())
}

func TestSessionsRunClosesOnCancel(t *testing.T) {
	s, _ := newTestSessions(time.Hour, 10)
	_, e := s.GetOrCreate("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, 0, s.Len())
	assert.True(t, e.Closed())
}

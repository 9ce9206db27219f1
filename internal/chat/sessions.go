package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type session struct {
	engine   *Engine
	lastUsed time.Time
}

// Sessions keeps one Engine per visitor, keyed by a session ID the visitor
// carries in a cookie. Idle sessions expire after ttl, and the least recently
// used one is evicted when max is reached, sparing those awaiting a reply.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	factory  func() *Engine
	now      func() time.Time
	logger   *zap.Logger
}

// NewSessions creates an empty store. factory builds the engine of each new
// session.
func NewSessions(ttl time.Duration, max int, factory func() *Engine, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{
		sessions: make(map[string]*session),
		ttl:      ttl,
		max:      max,
		factory:  factory,
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the engine for id without creating one.
func (s *Sessions) Get(id string) (*Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = s.now()
	return sess.engine, true
}

// GetOrCreate returns the engine for id, starting a new conversation when id
// is unknown. Only well-formed UUIDs are reused as keys; anything else gets a
// fresh ID. The effective ID is returned.
func (s *Sessions) GetOrCreate(id string) (string, *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.lastUsed = s.now()
		return id, sess.engine
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	if s.max > 0 && len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	e := s.factory()
	s.sessions[id] = &session{engine: e, lastUsed: s.now()}
	s.logger.Debug("chat session started", zap.String("session", id))
	return id, e
}

// Sweep closes and removes sessions idle for longer than ttl and returns how
// many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			sess.engine.Close()
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.logger.Info("expired chat sessions", zap.Int("count", n), zap.Int("remaining", len(s.sessions)))
	}
	return n
}

// Run sweeps periodically until ctx is done, then closes every session.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close ends every session.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.engine.Close()
		delete(s.sessions, id)
	}
}

// evictOldestLocked closes the least recently used session. Sessions waiting
// on a reply are only chosen when every session is.
func (s *Sessions) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	oldestBusy := true
	for id, sess := range s.sessions {
		busy := sess.engine.Composing()
		better := oldestID == "" ||
			(oldestBusy && !busy) ||
			(busy == oldestBusy && sess.lastUsed.Before(oldest))
		if better {
			oldestID, oldest, oldestBusy = id, sess.lastUsed, busy
		}
	}
	if oldestID == "" {
		return
	}
	s.sessions[oldestID].engine.Close()
	delete(s.sessions, oldestID)
	s.logger.Debug("evicted chat session", zap.String("session", oldestID), zap.Bool("composing", oldestBusy))
}

package chat

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender identifies who wrote a message.
type Sender string

const (
	User Sender = "user"
	Bot  Sender = "bot"
)

// Message is one transcript entry.
type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// State of the pending exchange.
type State int

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

const (
	// MinReplyDelay and MaxReplyDelay bound the simulated typing time.
	MinReplyDelay = 800 * time.Millisecond
	MaxReplyDelay = 2000 * time.Millisecond
)

// Scheduler runs f once after d. The returned func cancels it and reports
// whether f was prevented from running.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the timer used for reply delays.
func WithScheduler(s Scheduler) Option { return func(e *Engine) { e.scheduler = s } }

// WithResponder replaces the default rule table.
func WithResponder(r *Responder) Option { return func(e *Engine) { e.responder = r } }

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithRand seeds the reply delay.
func WithRand(rng *rand.Rand) Option { return func(e *Engine) { e.rng = rng } }

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.logger = l } }

// OnReply is called with the matched rule name after every bot reply, outside
// the engine lock.
func OnReply(fn func(rule string)) Option { return func(e *Engine) { e.onReply = fn } }

// Engine owns one conversation. Submissions are refused while a reply is
// pending; after Close pending replies are dropped.
type Engine struct {
	mu         sync.Mutex
	transcript []Message
	nextID     int
	state      State
	stop       func() bool
	closed     bool
	changed    chan struct{}

	responder *Responder
	scheduler Scheduler
	now       func() time.Time
	rng       *rand.Rand
	logger    *zap.Logger
	onReply   func(rule string)
}

// NewEngine starts a conversation seeded with the bot greeting.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		nextID:    1,
		changed:   make(chan struct{}),
		responder: defaultResponder,
		scheduler: timerScheduler{},
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.appendLocked(Bot, Greeting)
	return e
}

// Submit appends text as a user message and schedules the bot reply. Blank
// text, a pending reply or a closed engine make it a no-op returning false.
func (e *Engine) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == AwaitingReply {
		return false
	}

	msg := e.appendLocked(User, text)
	e.state = AwaitingReply
	delay := e.replyDelayLocked()
	e.stop = e.scheduler.AfterFunc(delay, func() { e.deliver(text) })
	e.notifyLocked()

	e.logger.Debug("chat message accepted",
		zap.Int("id", msg.ID),
		zap.Duration("reply_delay", delay),
	)
	return true
}

func (e *Engine) deliver(text string) {
	rule, reply := e.responder.Respond(text)

	e.mu.Lock()
	if e.closed || e.state != AwaitingReply {
		e.mu.Unlock()
		return
	}
	msg := e.appendLocked(Bot, reply)
	e.state = Idle
	e.stop = nil
	e.notifyLocked()
	e.mu.Unlock()

	e.logger.Debug("chat reply delivered", zap.Int("id", msg.ID), zap.String("rule", rule))
	if e.onReply != nil {
		e.onReply(rule)
	}
}

// Transcript returns a copy of every message in order.
func (e *Engine) Transcript() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.transcript))
	copy(out, e.transcript)
	return out
}

// Since returns the messages with an ID greater than after.
func (e *Engine) Since(after int) []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, m := range e.transcript {
		if m.ID > after {
			out := make([]Message, len(e.transcript)-i)
			copy(out, e.transcript[i:])
			return out
		}
	}
	return nil
}

// Len is the number of messages in the transcript.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.transcript)
}

// State returns the current exchange state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Composing reports whether the bot is "typing".
func (e *Engine) Composing() bool { return e.State() == AwaitingReply }

// Changed returns a channel closed at the next transcript or state change.
func (e *Engine) Changed() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changed
}

// Close cancels any pending reply. The transcript stays readable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
	e.notifyLocked()
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) appendLocked(sender Sender, text string) Message {
	msg := Message{ID: e.nextID, Text: text, Sender: sender, Timestamp: e.now()}
	e.nextID++
	e.transcript = append(e.transcript, msg)
	return msg
}

func (e *Engine) notifyLocked() {
	close(e.changed)
	e.changed = make(chan struct{})
}

func (e *Engine) replyDelayLocked() time.Duration {
	span := MaxReplyDelay - MinReplyDelay
	return MinReplyDelay + time.Duration(e.rng.Int64N(int64(span)))
}

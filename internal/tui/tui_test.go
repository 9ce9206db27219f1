package tui

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/particles"
	"github.com/Zachkp/portfolio/internal/theme"
)

type heldScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *heldScheduler) AfterFunc(_ time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	return func() bool { return false }
}

func (s *heldScheduler) release() {
	s.mu.Lock()
	calls := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range calls {
		f()
	}
}

func newTestModel(t *testing.T) (Model, *chat.Engine, *heldScheduler) {
	t.Helper()
	sched := &heldScheduler{}
	e := chat.NewEngine(chat.WithScheduler(sched))
	t.Cleanup(e.Close)
	m := New(e, theme.Dark, 30, rand.New(rand.NewPCG(1, 2)))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model), e, sched
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestGridFillCircle(t *testing.T) {
	g := NewGrid(10, 5, theme.Dark.Background())
	g.FillCircle(particles.Vec{X: 3*CellWidth + 1, Y: 2*CellHeight + 1}, 3.5, colorful.Color{R: 1}, 0.5)

	assert.Equal(t, '●', g.Cell(3, 2))
	assert.Equal(t, ' ', g.Cell(0, 0))

	g.FillCircle(particles.Vec{X: -1, Y: 0}, 1, colorful.Color{R: 1}, 0.5)
	g.FillCircle(particles.Vec{X: 10 * CellWidth, Y: 0}, 1, colorful.Color{R: 1}, 0.5)

	g.Clear()
	assert.Equal(t, ' ', g.Cell(3, 2))
}

func TestGridLineUnderParticle(t *testing.T) {
	g := NewGrid(10, 1, theme.Dark.Background())
	g.FillCircle(particles.Vec{X: 4*CellWidth + 1, Y: 1}, 1, colorful.Color{G: 1}, 0.1)
	g.StrokeLine(particles.Vec{X: 1, Y: 1}, particles.Vec{X: 9*CellWidth + 1, Y: 1}, colorful.Color{B: 1}, 0.5)

	assert.Equal(t, '·', g.Cell(4, 0), "particle must stay on top")
	assert.Equal(t, '.', g.Cell(2, 0))
	assert.Equal(t, ' ', g.Cell(0, 0), "line endpoints belong to the particles")
}

func TestGridResizeAndView(t *testing.T) {
	g := NewGrid(0, 0, theme.Dark.Background())
	g.Resize(12*CellWidth, 3*CellHeight)
	cols, rows := g.Size()
	assert.Equal(t, 12, cols)
	assert.Equal(t, 3, rows)
	assert.Len(t, strings.Split(g.View(), "\n"), 3)
}

func TestModelResizeSpreadsField(t *testing.T) {
	m, _, _ := newTestModel(t)

	cols, rows := m.grid.Size()
	assert.Equal(t, 120-chatPaneWidth, cols)
	assert.Equal(t, 30, rows)

	spread := false
	for _, p := range m.renderer.Particles() {
		if p.Pos.X > 0 || p.Pos.Y > 0 {
			spread = true
		}
	}
	assert.True(t, spread)
}

func TestModelFrames(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := update(t, m, frameMsg(time.Now()))
	assert.Equal(t, uint64(1), m.renderer.Frames())
	assert.NotNil(t, cmd, "next tick must be scheduled")
}

func TestModelSubmitDisablesInput(t *testing.T) {
	m, e, sched := newTestModel(t)

	m = typeText(t, m, "what skills do you have")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, chat.AwaitingReply, e.State())
	assert.False(t, m.input.Focused())
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), typingIndicator)

	// typing while the bot composes goes nowhere
	m = typeText(t, m, "x")
	assert.Empty(t, m.input.Value())

	sched.release()
	m, _ = update(t, m, chatChangedMsg{})
	assert.True(t, m.input.Focused())
	assert.NotContains(t, m.View(), typingIndicator)
	assert.Len(t, e.Transcript(), 3)
}

func TestModelIgnoresBlankSubmit(t *testing.T) {
	m, e, _ := newTestModel(t)
	m = typeText(t, m, "   ")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, chat.Idle, e.State())
	assert.True(t, m.input.Focused())
	assert.Len(t, e.Transcript(), 1)
}

func TestModelTogglePalette(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, theme.Light, m.Palette())
	assert.Equal(t, theme.Light, m.renderer.Palette())

	band := theme.Light.ParticleHues()
	for _, p := range m.renderer.Particles() {
		assert.True(t, band.Contains(p.Color))
	}
}

func TestModelQuit(t *testing.T) {
	m, e, _ := newTestModel(t)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, e.Closed())
	assert.True(t, m.renderer.Disposed())

	_, cmd = update(t, m, frameMsg(time.Now()))
	assert.Nil(t, cmd, "no ticks after dispose")
}

func TestModelViewShowsGreeting(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Portfolio Assistant")
	assert.Contains(t, view, "Hi! I'm here")
}

func TestWaitForChat(t *testing.T) {
	e := chat.NewEngine(chat.WithScheduler(&heldScheduler{}))
	cmd := waitForChat(e)
	e.Submit("hello")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		assert.IsType(t, chatChangedMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("change not observed")
	}
	e.Close()
}

package tui

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/particles"
	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	chatPaneWidth    = 44
	minFieldCols     = 20
	typingIndicator  = "typing..."
	inputPlaceholder = "Ask me about this portfolio..."
)

type frameMsg time.Time

// chatChangedMsg is sent whenever the engine's transcript or state changes.
type chatChangedMsg struct{}

// Model is the bubbletea model: the particle field on the left, the chat
// pane on the right.
type Model struct {
	engine   *chat.Engine
	renderer *particles.Renderer
	grid     *Grid
	input    textinput.Model
	palette  theme.Palette
	interval time.Duration

	width, height int
	sized         bool
}

// New builds a model around engine. fps paces the field; rng may be nil.
func New(engine *chat.Engine, p theme.Palette, fps int, rng *rand.Rand) Model {
	if fps <= 0 {
		fps = particles.DefaultFPS
	}
	grid := NewGrid(0, 0, p.Background())

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 2000
	ti.Width = chatPaneWidth - 6
	ti.Focus()

	return Model{
		engine:   engine,
		renderer: particles.NewRenderer(0, 0, p, grid, rng),
		grid:     grid,
		input:    ti,
		palette:  p,
		interval: time.Second / time.Duration(fps),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick(), waitForChat(m.engine))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// waitForChat blocks until the engine signals a change. The channel is taken
// before the command runs so no change between renders is missed.
func waitForChat(e *chat.Engine) tea.Cmd {
	ch := e.Changed()
	return func() tea.Msg {
		<-ch
		return chatChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case frameMsg:
		if !m.renderer.Frame() && m.renderer.Disposed() {
			return m, nil
		}
		return m, m.tick()

	case chatChangedMsg:
		if m.engine.Closed() {
			return m, nil
		}
		cmd := m.syncInput()
		return m, tea.Batch(cmd, waitForChat(m.engine))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width, m.height = msg.Width, msg.Height
	cols := max(msg.Width-chatPaneWidth, minFieldCols)
	w, h := cols*CellWidth, msg.Height*CellHeight
	m.renderer.Resize(w, h)
	if !m.sized {
		// the field was built at 0x0; spread it over the first real size
		m.renderer.SetPalette(m.palette)
		m.sized = true
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.engine.Close()
		m.renderer.Dispose()
		return m, tea.Quit

	case "ctrl+t":
		m.palette = m.palette.Toggle()
		m.grid.SetBackground(m.palette.Background())
		m.renderer.SetPalette(m.palette)
		return m, nil

	case "enter":
		if m.engine.Submit(m.input.Value()) {
			m.input.Reset()
		}
		cmd := m.syncInput()
		return m, cmd
	}

	if m.engine.Composing() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncInput disables the input while the bot is composing.
func (m *Model) syncInput() tea.Cmd {
	if m.engine.Composing() {
		m.input.Blur()
		return nil
	}
	if !m.input.Focused() {
		return m.input.Focus()
	}
	return nil
}

// Palette is the active colour palette.
func (m Model) Palette() theme.Palette { return m.palette }

func (m Model) View() string {
	if !m.sized {
		return "loading..."
	}
	field := lipgloss.NewStyle().
		Background(lipgloss.Color(m.palette.Background().Hex())).
		Render(m.grid.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, field, m.chatView())
}

func (m Model) chatView() string {
	accent := lipgloss.Color(m.palette.LineColor().Hex())
	fg := lipgloss.Color(m.palette.Foreground().Hex())
	inner := chatPaneWidth - 4

	header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Portfolio Assistant") + "\n" +
		lipgloss.NewStyle().Faint(true).Render("Online • Here to help")

	userStyle := lipgloss.NewStyle().Width(inner).Align(lipgloss.Right).Foreground(accent)
	botStyle := lipgloss.NewStyle().Width(inner).Foreground(fg)
	stamp := lipgloss.NewStyle().Faint(true)

	var lines []string
	for _, msg := range m.engine.Transcript() {
		style := botStyle
		if msg.Sender == chat.User {
			style = userStyle
		}
		lines = append(lines, strings.Split(style.Render(msg.Text), "\n")...)
		lines = append(lines, style.Inherit(stamp).Render(msg.Timestamp.Format("15:04")), "")
	}
	if m.engine.Composing() {
		lines = append(lines, stamp.Render(typingIndicator))
	}

	// header, blank line, input and border
	room := max(m.height-6, 1)
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.NewStyle().Height(room).Render(strings.Join(lines, "\n")),
		m.input.View(),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(chatPaneWidth - 2).
		Padding(0, 1).
		Render(body)
}

// Package tui hosts the particle field and the chat assistant in a terminal.
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Zachkp/portfolio/internal/particles"
)

// A terminal cell stands for CellWidth x CellHeight field units, so the
// field keeps its connection distance whatever the font.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	ch     rune
	color  colorful.Color
	weight float64
}

// Grid is a particles.Surface drawn onto terminal cells. Particles win over
// lines that cross the same cell.
type Grid struct {
	cols, rows int
	background colorful.Color
	cells      []cell
}

// NewGrid returns an empty grid of cols x rows cells.
func NewGrid(cols, rows int, background colorful.Color) *Grid {
	g := &Grid{background: background}
	g.setSize(cols, rows)
	return g
}

func (g *Grid) setSize(cols, rows int) {
	g.cols, g.rows = max(cols, 0), max(rows, 0)
	g.cells = make([]cell, g.cols*g.rows)
}

// Size is the grid size in cells.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// SetBackground sets the colour faint cells fade into.
func (g *Grid) SetBackground(c colorful.Color) { g.background = c }

// Resize takes the field size in field units.
func (g *Grid) Resize(width, height int) {
	g.setSize(width/CellWidth, height/CellHeight)
}

func (g *Grid) Clear() {
	clear(g.cells)
}

func (g *Grid) index(p particles.Vec) (int, bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, false
	}
	col, row := int(p.X/CellWidth), int(p.Y/CellHeight)
	if col >= g.cols || row >= g.rows {
		return 0, false
	}
	return row*g.cols + col, true
}

func (g *Grid) FillCircle(center particles.Vec, radius float64, c colorful.Color, alpha float64) {
	i, ok := g.index(center)
	if !ok {
		return
	}
	ch := '·'
	switch {
	case radius >= 3:
		ch = '●'
	case radius >= 2:
		ch = '•'
	}
	// +1 keeps particles above any line
	g.cells[i] = cell{ch: ch, color: c, weight: 1 + alpha}
}

func (g *Grid) StrokeLine(from, to particles.Vec, c colorful.Color, alpha float64) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx)/CellWidth, math.Abs(dy)/CellHeight)))
	if steps == 0 {
		return
	}
	for s := 1; s < steps; s++ {
		t := float64(s) / float64(steps)
		i, ok := g.index(particles.Vec{X: from.X + dx*t, Y: from.Y + dy*t})
		if !ok || g.cells[i].weight >= alpha {
			continue
		}
		g.cells[i] = cell{ch: '.', color: c, weight: alpha}
	}
}

// Cell returns the glyph at col,row, or a space when nothing is drawn there.
func (g *Grid) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return ' '
	}
	if c := g.cells[row*g.cols+col]; c.ch != 0 {
		return c.ch
	}
	return ' '
}

// View renders the grid, one line per row.
func (g *Grid) View() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, c := range g.cells[row*g.cols : (row+1)*g.cols] {
			if c.ch == 0 {
				b.WriteByte(' ')
				continue
			}
			fg := g.background.BlendRgb(c.color, visibility(c.weight)).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(fg.Hex())).Render(string(c.ch)))
		}
	}
	return b.String()
}

// visibility lifts the faint canvas opacities so they read on a terminal.
func visibility(weight float64) float64 {
	if weight >= 1 {
		return math.Min(1, 0.4+(weight-1))
	}
	return math.Min(1, 0.25+weight)
}

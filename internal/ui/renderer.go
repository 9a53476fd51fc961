package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazebatch/internal/maze"
)

const (
	wallRune    = '#'
	passageRune = ' '
)

// Lattice expands a grid into a (2w+1) x (2h+1) character map where cell
// centres sit on odd coordinates and walls on the even ones between them.
func Lattice(g *maze.Grid) [][]rune {
	rows := make([][]rune, 2*g.Height+1)
	for y := range rows {
		rows[y] = make([]rune, 2*g.Width+1)
		for x := range rows[y] {
			rows[y][x] = wallRune
		}
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cx, cy := 2*x+1, 2*y+1
			rows[cy][cx] = passageRune
			c := g.Cells[y][x]
			for _, d := range maze.Directions {
				if c.Wall(d) {
					continue
				}
				dx, dy := d.Delta()
				rows[cy+dy][cx+dx] = passageRune
			}
		}
	}
	return rows
}

// Renderer handles drawing mazes to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws maze index of total with a status line underneath.
func (r *Renderer) Render(g *maze.Grid, index, total int) {
	r.screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Background(tcell.ColorDarkGray)
	for y, row := range Lattice(g) {
		for x, ch := range row {
			style := tcell.StyleDefault
			if ch == wallRune {
				style = wallStyle
			}
			r.screen.SetContent(x, y, ch, style)
		}
	}

	status := fmt.Sprintf("maze %d/%d  %dx%d  [<-/-> browse, q quit]", index+1, total, g.Width, g.Height)
	r.RenderMessage(status, 2*g.Height+2)
	r.screen.Show()
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
	}
}

package maze

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidSize  = errors.New("maze width and height must be positive")
	ErrMalformed    = errors.New("malformed maze grid")
	ErrNotPerfect   = errors.New("maze is not perfect")
	ErrShapeUnknown = errors.New("cannot infer maze shape")
)

// Grid is a maze laid out as Height rows of Width cells, indexed [y][x].
type Grid struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewGrid creates a grid with every wall closed.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			cells[y][x] = ClosedCell()
		}
	}
	return &Grid{Width: width, Height: height, Cells: cells}, nil
}

// FromFlat reshapes a row-major cell slice into a grid.
func FromFlat(cells []Cell, width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrMalformed, len(cells), width, height)
	}
	rows := make([][]Cell, height)
	for y := range rows {
		rows[y] = append([]Cell(nil), cells[y*width:(y+1)*width]...)
	}
	return &Grid{Width: width, Height: height, Cells: rows}, nil
}

// InBounds returns true if (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y). Out-of-bounds positions read as fully walled.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return ClosedCell()
	}
	return g.Cells[y][x]
}

// Open removes the wall between (x, y) and its neighbour in direction d.
// It reports false when the neighbour is outside the grid.
func (g *Grid) Open(x, y int, d Direction) bool {
	dx, dy := d.Delta()
	nx, ny := x+dx, y+dy
	if !g.InBounds(x, y) || !g.InBounds(nx, ny) {
		return false
	}
	g.Cells[y][x].SetWall(d, false)
	g.Cells[ny][nx].SetWall(d.Opposite(), false)
	return true
}

// Flatten returns the cells in row-major order.
func (g *Grid) Flatten() []Cell {
	flat := make([]Cell, 0, g.Width*g.Height)
	for _, row := range g.Cells {
		flat = append(flat, row...)
	}
	return flat
}

// Passages counts the open walls between neighbouring cells.
func (g *Grid) Passages() int {
	n := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Cells[y][x]
			if x+1 < g.Width && !c.East {
				n++
			}
			if y+1 < g.Height && !c.South {
				n++
			}
		}
	}
	return n
}

// MarshalJSON encodes the grid as an array of rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Cells)
}

// UnmarshalJSON decodes an array of rows and derives the dimensions from it.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	g.Cells = rows
	g.Height = len(rows)
	g.Width = 0
	if len(rows) > 0 {
		g.Width = len(rows[0])
	}
	return nil
}

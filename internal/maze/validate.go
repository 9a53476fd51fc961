package maze

import "fmt"

// CheckShape reports whether Cells holds exactly Height rows of Width cells.
func (g *Grid) CheckShape() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, g.Width, g.Height)
	}
	if len(g.Cells) != g.Height {
		return fmt.Errorf("%w: %d rows, want %d", ErrMalformed, len(g.Cells), g.Height)
	}
	for y, row := range g.Cells {
		if len(row) != g.Width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, y, len(row), g.Width)
		}
	}
	return nil
}

// Validate checks that the grid is structurally sound: rows match the
// declared dimensions, the outer boundary is closed, and every interior
// wall is recorded identically on both of its sides.
func (g *Grid) Validate() error {
	if err := g.CheckShape(); err != nil {
		return err
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Cells[y][x]
			for _, d := range Directions {
				dx, dy := d.Delta()
				nx, ny := x+dx, y+dy
				if !g.InBounds(nx, ny) {
					if !c.Wall(d) {
						return fmt.Errorf("%w: boundary open at (%d,%d) %s", ErrMalformed, x, y, d)
					}
					continue
				}
				if c.Wall(d) != g.Cells[ny][nx].Wall(d.Opposite()) {
					return fmt.Errorf("%w: asymmetric wall at (%d,%d) %s", ErrMalformed, x, y, d)
				}
			}
		}
	}
	return nil
}

// Distances returns the number of steps from (sx, sy) to every cell
// through open walls. Unreachable cells hold -1.
func (g *Grid) Distances(sx, sy int) [][]int {
	dist := make([][]int, g.Height)
	for y := range dist {
		dist[y] = make([]int, g.Width)
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}
	if !g.InBounds(sx, sy) {
		return dist
	}

	type point struct{ x, y int }
	queue := []point{{sx, sy}}
	dist[sy][sx] = 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			if g.Cells[p.y][p.x].Wall(d) {
				continue
			}
			dx, dy := d.Delta()
			nx, ny := p.x+dx, p.y+dy
			if g.InBounds(nx, ny) && dist[ny][nx] < 0 {
				dist[ny][nx] = dist[p.y][p.x] + 1
				queue = append(queue, point{nx, ny})
			}
		}
	}
	return dist
}

// Reachable returns, for every cell, whether it can be reached from (sx, sy)
// through open walls.
func (g *Grid) Reachable(sx, sy int) [][]bool {
	dist := g.Distances(sx, sy)
	seen := make([][]bool, len(dist))
	for y, row := range dist {
		seen[y] = make([]bool, len(row))
		for x, d := range row {
			seen[y][x] = d >= 0
		}
	}
	return seen
}

// SolutionLength returns the shortest number of steps from the top-left
// cell to the bottom-right cell, or -1 when they are not connected.
func (g *Grid) SolutionLength() int {
	if g.Width <= 0 || g.Height <= 0 {
		return -1
	}
	return g.Distances(0, 0)[g.Height-1][g.Width-1]
}

// IsPerfect reports whether exactly one path joins any two cells: the maze
// is connected and has no more passages than a spanning tree.
func (g *Grid) IsPerfect() error {
	if err := g.Validate(); err != nil {
		return err
	}
	seen := g.Reachable(0, 0)
	for y := range seen {
		for x, ok := range seen[y] {
			if !ok {
				return fmt.Errorf("%w: cell (%d,%d) unreachable", ErrNotPerfect, x, y)
			}
		}
	}
	if got, want := g.Passages(), g.Width*g.Height-1; got != want {
		return fmt.Errorf("%w: %d passages, want %d", ErrNotPerfect, got, want)
	}
	return nil
}

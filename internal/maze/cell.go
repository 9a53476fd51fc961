// Package maze provides maze grids, the generation service contract, and a
// seeded in-process generator.
package maze

// Direction identifies one side of a cell.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in a fixed order so that carving is reproducible.
var Directions = [4]Direction{North, East, South, West}

// Delta returns the grid offset of the neighbour in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Cell records which of its four walls are closed.
type Cell struct {
	North bool `json:"n"`
	East  bool `json:"e"`
	South bool `json:"s"`
	West  bool `json:"w"`
}

// ClosedCell returns a cell with every wall in place.
func ClosedCell() Cell {
	return Cell{North: true, East: true, South: true, West: true}
}

// Wall reports whether the wall on side d is closed.
func (c Cell) Wall(d Direction) bool {
	switch d {
	case North:
		return c.North
	case East:
		return c.East
	case South:
		return c.South
	default:
		return c.West
	}
}

// SetWall opens or closes the wall on side d.
func (c *Cell) SetWall(d Direction, closed bool) {
	switch d {
	case North:
		c.North = closed
	case East:
		c.East = closed
	case South:
		c.South = closed
	default:
		c.West = closed
	}
}

package maze

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazebatch/internal/telemetry"
)

// loopRatio is the share of cells that get an extra opening in imperfect mazes.
const loopRatio = 10

// Request describes one maze to generate.
type Request struct {
	Width   int   `json:"width"`
	Height  int   `json:"height"`
	Seed    int64 `json:"seed"`
	Perfect bool  `json:"perfect"`
}

// Service generates a maze for a request. Implementations must be
// deterministic for a fixed request.
type Service interface {
	Generate(ctx context.Context, req Request) (*Grid, error)
}

// ServiceFunc adapts an ordinary function to the Service interface.
type ServiceFunc func(ctx context.Context, req Request) (*Grid, error)

// Generate calls f(ctx, req).
func (f ServiceFunc) Generate(ctx context.Context, req Request) (*Grid, error) {
	return f(ctx, req)
}

// Carver generates mazes in-process by randomized depth-first carving.
type Carver struct{}

// NewCarver creates the in-process maze service.
func NewCarver() *Carver {
	return &Carver{}
}

var _ Service = (*Carver)(nil)

// Generate carves a maze for the request. Each call seeds its own RNG, so
// identical requests produce identical grids.
func (c *Carver) Generate(ctx context.Context, req Request) (*Grid, error) {
	tracer := telemetry.Tracer("maze")
	_, span := tracer.Start(ctx, "maze.generate")
	defer span.End()

	startTime := time.Now()

	g, err := NewGrid(req.Width, req.Height)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	rng := rand.New(rand.NewSource(req.Seed))

	c.carve(g, rng)
	extra := 0
	if !req.Perfect {
		extra = c.addLoops(g, rng)
	}

	span.SetAttributes(
		attribute.Int("maze.width", req.Width),
		attribute.Int("maze.height", req.Height),
		attribute.Int64("maze.seed", req.Seed),
		attribute.Bool("maze.perfect", req.Perfect),
		attribute.Int("maze.extra_openings", extra),
		attribute.Int64("maze.generation_us", time.Since(startTime).Microseconds()),
	)
	return g, nil
}

// carve runs an iterative recursive backtracker from the top-left cell.
func (c *Carver) carve(g *Grid, rng *rand.Rand) {
	type point struct{ x, y int }

	visited := make([][]bool, g.Height)
	for y := range visited {
		visited[y] = make([]bool, g.Width)
	}

	stack := []point{{0, 0}}
	visited[0][0] = true
	candidates := make([]Direction, 0, len(Directions))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		candidates = candidates[:0]
		for _, d := range Directions {
			dx, dy := d.Delta()
			nx, ny := cur.x+dx, cur.y+dy
			if g.InBounds(nx, ny) && !visited[ny][nx] {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		g.Open(cur.x, cur.y, d)
		dx, dy := d.Delta()
		next := point{cur.x + dx, cur.y + dy}
		visited[next.y][next.x] = true
		stack = append(stack, next)
	}
}

// addLoops opens extra interior walls so the maze has more than one route
// between some cells. Returns the number of walls opened.
func (c *Carver) addLoops(g *Grid, rng *rand.Rand) int {
	type wall struct {
		x, y int
		d    Direction
	}

	var closed []wall
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x+1 < g.Width && g.Cells[y][x].East {
				closed = append(closed, wall{x, y, East})
			}
			if y+1 < g.Height && g.Cells[y][x].South {
				closed = append(closed, wall{x, y, South})
			}
		}
	}

	extra := (g.Width*g.Height + loopRatio - 1) / loopRatio
	if extra > len(closed) {
		extra = len(closed)
	}
	rng.Shuffle(len(closed), func(i, j int) { closed[i], closed[j] = closed[j], closed[i] })
	for _, w := range closed[:extra] {
		g.Open(w.x, w.y, w.d)
	}
	return extra
}

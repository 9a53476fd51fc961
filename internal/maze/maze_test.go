package maze

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMazeReproducibility(t *testing.T) {
	req := Request{Width: 12, Height: 9, Seed: 12345, Perfect: true}
	carver := NewCarver()
	ctx := context.Background()

	g1, err := carver.Generate(ctx, req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	g2, err := carver.Generate(ctx, req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for y := 0; y < g1.Height; y++ {
		for x := 0; x < g1.Width; x++ {
			if g1.Cells[y][x] != g2.Cells[y][x] {
				t.Errorf("Cell mismatch at (%d,%d): %+v != %+v", x, y, g1.Cells[y][x], g2.Cells[y][x])
			}
		}
	}
}

func TestMazeDifferentSeeds(t *testing.T) {
	carver := NewCarver()
	ctx := context.Background()

	g1, _ := carver.Generate(ctx, Request{Width: 20, Height: 20, Seed: 12345, Perfect: true})
	g2, _ := carver.Generate(ctx, Request{Width: 20, Height: 20, Seed: 54321, Perfect: true})

	identical := true
	for y := 0; y < g1.Height && identical; y++ {
		for x := 0; x < g1.Width; x++ {
			if g1.Cells[y][x] != g2.Cells[y][x] {
				identical = false
				break
			}
		}
	}

	if identical {
		t.Error("Mazes with different seeds should not be identical")
	}
}

func TestPerfectMazes(t *testing.T) {
	carver := NewCarver()
	sizes := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 39}

	for _, size := range sizes {
		for seed := int64(0); seed < 5; seed++ {
			g, err := carver.Generate(context.Background(), Request{Width: size, Height: size, Seed: seed, Perfect: true})
			if err != nil {
				t.Fatalf("Generate %dx%d seed %d: %v", size, size, seed, err)
			}
			if err := g.IsPerfect(); err != nil {
				t.Errorf("Maze %dx%d seed %d: %v", size, size, seed, err)
			}
		}
	}
}

func TestRectangularMaze(t *testing.T) {
	g, err := NewCarver().Generate(context.Background(), Request{Width: 7, Height: 3, Seed: 1, Perfect: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if g.Width != 7 || g.Height != 3 || len(g.Cells) != 3 || len(g.Cells[0]) != 7 {
		t.Fatalf("Unexpected shape %dx%d", g.Width, g.Height)
	}
	if err := g.IsPerfect(); err != nil {
		t.Errorf("Rectangular maze not perfect: %v", err)
	}
}

func TestImperfectMazeHasLoops(t *testing.T) {
	carver := NewCarver()
	for size := 4; size <= 10; size++ {
		g, err := carver.Generate(context.Background(), Request{Width: size, Height: size, Seed: 7})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("Imperfect %dx%d maze is malformed: %v", size, size, err)
		}
		if g.Passages() <= size*size-1 {
			t.Errorf("Imperfect %dx%d maze has %d passages, expected more than %d", size, size, g.Passages(), size*size-1)
		}
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := NewCarver().Generate(context.Background(), Request{Width: 0, Height: 3})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	g, _ := NewCarver().Generate(context.Background(), Request{Width: 3, Height: 3, Seed: 0, Perfect: true})

	flat := g.Flatten()
	if len(flat) != 9 {
		t.Fatalf("Expected 9 flattened cells, got %d", len(flat))
	}
	if flat[4] != g.Cells[1][1] {
		t.Errorf("Flattened cell 4 should be (1,1)")
	}

	back, err := FromFlat(flat, 3, 3)
	if err != nil {
		t.Fatalf("FromFlat failed: %v", err)
	}
	if err := back.IsPerfect(); err != nil {
		t.Errorf("Reshaped maze not perfect: %v", err)
	}

	if _, err := FromFlat(flat, 4, 2); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed for wrong shape, got %v", err)
	}
}

func TestGridJSON(t *testing.T) {
	g, _ := NewCarver().Generate(context.Background(), Request{Width: 4, Height: 2, Seed: 3, Perfect: true})

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var rows [][]map[string]bool
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("Grid should encode as an array of rows: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 4 {
		t.Fatalf("Unexpected encoded shape %dx%d", len(rows[0]), len(rows))
	}
	for _, key := range []string{"n", "e", "s", "w"} {
		if _, ok := rows[0][0][key]; !ok {
			t.Errorf("Encoded cell missing %q", key)
		}
	}

	var back Grid
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Width != 4 || back.Height != 2 {
		t.Errorf("Decoded dimensions %dx%d, want 4x2", back.Width, back.Height)
	}
}

func TestValidateDetectsDamage(t *testing.T) {
	g, _ := NewCarver().Generate(context.Background(), Request{Width: 3, Height: 3, Seed: 2, Perfect: true})

	g.Cells[0][0].North = false
	if err := g.Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Open boundary should be malformed, got %v", err)
	}
	g.Cells[0][0].North = true

	g.Cells[1][1].East = !g.Cells[1][1].East
	if err := g.Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Asymmetric wall should be malformed, got %v", err)
	}
}

func TestCheckShape(t *testing.T) {
	g, _ := NewGrid(2, 2)
	if err := g.CheckShape(); err != nil {
		t.Fatalf("Fresh grid should have a valid shape: %v", err)
	}

	g.Cells[1] = g.Cells[1][:1]
	if err := g.CheckShape(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Short row should be malformed, got %v", err)
	}

	var decoded Grid
	if err := json.Unmarshal([]byte(`[[{"n":true,"e":true,"s":true,"w":true}],[]]`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if err := decoded.CheckShape(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decoded uneven rows should be malformed, got %v", err)
	}
}

func TestSolutionLength(t *testing.T) {
	g, _ := NewGrid(3, 2)
	if got := g.SolutionLength(); got != -1 {
		t.Errorf("Closed grid should have no solution, got %d", got)
	}

	// Snake: (0,0)->(1,0)->(2,0)->(2,1)
	g.Open(0, 0, East)
	g.Open(1, 0, East)
	g.Open(2, 0, South)
	if got := g.SolutionLength(); got != 3 {
		t.Errorf("Expected solution length 3, got %d", got)
	}
	if d := g.Distances(0, 0); d[1][0] != -1 || d[1][2] != 3 {
		t.Errorf("Unexpected distances %v", d)
	}

	one, _ := NewGrid(1, 1)
	if got := one.SolutionLength(); got != 0 {
		t.Errorf("Single cell solution should be 0, got %d", got)
	}
}

func TestPerfectMazeSolutionBounds(t *testing.T) {
	g, err := NewCarver().Generate(context.Background(), Request{Width: 10, Height: 10, Seed: 11, Perfect: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	got := g.SolutionLength()
	if got < 18 || got > 99 {
		t.Errorf("Solution length %d outside [18, 99]", got)
	}
}

func TestIsPerfectRejectsClosedGrid(t *testing.T) {
	g, _ := NewGrid(2, 2)
	if err := g.IsPerfect(); !errors.Is(err, ErrNotPerfect) {
		t.Errorf("Fully walled grid is not perfect, got %v", err)
	}
}

func TestServiceFunc(t *testing.T) {
	var got Request
	svc := ServiceFunc(func(_ context.Context, req Request) (*Grid, error) {
		got = req
		return NewGrid(req.Width, req.Height)
	})

	if _, err := svc.Generate(context.Background(), Request{Width: 2, Height: 5, Seed: 9}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got.Seed != 9 || got.Height != 5 {
		t.Errorf("Request not passed through: %+v", got)
	}
}

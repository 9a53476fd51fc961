package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/samdwyer/mazebatch/internal/maze"
)

// ReadGrids loads an Output Document and returns its mazes as grids.
// Elements may be nested grids or flattened cell arrays; flattened elements
// are reshaped to width x height, or to a square when both are zero.
func ReadGrids(path string, width, height int) ([]*maze.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	grids, err := Decode(data, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grids, nil
}

// Decode parses an Output Document.
func Decode(data []byte, width, height int) ([]*maze.Grid, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("document is not a JSON array: %w", err)
	}

	grids := make([]*maze.Grid, 0, len(elems))
	for i, raw := range elems {
		g, err := decodeElement(raw, width, height)
		if err != nil {
			return nil, fmt.Errorf("maze %d: %w", i, err)
		}
		grids = append(grids, g)
	}
	return grids, nil
}

func decodeElement(raw json.RawMessage, width, height int) (*maze.Grid, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array", maze.ErrMalformed)
	}

	// A nested grid starts with a row, i.e. a second '['.
	inner := bytes.TrimSpace(trimmed[1:])
	if len(inner) > 0 && inner[0] == '[' {
		var g maze.Grid
		if err := json.Unmarshal(trimmed, &g); err != nil {
			return nil, err
		}
		if err := g.CheckShape(); err != nil {
			return nil, err
		}
		if (width > 0 && g.Width != width) || (height > 0 && g.Height != height) {
			return nil, fmt.Errorf("%w: grid is %dx%d, want %dx%d", maze.ErrMalformed, g.Width, g.Height, width, height)
		}
		return &g, nil
	}

	var cells []maze.Cell
	if err := json.Unmarshal(trimmed, &cells); err != nil {
		return nil, err
	}
	w, h := width, height
	switch {
	case w > 0 && h == 0 && len(cells)%w == 0:
		h = len(cells) / w
	case h > 0 && w == 0 && len(cells)%h == 0:
		w = len(cells) / h
	}
	if w == 0 && h == 0 {
		side := int(math.Round(math.Sqrt(float64(len(cells)))))
		if side*side != len(cells) || side == 0 {
			return nil, fmt.Errorf("%w: %d flattened cells", maze.ErrShapeUnknown, len(cells))
		}
		w, h = side, side
	}
	return maze.FromFlat(cells, w, h)
}

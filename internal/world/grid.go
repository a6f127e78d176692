package world

import (
	"errors"
	"fmt"

	"raycaster/internal/mathutil"
)

// Empty is the material id of a passable cell.
const Empty = 0

// outOfBounds is reported for lookups outside the grid. It is solid so a ray or
// a movement query that somehow leaves the map stops instead of indexing past it.
const outOfBounds = 1

// Grid is an immutable 2D occupancy map. Zero cells are passable; positive
// cells are solid and select a wall material (1-based texture index).
type Grid struct {
	width  int
	height int
	cells  []int // row-major, cells[y*width+x]
}

// NewGrid builds a grid from rows indexed rows[y][x]. The input is copied.
func NewGrid(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("grid must have at least one row and one column")
	}

	height := len(rows)
	width := len(rows[0])
	cells := make([]int, 0, width*height)

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has inconsistent width: expected %d, got %d", y, width, len(row))
		}
		for x, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("cell (%d,%d) has negative material id %d", x, y, v)
			}
		}
		cells = append(cells, row...)
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the material id at (x, y).
func (g *Grid) At(x, y int) int {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return outOfBounds
	}
	return g.cells[y*g.width+x]
}

// SolidityAt returns 0 for a passable cell or the cell's material id.
func (g *Grid) SolidityAt(c mathutil.Vec2i) int {
	return g.At(c.X, c.Y)
}

// IsPassable reports whether the cell is empty.
func (g *Grid) IsPassable(c mathutil.Vec2i) bool {
	return g.SolidityAt(c) == Empty
}

// MaxMaterial returns the largest material id used by the grid.
func (g *Grid) MaxMaterial() int {
	maxID := 0
	for _, v := range g.cells {
		maxID = mathutil.IntMax(maxID, v)
	}
	return maxID
}

// ValidateMaterials rejects material ids that have no wall texture.
func (g *Grid) ValidateMaterials(textureCount int) error {
	for i, v := range g.cells {
		if v > textureCount {
			return fmt.Errorf("cell (%d,%d) uses material %d but only %d textures are loaded",
				i%g.width, i/g.width, v, textureCount)
		}
	}
	return nil
}

// CheckEnclosed verifies that every border cell is solid. Ray marching only
// terminates on enclosed maps.
func (g *Grid) CheckEnclosed() error {
	for x := 0; x < g.width; x++ {
		if g.At(x, 0) == Empty || g.At(x, g.height-1) == Empty {
			return fmt.Errorf("map border is open at column %d", x)
		}
	}
	for y := 0; y < g.height; y++ {
		if g.At(0, y) == Empty || g.At(g.width-1, y) == Empty {
			return fmt.Errorf("map border is open at row %d", y)
		}
	}
	return nil
}

package physics

import (
	"math"
	"slices"
)

// SpatialGrid is a uniform grid for broad-phase collision detection.
// Objects are inserted by position and index, then nearby objects can be
// queried via a 3x3 neighborhood lookup.
//
// Positions outside the covered area are clamped to the border cells, so
// objects that have flown off the surface are still found by neighbours that
// are off the same edge.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
	scratch     []int
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given dimensions.
// cellSize should be >= the maximum collision distance for the objects being inserted.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// Nearby returns the indices stored in the 3x3 cell neighborhood around the
// given position in ascending order. The slice is reused by the next call.
func (g *SpatialGrid) Nearby(x, y float64) []int {
	col, row := g.posToCell(x, y)
	g.scratch = g.scratch[:0]

	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		rowOffset := r * g.cols
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			g.scratch = append(g.scratch, g.cells[rowOffset+c].items...)
		}
	}

	slices.Sort(g.scratch)
	return g.scratch
}

// posToCell converts coordinates to grid cell coordinates.
// Clamps to valid range to handle off-surface positions and floating point edges.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = clampCell(x*g.invCellSize, g.cols)
	row = clampCell(y*g.invCellSize, g.rows)
	return col, row
}

func clampCell(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}

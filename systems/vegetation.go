package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/meadow/geom"
	"github.com/pthm-cable/meadow/rng"
)

// VegetationGrid is a dense boolean tile grid. A cell has no identity;
// presence is the datum.
type VegetationGrid struct {
	cols, rows int
	tile       float64
	cells      []bool
	count      int
}

// NewVegetationGrid creates an empty grid of ⌊w/tile⌋ × ⌊h/tile⌋ cells.
func NewVegetationGrid(worldW, worldH, tile float64) *VegetationGrid {
	cols := int(worldW / tile)
	rows := int(worldH / tile)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &VegetationGrid{
		cols:  cols,
		rows:  rows,
		tile:  tile,
		cells: make([]bool, cols*rows),
	}
}

// Cols returns the grid width in cells.
func (g *VegetationGrid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *VegetationGrid) Rows() int { return g.rows }

// TileSize returns the world size of one cell.
func (g *VegetationGrid) TileSize() float64 { return g.tile }

// InBounds reports whether the cell coordinates are inside the grid.
func (g *VegetationGrid) InBounds(gx, gy int) bool {
	return gx >= 0 && gx < g.cols && gy >= 0 && gy < g.rows
}

// Has reports whether the cell holds vegetation.
func (g *VegetationGrid) Has(gx, gy int) bool {
	return g.InBounds(gx, gy) && g.cells[gy*g.cols+gx]
}

// Set places vegetation on a cell. Out-of-bounds cells are ignored.
func (g *VegetationGrid) Set(gx, gy int) {
	if !g.InBounds(gx, gy) || g.cells[gy*g.cols+gx] {
		return
	}
	g.cells[gy*g.cols+gx] = true
	g.count++
}

// Remove clears vegetation from a cell.
func (g *VegetationGrid) Remove(gx, gy int) {
	if !g.InBounds(gx, gy) || !g.cells[gy*g.cols+gx] {
		return
	}
	g.cells[gy*g.cols+gx] = false
	g.count--
}

// Count returns the number of occupied cells.
func (g *VegetationGrid) Count() int { return g.count }

// WorldToGrid maps a world position to cell coordinates, clamped into the
// grid so positions on the far world edge land on the last cell.
func (g *VegetationGrid) WorldToGrid(x, y float64) (int, int) {
	gx := int(x / g.tile)
	gy := int(y / g.tile)
	if gx >= g.cols {
		gx = g.cols - 1
	}
	if gy >= g.rows {
		gy = g.rows - 1
	}
	if gx < 0 {
		gx = 0
	}
	if gy < 0 {
		gy = 0
	}
	return gx, gy
}

// GridToWorld returns the world-space center of a cell.
func (g *VegetationGrid) GridToWorld(gx, gy int) geom.Vec2 {
	return geom.Vec2{
		X: float64(gx)*g.tile + g.tile/2,
		Y: float64(gy)*g.tile + g.tile/2,
	}
}

// SnapToTile snaps a world position to the center of its cell.
func (g *VegetationGrid) SnapToTile(p geom.Vec2) geom.Vec2 {
	gx, gy := g.WorldToGrid(p.X, p.Y)
	return g.GridToWorld(gx, gy)
}

// Neighbors returns the in-bounds orthogonal neighbours in the fixed
// order left, right, up, down. The order is part of the deterministic
// contract: spread consumes random draws in exactly this order.
func (g *VegetationGrid) Neighbors(gx, gy int) [][2]int {
	out := make([][2]int, 0, 4)
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := gx+d[0], gy+d[1]
		if g.InBounds(nx, ny) {
			out = append(out, [2]int{nx, ny})
		}
	}
	return out
}

// InitUniform fills the grid cell by cell in row-major order, occupying
// each with the given probability. One draw per cell.
func (g *VegetationGrid) InitUniform(r *rng.Source, density float64) {
	for gy := 0; gy < g.rows; gy++ {
		for gx := 0; gx < g.cols; gx++ {
			if r.Bool(density) {
				g.Set(gx, gy)
			}
		}
	}
}

// InitPatchy lays vegetation where seeded simplex noise exceeds the
// threshold, producing contiguous patches. Fully deterministic for a
// given seed; no simulation PRNG draws are consumed.
func (g *VegetationGrid) InitPatchy(seed int64, scale, threshold float64) {
	noise := opensimplex.NewNormalized(seed)
	for gy := 0; gy < g.rows; gy++ {
		for gx := 0; gx < g.cols; gx++ {
			if noise.Eval2(float64(gx)*scale, float64(gy)*scale) >= threshold {
				g.Set(gx, gy)
			}
		}
	}
}

// Spread grows vegetation into empty neighbours. A snapshot of occupied
// cells is taken first, so growth in this tick never spreads further in
// the same tick. For each occupied cell, each empty in-bounds neighbour
// (left, right, up, down) is filled with the given probability, one draw
// per empty neighbour.
func (g *VegetationGrid) Spread(r *rng.Source, rate float64) {
	occupied := make([]int, 0, g.count)
	for i, c := range g.cells {
		if c {
			occupied = append(occupied, i)
		}
	}
	for _, i := range occupied {
		gx, gy := i%g.cols, i/g.cols
		for _, n := range g.Neighbors(gx, gy) {
			if g.Has(n[0], n[1]) {
				continue
			}
			if r.Bool(rate) {
				g.Set(n[0], n[1])
			}
		}
	}
}

// Positions returns the world centers of all occupied cells in row-major
// order.
func (g *VegetationGrid) Positions() []geom.Vec2 {
	out := make([]geom.Vec2, 0, g.count)
	for i, c := range g.cells {
		if c {
			out = append(out, g.GridToWorld(i%g.cols, i/g.cols))
		}
	}
	return out
}

// NearestIn finds the occupied cell whose center is closest to the given
// point within the radius. Ties resolve to the first cell in row-major
// order. Returns false if no vegetation is in range.
func (g *VegetationGrid) NearestIn(center geom.Vec2, radius float64) (int, int, bool) {
	minGX, minGY := g.WorldToGrid(center.X-radius, center.Y-radius)
	maxGX, maxGY := g.WorldToGrid(center.X+radius, center.Y+radius)

	bestGX, bestGY := -1, -1
	bestDist := radius
	found := false
	for gy := minGY; gy <= maxGY; gy++ {
		for gx := minGX; gx <= maxGX; gx++ {
			if !g.Has(gx, gy) {
				continue
			}
			d := center.Dist(g.GridToWorld(gx, gy))
			if d < bestDist || (!found && d <= radius) {
				bestDist = d
				bestGX, bestGY = gx, gy
				found = true
			}
		}
	}
	return bestGX, bestGY, found
}

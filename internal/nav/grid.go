package nav

import (
	"math"
	"sync/atomic"
)

// Cell is a navigable grid cell on the ground plane.
type Cell struct {
	X, Y int32
}

// ManhattanTo returns the L1 distance to another cell.
func (c Cell) ManhattanTo(o Cell) int32 {
	return abs32(c.X-o.X) + abs32(c.Y-o.Y)
}

// Center returns the world-space center of the cell (unit cell size).
func (c Cell) Center() (x, y float64) {
	return float64(c.X) + 0.5, float64(c.Y) + 0.5
}

// CellAt maps a world-space ground position to its containing cell.
func CellAt(x, y float64) Cell {
	return Cell{X: int32(math.Floor(x)), Y: int32(math.Floor(y))}
}

// Grid is the navigable view of the voxel terrain: a bounded 2D walkability
// bitmap plus a generation counter. The counter increments on every terrain
// edit; paths carry the generation they were computed under and are stale once
// it advances. During a simulation tick the grid is read-only, edits happen
// in a separate phase, never concurrently with pathfinding reads.
type Grid struct {
	minX, minY int32
	maxX, maxY int32 // inclusive
	width      int32
	solid      []bool
	generation atomic.Uint64
}

// NewGrid creates an all-walkable grid covering [minX,maxX]×[minY,maxY]
// inclusive.
func NewGrid(minX, minY, maxX, maxY int32) *Grid {
	w := maxX - minX + 1
	h := maxY - minY + 1
	if w < 1 || h < 1 {
		panic("nav: empty grid bounds")
	}
	return &Grid{
		minX: minX, minY: minY,
		maxX: maxX, maxY: maxY,
		width: w,
		solid: make([]bool, int(w)*int(h)),
	}
}

// Bounds returns the inclusive grid bounds.
func (g *Grid) Bounds() (minX, minY, maxX, maxY int32) {
	return g.minX, g.minY, g.maxX, g.maxY
}

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= g.minX && c.X <= g.maxX && c.Y >= g.minY && c.Y <= g.maxY
}

// IsSolid reports whether the cell is blocked. Out-of-bounds cells are solid.
func (g *Grid) IsSolid(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.solid[g.index(c)]
}

// Walkable reports whether the cell is inside bounds and not solid.
func (g *Grid) Walkable(c Cell) bool {
	return g.InBounds(c) && !g.solid[g.index(c)]
}

// SetSolid edits the terrain, bumping the generation counter when the cell
// actually changes. Must not be called concurrently with pathfinding reads.
func (g *Grid) SetSolid(c Cell, solid bool) {
	if !g.InBounds(c) {
		return
	}
	i := g.index(c)
	if g.solid[i] == solid {
		return
	}
	g.solid[i] = solid
	g.generation.Add(1)
}

// Generation returns the current terrain generation.
func (g *Grid) Generation() uint64 {
	return g.generation.Load()
}

func (g *Grid) index(c Cell) int {
	return int(c.Y-g.minY)*int(g.width) + int(c.X-g.minX)
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

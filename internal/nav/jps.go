package nav

import "container/heap"

// FindPathJPS computes a shortest path with jump point search: A* over the
// same 4-connected grid where straight runs with no forced neighbors are
// skipped in a single step. Horizontal scans probe for vertical jump points
// along the way, which keeps the canonical horizontal-then-vertical orderings
// reachable; the returned cost always equals FindPath's optimal cost, though
// the waypoints may differ.
func (g *Grid) FindPathJPS(start, goal Cell) Path {
	gen := g.Generation()
	notFound := Path{Status: StatusNotFound, Generation: gen}

	if !g.Walkable(start) || !g.Walkable(goal) {
		return notFound
	}
	if start == goal {
		return Path{Status: StatusFound, Waypoints: []Cell{start}, Generation: gen}
	}

	open := &searchHeap{}
	heap.Init(open)
	heap.Push(open, &searchNode{cell: start, h: start.ManhattanTo(goal)})

	best := map[Cell]int32{start: 0}
	closed := make(map[Cell]struct{}, 64)

	for expanded := 0; open.Len() > 0 && expanded < maxExpandedNodes; expanded++ {
		cur := heap.Pop(open).(*searchNode)
		if cur.cell == goal {
			return Path{
				Status:     StatusFound,
				Waypoints:  reconstruct(cur),
				Cost:       cur.g,
				Generation: gen,
			}
		}

		if _, seen := closed[cur.cell]; seen {
			continue
		}
		closed[cur.cell] = struct{}{}

		for _, d := range cardinal {
			jp, ok := g.jump(cur.cell, d.dx, d.dy, goal)
			if !ok {
				continue
			}
			if _, seen := closed[jp]; seen {
				continue
			}
			ng := cur.g + cur.cell.ManhattanTo(jp)
			if known, exists := best[jp]; exists && known <= ng {
				continue
			}
			best[jp] = ng
			heap.Push(open, &searchNode{
				cell:   jp,
				parent: cur,
				g:      ng,
				h:      jp.ManhattanTo(goal),
			})
		}
	}

	return notFound
}

// jump scans from the cell in one cardinal direction and returns the next
// jump point: the goal, a cell with a forced neighbor, or (for horizontal
// scans) a cell from which a vertical jump succeeds.
func (g *Grid) jump(from Cell, dx, dy int32, goal Cell) (Cell, bool) {
	if dx != 0 {
		return g.jumpHorizontal(from, dx, goal)
	}
	return g.jumpVertical(from, dy, goal)
}

func (g *Grid) jumpHorizontal(from Cell, dx int32, goal Cell) (Cell, bool) {
	c := from
	for {
		c.X += dx
		if !g.Walkable(c) {
			return Cell{}, false
		}
		if c == goal {
			return c, true
		}
		// Forced neighbor: the wall beside the previous cell just ended.
		if g.IsSolid(Cell{X: c.X - dx, Y: c.Y - 1}) && g.Walkable(Cell{X: c.X, Y: c.Y - 1}) {
			return c, true
		}
		if g.IsSolid(Cell{X: c.X - dx, Y: c.Y + 1}) && g.Walkable(Cell{X: c.X, Y: c.Y + 1}) {
			return c, true
		}
		// A vertical jump point somewhere above or below makes this cell a
		// turning point.
		if _, ok := g.jumpVertical(c, -1, goal); ok {
			return c, true
		}
		if _, ok := g.jumpVertical(c, 1, goal); ok {
			return c, true
		}
	}
}

func (g *Grid) jumpVertical(from Cell, dy int32, goal Cell) (Cell, bool) {
	c := from
	for {
		c.Y += dy
		if !g.Walkable(c) {
			return Cell{}, false
		}
		if c == goal {
			return c, true
		}
		if g.IsSolid(Cell{X: c.X - 1, Y: c.Y - dy}) && g.Walkable(Cell{X: c.X - 1, Y: c.Y}) {
			return c, true
		}
		if g.IsSolid(Cell{X: c.X + 1, Y: c.Y - dy}) && g.Walkable(Cell{X: c.X + 1, Y: c.Y}) {
			return c, true
		}
	}
}

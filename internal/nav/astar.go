package nav

import "container/heap"

// Status of a path computation.
type Status int32

const (
	StatusPending Status = iota
	StatusFound
	StatusNotFound
)

// String returns human-readable status name
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusFound:
		return "FOUND"
	case StatusNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Path is the result of a pathfinding run. Waypoints include both endpoints
// and every consecutive pair is 4-adjacent; Cost is the number of steps.
// Generation is the grid generation the path was computed under; consumers
// must discard and re-request once the grid moves past it.
type Path struct {
	Status     Status
	Waypoints  []Cell
	Cost       int32
	Generation uint64
}

// maxExpandedNodes caps A*/JPS work per request so a degenerate query cannot
// stall a worker.
const maxExpandedNodes = 250_000

// FindPath computes a shortest path between two cells with A* over the
// 4-connected unit-cost grid. The heuristic is Manhattan distance; ties on f
// break toward the lower h so the search leans into the goal. An unreachable
// goal is a normal outcome: Status is NotFound, never an error.
func (g *Grid) FindPath(start, goal Cell) Path {
	gen := g.Generation()
	notFound := Path{Status: StatusNotFound, Generation: gen}

	// Reject unusable endpoints before searching.
	if !g.Walkable(start) || !g.Walkable(goal) {
		return notFound
	}
	if start == goal {
		return Path{Status: StatusFound, Waypoints: []Cell{start}, Generation: gen}
	}

	open := &searchHeap{}
	heap.Init(open)

	root := &searchNode{cell: start, h: start.ManhattanTo(goal)}
	heap.Push(open, root)

	best := map[Cell]int32{start: 0}
	closed := make(map[Cell]struct{}, 256)

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
			next := Cell{X: cur.cell.X + d.dx, Y: cur.cell.Y + d.dy}
			if !g.Walkable(next) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			ng := cur.g + 1
			if known, ok := best[next]; ok && known <= ng {
				continue
			}
			best[next] = ng
			node := &searchNode{
				cell:   next,
				parent: cur,
				g:      ng,
				h:      next.ManhattanTo(goal),
			}
			heap.Push(open, node)
		}
	}

	return notFound
}

var cardinal = [4]struct{ dx, dy int32 }{
	{0, -1}, // north
	{1, 0},  // east
	{0, 1},  // south
	{-1, 0}, // west
}

// searchNode is one entry of the A*/JPS open list.
type searchNode struct {
	cell   Cell
	parent *searchNode
	g, h   int32
	index  int // heap index
}

func (n *searchNode) f() int32 { return n.g + n.h }

// reconstruct walks parent links back to the start and returns the waypoint
// list start-first. Parent links may skip cells (JPS jump points); skipped
// stretches are expanded so consecutive waypoints stay 4-adjacent.
func reconstruct(goal *searchNode) []Cell {
	var rev []Cell
	for n := goal; n != nil; n = n.parent {
		rev = append(rev, n.cell)
		if n.parent != nil {
			expandSegment(&rev, n.parent.cell, n.cell)
		}
	}
	// Reverse in place (built goal-first).
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// expandSegment appends the intermediate cells strictly between to and from
// (walking backward from `to` toward `from`, exclusive on both ends). Jump
// segments are always axis-aligned.
func expandSegment(out *[]Cell, from, to Cell) {
	dx := sign32(from.X - to.X)
	dy := sign32(from.Y - to.Y)
	for c := (Cell{X: to.X + dx, Y: to.Y + dy}); c != from; c = (Cell{X: c.X + dx, Y: c.Y + dy}) {
		*out = append(*out, c)
	}
}

func sign32(x int32) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// searchHeap implements container/heap for the open list (min-heap by f,
// tie-break on lower h).
type searchHeap []*searchNode

func (h searchHeap) Len() int { return len(h) }

func (h searchHeap) Less(i, j int) bool {
	fi, fj := h[i].f(), h[j].f()
	if fi != fj {
		return fi < fj
	}
	return h[i].h < h[j].h
}

func (h searchHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *searchHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *searchHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}

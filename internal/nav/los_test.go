package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineOfSightOpenGround(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)

	assert.True(t, g.LineOfSight(Cell{X: 0, Y: 0}, Cell{X: 10, Y: 0}))
	assert.True(t, g.LineOfSight(Cell{X: 0, Y: 0}, Cell{X: 10, Y: 10}))
	assert.True(t, g.LineOfSight(Cell{X: 3, Y: 8}, Cell{X: 12, Y: 2}))
}

func TestLineOfSightBlockedByWall(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)
	g.SetSolid(Cell{X: 5, Y: 0}, true)

	assert.False(t, g.LineOfSight(Cell{X: 0, Y: 0}, Cell{X: 10, Y: 0}))
	assert.True(t, g.LineOfSight(Cell{X: 0, Y: 0}, Cell{X: 4, Y: 0}),
		"wall past the endpoint must not block")
}

func TestLineOfSightEndpointsExcluded(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)
	g.SetSolid(Cell{X: 0, Y: 0}, true)
	g.SetSolid(Cell{X: 4, Y: 0}, true)

	// Occlusion counts cells strictly between the endpoints: a mob standing
	// in a bush still sees out of it.
	assert.True(t, g.LineOfSight(Cell{X: 0, Y: 0}, Cell{X: 4, Y: 0}))
}

func TestLineOfSightAdjacentAndSame(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)

	assert.True(t, g.LineOfSight(Cell{X: 3, Y: 3}, Cell{X: 3, Y: 3}))
	assert.True(t, g.LineOfSight(Cell{X: 3, Y: 3}, Cell{X: 4, Y: 3}))
}

func TestLineOfSightSymmetricOnAxes(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)
	g.SetSolid(Cell{X: 7, Y: 7}, true)

	a, b := Cell{X: 7, Y: 2}, Cell{X: 7, Y: 12}
	assert.False(t, g.LineOfSight(a, b))
	assert.False(t, g.LineOfSight(b, a))
}

func TestSmoothPathDropsRedundantWaypoints(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)

	// A staircase path across open ground collapses to its endpoints.
	path := []Cell{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1},
		{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3},
	}
	smoothed := g.SmoothPath(path)

	assert.Less(t, len(smoothed), len(path))
	assert.Equal(t, path[0], smoothed[0])
	assert.Equal(t, path[len(path)-1], smoothed[len(smoothed)-1])
}

func TestSmoothPathKeepsCornerAtWall(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)
	g.SetSolid(Cell{X: 1, Y: 1}, true)

	// Right-angle path around the block: the corner is load-bearing.
	path := []Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	smoothed := g.SmoothPath(path)

	assert.Equal(t, Cell{X: 0, Y: 0}, smoothed[0])
	assert.Equal(t, Cell{X: 2, Y: 2}, smoothed[len(smoothed)-1])
	for i := 1; i < len(smoothed); i++ {
		assert.True(t, g.LineOfSight(smoothed[i-1], smoothed[i]),
			"kept waypoints must be mutually visible")
	}
}

func TestSmoothPathDoesNotModifyInput(t *testing.T) {
	g := NewGrid(0, 0, 15, 15)

	path := []Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	orig := make([]Cell, len(path))
	copy(orig, path)

	_ = g.SmoothPath(path)
	assert.Equal(t, orig, path)
}

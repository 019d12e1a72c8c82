// Package world holds the narrow contracts the AI core consumes from the
// rest of the engine (terrain queries, the entity store, the clock) plus an
// in-memory implementation used by the simulation harness and tests. The AI
// core never owns entities; it only reads them and writes its own state.
package world

import (
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
)

// Terrain is the navigable-world query surface. *nav.Grid satisfies it.
type Terrain interface {
	IsSolid(c nav.Cell) bool
	LineOfSight(a, b nav.Cell) bool
	Generation() uint64
}

// Entities is the read surface over the external entity store.
type Entities interface {
	Position(id uint32) (model.Vec3, bool)
	Velocity(id uint32) (model.Vec3, bool)
	Health(id uint32) (hp, maxHP int32, ok bool)
	IsPlayer(id uint32) bool
	Archetype(id uint32) (name string, ok bool)

	// ForEachNearby visits entities within radius of pos. Iteration stops
	// early when fn returns false. Backed by a spatial index that is rebuilt
	// once per tick and immutable for the tick's duration.
	ForEachNearby(pos model.Vec3, radius float64, fn func(id uint32, pos model.Vec3) bool)

	// NearestPlayerDistance returns the distance from pos to the closest
	// player. ok is false when no players exist.
	NearestPlayerDistance(pos model.Vec3) (float64, bool)
}

// Clock provides the monotonic simulation tick.
type Clock interface {
	Tick() int64
}

// TickClock is a plain monotonic tick counter driven by the frame loop.
// Single-writer: only the frame loop advances it, between tick phases.
type TickClock struct {
	tick int64
}

// Tick returns the current tick.
func (c *TickClock) Tick() int64 { return c.tick }

// Advance moves the clock forward one tick and returns the new value.
func (c *TickClock) Advance() int64 {
	c.tick++
	return c.tick
}

package behavior

import (
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
)

// ActionFunc executes a side-effecting operation against the context.
// Running actions park continuation data in the state's scratch for the node.
type ActionFunc func(ctx *Context, n *Node, st *State) Status

// ConditionFunc is a pure predicate over the context. No side effects.
type ConditionFunc func(ctx *Context, p Params) bool

// Context is the per-evaluation view of one mob and its world. Built fresh
// by the controller each tick; actions read it and emit commands through the
// hooks, never mutating shared state directly.
type Context struct {
	Mob      *model.Mob
	Goal     model.Goal
	Snapshot *model.Snapshot
	Tick     int64
	Detail   model.LODTier

	Hooks *Hooks
}

// Hooks are the injected collaborator callbacks (the import-cycle-free
// wiring style: the controller owns the real services and hands closures
// down). Nil hooks disable the corresponding actions gracefully.
type Hooks struct {
	// Emit hands a command to the physics/combat/animation layers.
	Emit func(model.Command)

	// RequestPath issues an asynchronous path search.
	RequestPath func(mobID uint32, start, goal nav.Cell) *nav.Handle

	// Steer applies flock forces to a desired velocity.
	Steer func(mob *model.Mob, desired model.Vec3) model.Vec3

	// FollowLeader returns the leader-follow velocity, false when the mob
	// has no live leader.
	FollowLeader func(mob *model.Mob) (model.Vec3, bool)

	// WanderHeading returns the smooth wander direction for a mob at a tick.
	WanderHeading func(mobID uint32, tick int64) model.Vec3

	// Position resolves an entity position from the store.
	Position func(id uint32) (model.Vec3, bool)

	// Walkable reports whether a grid cell is navigable.
	Walkable func(c nav.Cell) bool
}

// emit is a nil-safe command emission helper for actions.
func (c *Context) emit(cmd model.Command) {
	if c.Hooks != nil && c.Hooks.Emit != nil {
		cmd.Mob = c.Mob.ID()
		cmd.Tick = c.Tick
		c.Hooks.Emit(cmd)
	}
}

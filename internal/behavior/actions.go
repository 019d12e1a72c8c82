package behavior

import (
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
)

// Built-in actions. Every movement-issuing action emits commands through the
// hooks; the physics layer owns actually moving the mob.
func init() {
	RegisterAction("move_to_goal", actionMoveToGoal)
	RegisterAction("steer_to_goal", actionSteerToGoal)
	RegisterAction("flee", actionFlee)
	RegisterAction("wander", actionWander)
	RegisterAction("follow_leader", actionFollowLeader)
	RegisterAction("attack_target", actionAttackTarget)
	RegisterAction("breed", actionBreed)
	RegisterAction("rest", actionRest)
	RegisterAction("stop", actionStop)
}

// goalPoint resolves the world position the active goal is about. For Flee
// the point is a spot Radius away from the threat, on the far side.
func goalPoint(ctx *Context) (model.Vec3, bool) {
	switch ctx.Goal.Kind {
	case model.GoalSeek:
		return ctx.Goal.Point, true

	case model.GoalAttack, model.GoalFollow, model.GoalReproduce:
		if ctx.Goal.Target == 0 || ctx.Hooks == nil || ctx.Hooks.Position == nil {
			return model.Vec3{}, false
		}
		return ctx.Hooks.Position(ctx.Goal.Target)

	case model.GoalFlee:
		pos := ctx.Mob.Position()
		away := pos.Sub(ctx.Goal.Point).Normalized()
		if away.IsZero() {
			away = ctx.Mob.Facing()
		}
		return pos.Add(away.Scale(ctx.Goal.Radius)), true

	default:
		return model.Vec3{}, false
	}
}

// pathFollow is the continuation a running move_to_goal parks between ticks.
type pathFollow struct {
	handle   *nav.Handle
	path     nav.Path
	loaded   bool
	waypoint int
	goalCell nav.Cell
}

// waypointArriveRadius is how close counts as "reached" for one waypoint.
const waypointArriveRadius = 0.6

// actionMoveToGoal walks the mob along an asynchronously computed path to
// the goal point. Running while the path is pending or being walked; Failure
// when no path exists (callers fall back to wander); Success on arrival.
func actionMoveToGoal(ctx *Context, n *Node, st *State) Status {
	dest, ok := goalPoint(ctx)
	if !ok {
		return StatusFailure
	}

	arrive := n.Params.Get("arrive", defaultArrive(ctx.Goal))
	pos := ctx.Mob.Position()
	if pos.DistanceTo(dest) <= arrive {
		clearPathFollow(n, st)
		return StatusSuccess
	}

	if ctx.Hooks == nil || ctx.Hooks.RequestPath == nil {
		return StatusFailure
	}

	goalCell := nav.CellAt(dest.X, dest.Y)
	pf, _ := st.Scratch(n).(*pathFollow)

	// Stale terrain or a moved destination invalidates the request.
	if pf != nil && (pf.handle.Stale() || pf.goalCell != goalCell) {
		pf.handle.Cancel()
		pf = nil
		st.SetScratch(n, nil)
	}

	if pf == nil {
		start := nav.CellAt(pos.X, pos.Y)
		pf = &pathFollow{
			handle:   ctx.Hooks.RequestPath(ctx.Mob.ID(), start, goalCell),
			goalCell: goalCell,
		}
		st.SetScratch(n, pf)
		return StatusRunning
	}

	switch pf.handle.Poll() {
	case nav.StatusPending:
		return StatusRunning
	case nav.StatusNotFound:
		clearPathFollow(n, st)
		return StatusFailure
	}

	if !pf.loaded {
		p, ok := pf.handle.Path()
		if !ok {
			clearPathFollow(n, st)
			return StatusFailure
		}
		pf.path = p
		pf.loaded = true
	}

	// Advance past waypoints the mob already reached.
	for pf.waypoint < len(pf.path.Waypoints) {
		wx, wy := pf.path.Waypoints[pf.waypoint].Center()
		if pos.DistanceTo(model.Vec3{X: wx, Y: wy, Z: pos.Z}) > waypointArriveRadius {
			break
		}
		pf.waypoint++
	}
	if pf.waypoint >= len(pf.path.Waypoints) {
		clearPathFollow(n, st)
		return StatusSuccess
	}

	remaining := make([]model.Vec3, 0, len(pf.path.Waypoints)-pf.waypoint)
	for _, c := range pf.path.Waypoints[pf.waypoint:] {
		wx, wy := c.Center()
		remaining = append(remaining, model.Vec3{X: wx, Y: wy, Z: pos.Z})
	}
	ctx.emit(model.Command{Kind: model.CommandMove, Waypoints: remaining})
	return StatusRunning
}

func clearPathFollow(n *Node, st *State) {
	if pf, ok := st.Scratch(n).(*pathFollow); ok {
		pf.handle.Cancel()
	}
	st.SetScratch(n, nil)
}

// actionSteerToGoal moves straight at the goal point with flock steering
// applied, the cheap movement mode for open terrain and low LOD tiers.
func actionSteerToGoal(ctx *Context, n *Node, st *State) Status {
	dest, ok := goalPoint(ctx)
	if !ok {
		return StatusFailure
	}

	arrive := n.Params.Get("arrive", defaultArrive(ctx.Goal))
	speed := n.Params.Get("speed", 1)
	pos := ctx.Mob.Position()
	if pos.DistanceTo(dest) <= arrive {
		return StatusSuccess
	}

	desired := dest.Sub(pos).Normalized().Scale(speed)
	ctx.emit(model.Command{Kind: model.CommandMove, Velocity: steered(ctx, desired)})
	return StatusRunning
}

// actionFlee runs from the threat position in the Flee goal until the safe
// distance is reached.
func actionFlee(ctx *Context, n *Node, st *State) Status {
	if ctx.Goal.Kind != model.GoalFlee {
		return StatusFailure
	}

	pos := ctx.Mob.Position()
	if pos.DistanceTo(ctx.Goal.Point) >= ctx.Goal.Radius {
		return StatusSuccess
	}

	speed := n.Params.Get("speed", 2)
	away := pos.Sub(ctx.Goal.Point).Normalized()
	if away.IsZero() {
		away = ctx.Mob.Facing()
	}
	ctx.emit(model.Command{Kind: model.CommandMove, Velocity: steered(ctx, away.Scale(speed))})
	return StatusRunning
}

// actionWander drifts near the mob's anchor with a smooth noise heading.
// Fire-and-forget: one velocity per tick, always Success.
func actionWander(ctx *Context, n *Node, st *State) Status {
	speed := n.Params.Get("speed", 0.5)
	leash := n.Params.Get("leash", 8)

	pos := ctx.Mob.Position()
	var desired model.Vec3
	if anchor := ctx.Mob.Anchor(); pos.DistanceTo(anchor) > leash {
		desired = anchor.Sub(pos).Normalized().Scale(speed)
	} else if ctx.Hooks != nil && ctx.Hooks.WanderHeading != nil {
		desired = ctx.Hooks.WanderHeading(ctx.Mob.ID(), ctx.Tick).Scale(speed)
	}

	ctx.emit(model.Command{Kind: model.CommandMove, Velocity: steered(ctx, desired)})
	return StatusSuccess
}

// actionFollowLeader trails the mob's flock leader. Running as long as a
// live leader exists.
func actionFollowLeader(ctx *Context, n *Node, st *State) Status {
	if ctx.Hooks == nil || ctx.Hooks.FollowLeader == nil {
		return StatusFailure
	}
	desired, ok := ctx.Hooks.FollowLeader(ctx.Mob)
	if !ok {
		return StatusFailure
	}
	ctx.emit(model.Command{Kind: model.CommandMove, Velocity: steered(ctx, desired)})
	return StatusRunning
}

// actionAttackTarget strikes the attack goal's target when in range,
// spacing strikes by the cooldown parameter (in ticks).
func actionAttackTarget(ctx *Context, n *Node, st *State) Status {
	target := ctx.Goal.Target
	if ctx.Goal.Kind != model.GoalAttack || target == 0 {
		return StatusFailure
	}
	if ctx.Hooks == nil || ctx.Hooks.Position == nil {
		return StatusFailure
	}

	tpos, ok := ctx.Hooks.Position(target)
	if !ok {
		return StatusFailure
	}
	if ctx.Mob.Position().DistanceTo(tpos) > ctx.Goal.Radius {
		return StatusFailure
	}

	cooldown := int64(n.Params.Get("cooldown", 10))
	if last, ok := st.Scratch(n).(int64); ok && ctx.Tick-last < cooldown {
		return StatusRunning
	}

	ctx.emit(model.Command{Kind: model.CommandAttack, Target: target})
	st.SetScratch(n, ctx.Tick)
	return StatusSuccess
}

// actionBreed pairs with the reproduce goal's partner when adjacent.
func actionBreed(ctx *Context, n *Node, st *State) Status {
	if ctx.Goal.Kind != model.GoalReproduce || ctx.Goal.Target == 0 {
		return StatusFailure
	}
	if ctx.Hooks == nil || ctx.Hooks.Position == nil {
		return StatusFailure
	}

	ppos, ok := ctx.Hooks.Position(ctx.Goal.Target)
	if !ok {
		return StatusFailure
	}
	if ctx.Mob.Position().DistanceTo(ppos) > n.Params.Get("range", 1.5) {
		return StatusFailure
	}

	ctx.emit(model.Command{Kind: model.CommandBreed, Target: ctx.Goal.Target})
	ctx.Mob.SetLastBreedTick(ctx.Tick)
	return StatusSuccess
}

// actionRest plays the sleep/idle state, regenerating "heal" HP per tick
// while below full health.
func actionRest(ctx *Context, n *Node, st *State) Status {
	if heal := int32(n.Params.Get("heal", 0)); heal > 0 && ctx.Mob.HP() < ctx.Mob.MaxHP() {
		ctx.Mob.SetHP(ctx.Mob.HP() + heal)
	}
	ctx.emit(model.Command{Kind: model.CommandSleep})
	return StatusSuccess
}

// actionStop zeroes the mob's movement.
func actionStop(ctx *Context, n *Node, st *State) Status {
	ctx.emit(model.Command{Kind: model.CommandMove})
	return StatusSuccess
}

// steered applies flock forces when the hook is wired and the LOD tier runs
// flocking (Low and Inactive skip it).
func steered(ctx *Context, desired model.Vec3) model.Vec3 {
	if ctx.Hooks == nil || ctx.Hooks.Steer == nil {
		return desired
	}
	if ctx.Detail >= model.LODLow {
		return desired
	}
	return ctx.Hooks.Steer(ctx.Mob, desired)
}

func defaultArrive(g model.Goal) float64 {
	if g.Radius > 0 {
		return g.Radius
	}
	return 1
}

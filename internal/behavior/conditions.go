package behavior

import "github.com/veilcraft/mobcore/internal/model"

// Built-in conditions: pure predicates, no side effects, never Running.
func init() {
	RegisterCondition("has_target", condHasTarget)
	RegisterCondition("target_in_range", condTargetInRange)
	RegisterCondition("health_below", condHealthBelow)
	RegisterCondition("recently_damaged", condRecentlyDamaged)
	RegisterCondition("sees_threat", condSeesThreat)
	RegisterCondition("perceived_anything", condPerceivedAnything)
	RegisterCondition("at_anchor", condAtAnchor)
	RegisterCondition("can_breed", condCanBreed)
	RegisterCondition("has_leader", condHasLeader)

	RegisterCondition("goal_is_idle", goalIs(model.GoalIdle))
	RegisterCondition("goal_is_seek", goalIs(model.GoalSeek))
	RegisterCondition("goal_is_follow", goalIs(model.GoalFollow))
	RegisterCondition("goal_is_attack", goalIs(model.GoalAttack))
	RegisterCondition("goal_is_flee", goalIs(model.GoalFlee))
	RegisterCondition("goal_is_reproduce", goalIs(model.GoalReproduce))
}

func goalIs(kind model.GoalKind) ConditionFunc {
	return func(ctx *Context, _ Params) bool {
		return ctx.Goal.Kind == kind
	}
}

// condHasTarget: the goal references an entity that still exists.
func condHasTarget(ctx *Context, _ Params) bool {
	if ctx.Goal.Target == 0 {
		return false
	}
	if ctx.Hooks == nil || ctx.Hooks.Position == nil {
		return false
	}
	_, ok := ctx.Hooks.Position(ctx.Goal.Target)
	return ok
}

// condTargetInRange: the goal's target is within range (param "range",
// defaulting to the goal radius).
func condTargetInRange(ctx *Context, p Params) bool {
	if ctx.Goal.Target == 0 || ctx.Hooks == nil || ctx.Hooks.Position == nil {
		return false
	}
	tpos, ok := ctx.Hooks.Position(ctx.Goal.Target)
	if !ok {
		return false
	}
	r := p.Get("range", defaultArrive(ctx.Goal))
	return ctx.Mob.Position().DistanceTo(tpos) <= r
}

// condHealthBelow: health fraction under param "fraction" (default 0.3).
func condHealthBelow(ctx *Context, p Params) bool {
	return ctx.Mob.HealthFraction() < p.Get("fraction", 0.3)
}

// condRecentlyDamaged: hit within the last "window" ticks (default 40).
func condRecentlyDamaged(ctx *Context, p Params) bool {
	window := int64(p.Get("window", 40))
	return ctx.Tick-ctx.Mob.LastDamageTick() <= window
}

// condSeesThreat: the snapshot contains at least one vision stimulus.
func condSeesThreat(ctx *Context, _ Params) bool {
	_, ok := ctx.Snapshot.Strongest(model.StimulusVision)
	return ok
}

// condPerceivedAnything: any stimulus at all this tick.
func condPerceivedAnything(ctx *Context, _ Params) bool {
	return ctx.Snapshot != nil && len(ctx.Snapshot.Events) > 0
}

// condAtAnchor: within "radius" (default 2) of the spawn anchor.
func condAtAnchor(ctx *Context, p Params) bool {
	r := p.Get("radius", 2)
	return ctx.Mob.Position().DistanceTo(ctx.Mob.Anchor()) <= r
}

// condCanBreed: breeding cooldown (param "cooldown", default 600 ticks)
// has elapsed.
func condCanBreed(ctx *Context, p Params) bool {
	cooldown := int64(p.Get("cooldown", 600))
	return ctx.Tick-ctx.Mob.LastBreedTick() >= cooldown
}

// condHasLeader: a flock leader is assigned and alive.
func condHasLeader(ctx *Context, _ Params) bool {
	leader := ctx.Mob.Leader()
	if leader == 0 || ctx.Hooks == nil || ctx.Hooks.Position == nil {
		return false
	}
	_, ok := ctx.Hooks.Position(leader)
	return ok
}

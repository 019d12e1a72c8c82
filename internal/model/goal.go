package model

// GoalKind discriminates the closed set of behavior goals.
type GoalKind int32

const (
	// GoalIdle - mob is standing around or foraging near its anchor
	GoalIdle GoalKind = iota
	// GoalSeek - mob is moving toward a point of interest
	GoalSeek
	// GoalFollow - mob is following another entity at a distance
	GoalFollow
	// GoalAttack - mob is engaging a target entity
	GoalAttack
	// GoalFlee - mob is running away from a threat position
	GoalFlee
	// GoalReproduce - mob is seeking or waiting on a breeding partner
	GoalReproduce
)

// String returns human-readable goal kind name
func (k GoalKind) String() string {
	switch k {
	case GoalIdle:
		return "IDLE"
	case GoalSeek:
		return "SEEK"
	case GoalFollow:
		return "FOLLOW"
	case GoalAttack:
		return "ATTACK"
	case GoalFlee:
		return "FLEE"
	case GoalReproduce:
		return "REPRODUCE"
	default:
		return "UNKNOWN"
	}
}

// Goal is the tagged variant describing what a mob is currently trying to do.
// Exactly one goal is active per mob; replacement is atomic (see Mob.SetGoal).
// Which fields are meaningful depends on Kind:
//
//	Seek:      Point, Radius
//	Follow:    Target, Radius (follow distance)
//	Attack:    Target, Radius (attack range)
//	Flee:      Point (threat position), Radius (safe distance)
//	Reproduce: Target (partner, 0 = searching), Cooldown
//
// Goal is comparable, so goal-change detection is a plain != check.
type Goal struct {
	Kind     GoalKind
	Target   uint32 // entity id, 0 when unset
	Point    Vec3
	Radius   float64
	Cooldown int64 // ticks, Reproduce only
}

// Idle returns the idle goal.
func Idle() Goal {
	return Goal{Kind: GoalIdle}
}

// Seek returns a goal to move within radius of a point.
func Seek(point Vec3, radius float64) Goal {
	return Goal{Kind: GoalSeek, Point: point, Radius: radius}
}

// Follow returns a goal to trail an entity at the given distance.
func Follow(target uint32, distance float64) Goal {
	return Goal{Kind: GoalFollow, Target: target, Radius: distance}
}

// AttackGoal returns a goal to engage a target within range.
func AttackGoal(target uint32, attackRange float64) Goal {
	return Goal{Kind: GoalAttack, Target: target, Radius: attackRange}
}

// Flee returns a goal to put distance between the mob and a threat position.
func Flee(threat Vec3, distance float64) Goal {
	return Goal{Kind: GoalFlee, Point: threat, Radius: distance}
}

// Reproduce returns a breeding goal. partner may be 0 while still searching.
func Reproduce(partner uint32, cooldown int64) Goal {
	return Goal{Kind: GoalReproduce, Target: partner, Cooldown: cooldown}
}

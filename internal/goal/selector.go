// Package goal maps a mob's category and its latest perception snapshot to
// the single behavior goal the tree evaluates against. Selection is a pure
// function of (mob, snapshot, tick, entities) so replays are deterministic;
// installing the result and cancelling work tied to the old goal is the
// controller's job.
package goal

import (
	"math"

	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/world"
)

// Config tunes goal selection for one archetype.
type Config struct {
	AggroRadius  float64 `yaml:"aggro_radius"`
	AttackRange  float64 `yaml:"attack_range"`
	FleeDistance float64 `yaml:"flee_distance"`

	// FleeHealthFraction: neutral mobs under this fraction flee instead of
	// retaliating.
	FleeHealthFraction float64 `yaml:"flee_health_fraction"`

	// DamageWindow: passive mobs flee for this many ticks after a hit.
	DamageWindow int64 `yaml:"damage_window"`

	// BreedCooldown: ticks a passive mob waits between breedings before it
	// seeks a same-archetype partner again. Zero disables breeding.
	BreedCooldown int64 `yaml:"breed_cooldown"`

	// Patrol ring for hostile mobs with nothing to attack.
	PatrolRadius float64 `yaml:"patrol_radius"`
	PatrolPeriod int64   `yaml:"patrol_period"` // ticks per patrol leg

	// Boss phase table, ordered highest health first.
	BossPhases []Phase `yaml:"boss_phases"`
}

// Phase is one row of a boss phase table, active while the boss's health
// fraction is at least MinHealth and below the previous row's bound.
type Phase struct {
	MinHealth    float64 `yaml:"min_health"`
	AttackRange  float64 `yaml:"attack_range"`
	FleeDistance float64 `yaml:"flee_distance"` // >0 turns the phase into a retreat
}

// DefaultConfig returns selection parameters sized for a unit-cell grid.
func DefaultConfig() Config {
	return Config{
		AggroRadius:        10,
		AttackRange:        1.5,
		FleeDistance:       15,
		FleeHealthFraction: 0.3,
		DamageWindow:       40,
		BreedCooldown:      1200,
		PatrolRadius:       6,
		PatrolPeriod:       120,
		BossPhases: []Phase{
			{MinHealth: 0.6, AttackRange: 1.5},
			{MinHealth: 0.25, AttackRange: 3},
			{MinHealth: 0, AttackRange: 3, FleeDistance: 10},
		},
	}
}

// Selector derives goals from perception.
type Selector struct {
	cfg Config
}

// NewSelector creates a selector with the given tuning.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the goal the mob should pursue right now. Dispatch is
// exhaustive over the category sum; an unknown category idles.
func (s *Selector) Select(mob *model.Mob, snap *model.Snapshot, tick int64, entities world.Entities) model.Goal {
	switch mob.Category() {
	case model.CategoryPassive:
		return s.selectPassive(mob, snap, tick, entities)
	case model.CategoryNeutral:
		return s.selectNeutral(mob, snap, entities)
	case model.CategoryHostile:
		return s.selectHostile(mob, snap, tick, entities)
	case model.CategoryBoss:
		return s.selectBoss(mob, entities)
	default:
		return model.Idle()
	}
}

// selectPassive: flee for a window after taking damage, court a nearby
// partner once the breeding cooldown elapsed, otherwise idle and forage.
func (s *Selector) selectPassive(mob *model.Mob, snap *model.Snapshot, tick int64, entities world.Entities) model.Goal {
	if tick-mob.LastDamageTick() <= s.cfg.DamageWindow {
		// Run from the loudest thing we perceived; failing that, from
		// wherever we are facing away from.
		if ev, ok := snap.StrongestAny(); ok {
			return model.Flee(ev.Position, s.cfg.FleeDistance)
		}
		threat := mob.Position().Add(mob.Facing().Scale(-1))
		return model.Flee(threat, s.cfg.FleeDistance)
	}

	if partner, ok := s.breedPartner(mob, snap, tick, entities); ok {
		return model.Reproduce(partner, s.cfg.BreedCooldown)
	}
	return model.Idle()
}

// breedPartner picks the nearest perceived mob of the same archetype, once
// the breeding cooldown has elapsed. Players never qualify. Distance ties
// break on the lower id so selection stays a pure function of its inputs.
func (s *Selector) breedPartner(mob *model.Mob, snap *model.Snapshot, tick int64, entities world.Entities) (uint32, bool) {
	if s.cfg.BreedCooldown <= 0 || tick-mob.LastBreedTick() < s.cfg.BreedCooldown {
		return 0, false
	}
	if snap == nil || entities == nil {
		return 0, false
	}

	var best uint32
	bestDist := math.MaxFloat64
	pos := mob.Position()
	for _, ev := range snap.Events {
		if ev.Subject == 0 || ev.Subject == mob.ID() || entities.IsPlayer(ev.Subject) {
			continue
		}
		if arch, ok := entities.Archetype(ev.Subject); !ok || arch != mob.Archetype() {
			continue
		}
		d := pos.DistanceSquared(ev.Position)
		if d < bestDist || (d == bestDist && ev.Subject < best) {
			best, bestDist = ev.Subject, d
		}
	}
	return best, best != 0
}

// selectNeutral: retaliate against perceived aggressors, fleeing instead
// when badly hurt.
func (s *Selector) selectNeutral(mob *model.Mob, snap *model.Snapshot, entities world.Entities) model.Goal {
	threat, tpos, ok := s.perceivedAggressor(mob, snap, entities)
	if !ok {
		return model.Idle()
	}

	if mob.HealthFraction() < s.cfg.FleeHealthFraction {
		return model.Flee(tpos, s.cfg.FleeDistance)
	}
	return model.AttackGoal(threat, s.cfg.AttackRange)
}

// selectHostile: attack any viable target in aggro range, otherwise walk the
// patrol ring around the anchor.
func (s *Selector) selectHostile(mob *model.Mob, snap *model.Snapshot, tick int64, entities world.Entities) model.Goal {
	if target, _, ok := s.attackableTarget(mob, snap, entities); ok {
		return model.AttackGoal(target, s.cfg.AttackRange)
	}

	// Deterministic patrol: one leg of an eight-point ring per period.
	leg := (tick / max(s.cfg.PatrolPeriod, 1)) % 8
	angle := float64(leg) * math.Pi / 4
	anchor := mob.Anchor()
	point := model.Vec3{
		X: anchor.X + math.Cos(angle)*s.cfg.PatrolRadius,
		Y: anchor.Y + math.Sin(angle)*s.cfg.PatrolRadius,
		Z: anchor.Z,
	}
	return model.Seek(point, 1.5)
}

// selectBoss: phase table keyed by health fraction.
func (s *Selector) selectBoss(mob *model.Mob, entities world.Entities) model.Goal {
	phase, ok := s.phaseFor(mob.HealthFraction())
	if !ok {
		return model.Idle()
	}

	target := mob.Threats().MostThreatening()
	tpos, alive := position(entities, target)
	if target == 0 || !alive {
		return model.Idle()
	}

	if phase.FleeDistance > 0 {
		return model.Flee(tpos, phase.FleeDistance)
	}
	return model.AttackGoal(target, phase.AttackRange)
}

func (s *Selector) phaseFor(healthFrac float64) (Phase, bool) {
	for _, p := range s.cfg.BossPhases {
		if healthFrac >= p.MinHealth {
			return p, true
		}
	}
	return Phase{}, false
}

// perceivedAggressor finds the strongest perceived entity that has actually
// attacked this mob and is inside aggro range.
func (s *Selector) perceivedAggressor(mob *model.Mob, snap *model.Snapshot, entities world.Entities) (uint32, model.Vec3, bool) {
	if snap == nil {
		return 0, model.Vec3{}, false
	}
	pos := mob.Position()
	for _, ev := range snap.Events { // ranked strongest-first
		if ev.Subject == 0 || mob.Threats().Threat(ev.Subject) == 0 {
			continue
		}
		tpos, ok := position(entities, ev.Subject)
		if !ok || pos.DistanceTo(tpos) > s.cfg.AggroRadius {
			continue
		}
		return ev.Subject, tpos, true
	}
	return 0, model.Vec3{}, false
}

// attackableTarget picks the hostile mob's victim: the most-threatening
// known aggressor if still in range, else the strongest perceived player.
func (s *Selector) attackableTarget(mob *model.Mob, snap *model.Snapshot, entities world.Entities) (uint32, model.Vec3, bool) {
	pos := mob.Position()

	if hated := mob.Threats().MostThreatening(); hated != 0 {
		if tpos, ok := position(entities, hated); ok && pos.DistanceTo(tpos) <= s.cfg.AggroRadius {
			return hated, tpos, true
		}
	}

	if snap == nil || entities == nil {
		return 0, model.Vec3{}, false
	}
	for _, ev := range snap.Events {
		if ev.Subject == 0 || !entities.IsPlayer(ev.Subject) {
			continue
		}
		tpos, ok := position(entities, ev.Subject)
		if !ok || pos.DistanceTo(tpos) > s.cfg.AggroRadius {
			continue
		}
		return ev.Subject, tpos, true
	}
	return 0, model.Vec3{}, false
}

func position(entities world.Entities, id uint32) (model.Vec3, bool) {
	if entities == nil || id == 0 {
		return model.Vec3{}, false
	}
	return entities.Position(id)
}

package goal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/world"
)

func seenSnapshot(tick int64, events ...model.PerceptionEvent) *model.Snapshot {
	return &model.Snapshot{Events: events, Tick: tick}
}

func sighting(subject uint32, pos model.Vec3, strength float64) model.PerceptionEvent {
	return model.PerceptionEvent{
		Kind:     model.StimulusVision,
		Subject:  subject,
		Position: pos,
		Strength: strength,
	}
}

func storeWith(entities ...world.Entity) *world.Store {
	store := world.NewStore()
	for _, e := range entities {
		store.Put(e)
	}
	store.RebuildIndex()
	return store
}

func TestPassiveIdlesUntilDamaged(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{}, 100)

	g := sel.Select(deer, seenSnapshot(100), 100, storeWith())
	assert.Equal(t, model.GoalIdle, g.Kind)
}

func TestPassiveFleesInsideDamageWindow(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{}, 100)
	deer.NoteDamage(42, 5, 100)

	wolfPos := model.Vec3{X: 3}
	snap := seenSnapshot(110, sighting(42, wolfPos, 0.8))

	g := sel.Select(deer, snap, 110, storeWith())
	require.Equal(t, model.GoalFlee, g.Kind)
	assert.Equal(t, wolfPos, g.Point)
	assert.Equal(t, cfg.FleeDistance, g.Radius)

	// Window expired: back to idle.
	g = sel.Select(deer, snap, 100+cfg.DamageWindow+1, storeWith())
	assert.Equal(t, model.GoalIdle, g.Kind)
}

func TestPassiveFleesBehindWhenAttackerUnseen(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{X: 10}, 100)
	deer.SetPosition(model.Vec3{X: 11}) // facing +X now
	deer.NoteDamage(0, 5, 100)          // hit from an unknown source

	g := sel.Select(deer, seenSnapshot(105), 105, storeWith())
	require.Equal(t, model.GoalFlee, g.Kind)
	assert.Less(t, g.Point.X, deer.Position().X, "presumed threat sits behind the facing direction")
}

func TestPassiveCourtsNearestPartnerOffCooldown(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{}, 100)
	store := storeWith(
		world.Entity{ID: 2, Pos: model.Vec3{X: 5}, HP: 100, MaxHP: 100, Archetype: "deer"},
		world.Entity{ID: 3, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Archetype: "deer"},
	)
	snap := seenSnapshot(100,
		sighting(2, model.Vec3{X: 5}, 0.7),
		sighting(3, model.Vec3{X: 2}, 0.9),
	)

	g := sel.Select(deer, snap, 100, store)
	require.Equal(t, model.GoalReproduce, g.Kind)
	assert.Equal(t, uint32(3), g.Target, "the closer partner wins")
	assert.Equal(t, cfg.BreedCooldown, g.Cooldown)
}

func TestPassiveIgnoresUnsuitablePartners(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{}, 100)
	store := storeWith(
		world.Entity{ID: 2, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Archetype: "wolf"},
		world.Entity{ID: 3, Pos: model.Vec3{X: 3}, HP: 100, MaxHP: 100, Player: true},
	)
	snap := seenSnapshot(100,
		sighting(2, model.Vec3{X: 2}, 0.9),
		sighting(3, model.Vec3{X: 3}, 0.8),
	)

	g := sel.Select(deer, snap, 100, store)
	assert.Equal(t, model.GoalIdle, g.Kind, "other species and players are not partners")
}

func TestPassiveHonorsBreedCooldown(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	deer := model.NewMob(1, "deer", model.CategoryPassive, model.Vec3{}, 100)
	deer.SetLastBreedTick(100)
	store := storeWith(world.Entity{ID: 2, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Archetype: "deer"})
	snap := seenSnapshot(110, sighting(2, model.Vec3{X: 2}, 0.9))

	g := sel.Select(deer, snap, 110, store)
	assert.Equal(t, model.GoalIdle, g.Kind, "still on cooldown")

	later := 100 + cfg.BreedCooldown
	g = sel.Select(deer, seenSnapshot(later, sighting(2, model.Vec3{X: 2}, 0.9)), later, store)
	assert.Equal(t, model.GoalReproduce, g.Kind)
}

func TestNeutralRetaliatesAgainstAggressor(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	boar := model.NewMob(1, "boar", model.CategoryNeutral, model.Vec3{}, 100)
	boar.NoteDamage(42, 5, 10)

	store := storeWith(world.Entity{ID: 42, Pos: model.Vec3{X: 4}, HP: 100, MaxHP: 100, Player: true})
	snap := seenSnapshot(11, sighting(42, model.Vec3{X: 4}, 0.7))

	g := sel.Select(boar, snap, 11, store)
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, uint32(42), g.Target)
	assert.Equal(t, cfg.AttackRange, g.Radius)
}

func TestNeutralFleesWhenBadlyHurt(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	boar := model.NewMob(1, "boar", model.CategoryNeutral, model.Vec3{}, 100)
	boar.NoteDamage(42, 5, 10)
	boar.SetHP(20) // under the flee fraction

	aggressorPos := model.Vec3{X: 4}
	store := storeWith(world.Entity{ID: 42, Pos: aggressorPos, HP: 100, MaxHP: 100, Player: true})
	snap := seenSnapshot(11, sighting(42, aggressorPos, 0.7))

	g := sel.Select(boar, snap, 11, store)
	require.Equal(t, model.GoalFlee, g.Kind)
	assert.Equal(t, aggressorPos, g.Point)
}

func TestNeutralIgnoresBystanders(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	boar := model.NewMob(1, "boar", model.CategoryNeutral, model.Vec3{}, 100)

	// Perceived but never attacked us.
	store := storeWith(world.Entity{ID: 7, Pos: model.Vec3{X: 3}, HP: 100, MaxHP: 100, Player: true})
	snap := seenSnapshot(11, sighting(7, model.Vec3{X: 3}, 0.9))

	g := sel.Select(boar, snap, 11, store)
	assert.Equal(t, model.GoalIdle, g.Kind)
}

func TestNeutralIgnoresAggressorOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	boar := model.NewMob(1, "boar", model.CategoryNeutral, model.Vec3{}, 100)
	boar.NoteDamage(42, 5, 10)

	farPos := model.Vec3{X: cfg.AggroRadius + 5}
	store := storeWith(world.Entity{ID: 42, Pos: farPos, HP: 100, MaxHP: 100, Player: true})
	snap := seenSnapshot(11, sighting(42, farPos, 0.3))

	g := sel.Select(boar, snap, 11, store)
	assert.Equal(t, model.GoalIdle, g.Kind)
}

func TestHostileAttacksMostThreatening(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	wolf := model.NewMob(1, "wolf", model.CategoryHostile, model.Vec3{}, 100)
	wolf.Threats().AddThreat(42, 50)
	wolf.Threats().AddThreat(43, 200)

	store := storeWith(
		world.Entity{ID: 42, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Player: true},
		world.Entity{ID: 43, Pos: model.Vec3{X: 5}, HP: 100, MaxHP: 100, Player: true},
	)

	g := sel.Select(wolf, seenSnapshot(10), 10, store)
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, uint32(43), g.Target, "highest accumulated threat wins even when farther")
}

func TestHostileAttacksPerceivedPlayer(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	wolf := model.NewMob(1, "wolf", model.CategoryHostile, model.Vec3{}, 100)

	store := storeWith(
		world.Entity{ID: 42, Pos: model.Vec3{X: 4}, HP: 100, MaxHP: 100, Player: true},
		world.Entity{ID: 99, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Player: false},
	)
	// Another mob is perceived more strongly, but only players draw
	// unprovoked aggression.
	snap := seenSnapshot(10, sighting(99, model.Vec3{X: 2}, 0.9), sighting(42, model.Vec3{X: 4}, 0.6))

	g := sel.Select(wolf, snap, 10, store)
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, uint32(42), g.Target)
}

func TestHostilePatrolsDeterministically(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	anchor := model.Vec3{X: 100, Y: 100}
	wolf := model.NewMob(1, "wolf", model.CategoryHostile, anchor, 100)
	store := storeWith()

	g := sel.Select(wolf, seenSnapshot(0), 0, store)
	require.Equal(t, model.GoalSeek, g.Kind)
	assert.InDelta(t, cfg.PatrolRadius, g.Point.DistanceTo(anchor), 1e-9, "patrol points sit on the ring")

	// Same tick, same leg; later period, next leg.
	again := sel.Select(wolf, seenSnapshot(0), 0, store)
	assert.Equal(t, g, again)

	next := sel.Select(wolf, seenSnapshot(0), cfg.PatrolPeriod, store)
	assert.NotEqual(t, g.Point, next.Point)
	assert.InDelta(t, cfg.PatrolRadius, next.Point.DistanceTo(anchor), 1e-9)

	// The ring closes: eight legs later the first point repeats.
	wrapped := sel.Select(wolf, seenSnapshot(0), 8*cfg.PatrolPeriod, store)
	assert.InDelta(t, g.Point.X, wrapped.Point.X, 1e-9)
	assert.InDelta(t, g.Point.Y, wrapped.Point.Y, 1e-9)
}

func TestBossPhasesByHealth(t *testing.T) {
	cfg := DefaultConfig()
	sel := NewSelector(cfg)
	boss := model.NewMob(1, "ogre_warlord", model.CategoryBoss, model.Vec3{}, 800)
	boss.Threats().AddThreat(42, 100)
	store := storeWith(world.Entity{ID: 42, Pos: model.Vec3{X: 3}, HP: 100, MaxHP: 100, Player: true})

	// Full health: first phase, short reach.
	g := sel.Select(boss, seenSnapshot(10), 10, store)
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, cfg.BossPhases[0].AttackRange, g.Radius)

	// Mid phase: extended reach.
	boss.SetHP(int32(math.Ceil(0.4 * 800)))
	g = sel.Select(boss, seenSnapshot(10), 10, store)
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, cfg.BossPhases[1].AttackRange, g.Radius)

	// Last phase retreats.
	boss.SetHP(int32(0.1 * 800))
	g = sel.Select(boss, seenSnapshot(10), 10, store)
	require.Equal(t, model.GoalFlee, g.Kind)
	assert.Equal(t, cfg.BossPhases[2].FleeDistance, g.Radius)
}

func TestBossIdlesWithoutTarget(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	boss := model.NewMob(1, "ogre_warlord", model.CategoryBoss, model.Vec3{}, 800)

	g := sel.Select(boss, seenSnapshot(10), 10, storeWith())
	assert.Equal(t, model.GoalIdle, g.Kind)
}

func TestSelectionIsPure(t *testing.T) {
	sel := NewSelector(DefaultConfig())
	wolf := model.NewMob(1, "wolf", model.CategoryHostile, model.Vec3{}, 100)
	wolf.Threats().AddThreat(42, 50)
	store := storeWith(world.Entity{ID: 42, Pos: model.Vec3{X: 2}, HP: 100, MaxHP: 100, Player: true})
	snap := seenSnapshot(10, sighting(42, model.Vec3{X: 2}, 0.5))

	first := sel.Select(wolf, snap, 10, store)
	for range 10 {
		assert.Equal(t, first, sel.Select(wolf, snap, 10, store))
	}
}

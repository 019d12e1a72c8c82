package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcraft/mobcore/internal/data"
	"github.com/veilcraft/mobcore/internal/flock"
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
	"github.com/veilcraft/mobcore/internal/perception"
	"github.com/veilcraft/mobcore/internal/world"
)

// rig is a minimal world for controller tests: real grid, store, path
// service, and a command capture.
type rig struct {
	grid    *nav.Grid
	store   *world.Store
	sources *world.Sources
	table   *data.Table

	mu      sync.Mutex
	emitted []model.Command
}

func newRig(t *testing.T) *rig {
	t.Helper()
	table, err := data.DefaultTable()
	require.NoError(t, err)
	return &rig{
		grid:    nav.NewGrid(-64, -64, 63, 63),
		store:   world.NewStore(),
		sources: world.NewSources(),
		table:   table,
	}
}

func (r *rig) view() perception.View {
	return perception.View{Terrain: r.grid, Entities: r.store, Sources: r.sources}
}

func (r *rig) emit(cmd model.Command) {
	r.mu.Lock()
	r.emitted = append(r.emitted, cmd)
	r.mu.Unlock()
}

func (r *rig) spawn(t *testing.T, id uint32, archetype string, pos model.Vec3) *Controller {
	t.Helper()
	arch := r.table.Get(archetype)
	require.NotNil(t, arch, "unknown archetype %q", archetype)

	mob := model.NewMob(id, archetype, arch.Category(), pos, arch.MaxHP())
	r.store.Put(world.Entity{ID: id, Pos: pos, HP: arch.MaxHP(), MaxHP: arch.MaxHP(), Archetype: archetype})

	paths := nav.NewService(r.grid, 2, false)
	return NewController(mob, arch, r.view(), paths, flock.NewWanderer(1), r.emit)
}

func (r *rig) addPlayer(id uint32, pos model.Vec3) {
	r.store.Put(world.Entity{ID: id, Pos: pos, HP: 100, MaxHP: 100, Player: true})
}

func TestControllerSpawnGraceSuppressesPerception(t *testing.T) {
	r := newRig(t)
	r.addPlayer(42, model.Vec3{X: 3})
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()

	// The player stands in plain sight, but the grace period keeps the
	// fresh spawn blind.
	for tick := int64(1); tick <= spawnGraceTicks; tick++ {
		c.Update(tick, model.LODHigh)
		assert.Nil(t, c.Mob().Snapshot(), "tick %d: still in grace", tick)
	}

	c.Update(spawnGraceTicks+1, model.LODHigh)
	require.NotNil(t, c.Mob().Snapshot())
	assert.NotEmpty(t, c.Mob().Snapshot().Events)
}

func TestControllerDamageCancelsGrace(t *testing.T) {
	r := newRig(t)
	r.addPlayer(42, model.Vec3{X: 3})
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()

	c.NotifyDamage(42, 5, 1)
	c.Update(2, model.LODHigh)

	require.NotNil(t, c.Mob().Snapshot())
	g := c.Mob().Goal()
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, uint32(42), g.Target)
}

func TestControllerLeashOverridesEverything(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()
	c.NotifyDamage(42, 30, 1)

	mob := c.Mob()
	mob.SetPosition(model.Vec3{X: c.Archetype().LeashRadius() + 5})

	c.Update(2, model.LODHigh)

	g := mob.Goal()
	require.Equal(t, model.GoalSeek, g.Kind)
	assert.Equal(t, mob.Anchor(), g.Point)
	assert.True(t, mob.Threats().Empty(), "leashing wipes the threat list")
	assert.Equal(t, mob.MaxHP(), mob.HP(), "leashing restores health")
}

func TestControllerThreatDecayAfterFullHeal(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()

	c.NotifyDamage(42, 5, 1)
	c.Mob().SetHP(c.Mob().MaxHP())

	// Still remembered shortly after.
	c.Update(100, model.LODHigh)
	assert.False(t, c.Mob().Threats().Empty())

	// Long past the forget horizon with full health: grudge dropped.
	c.Update(1+threatForgetTicks+1, model.LODHigh)
	assert.True(t, c.Mob().Threats().Empty())
}

func TestControllerGoalChangeOnTargetAppearing(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()
	c.spawnGrace.Store(0)

	// Nothing around: a hostile mob patrols.
	c.Update(1, model.LODHigh)
	require.Equal(t, model.GoalSeek, c.Mob().Goal().Kind)

	// A player walks in; the next update swaps to attack.
	r.addPlayer(42, model.Vec3{X: 4})
	r.store.RebuildIndex()
	c.Update(2, model.LODHigh)

	g := c.Mob().Goal()
	require.Equal(t, model.GoalAttack, g.Kind)
	assert.Equal(t, uint32(42), g.Target)
}

func TestControllerStopDropsCombatState(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	c.Start()
	c.NotifyDamage(42, 5, 1)

	c.Stop()

	assert.False(t, c.Running())
	assert.True(t, c.Mob().Threats().Empty())
	assert.Equal(t, model.GoalIdle, c.Mob().Goal().Kind)

	// Stopped controllers ignore notifications and updates.
	c.NotifyDamage(42, 5, 2)
	assert.True(t, c.Mob().Threats().Empty())
	c.Update(3, model.LODHigh)
	assert.Equal(t, int64(0), c.Mob().LastUpdateTick())
}

func TestControllerNotifyAlerted(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	c.Start()

	c.NotifyAlerted(42)
	assert.Equal(t, int64(1), c.Mob().Threats().Threat(42))

	// Alerts do not cancel spawn grace; damage does.
	assert.Positive(t, c.spawnGrace.Load())
}

func TestControllerDeadMobSkipsUpdates(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	c.Start()

	c.Mob().SetHP(0)
	c.Update(1, model.LODHigh)
	assert.Equal(t, int64(0), c.Mob().LastUpdateTick())
}

func TestControllerStopSafeDuringConcurrentUpdates(t *testing.T) {
	r := newRig(t)
	r.addPlayer(42, model.Vec3{X: 3})
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()
	c.NotifyDamage(42, 5, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for tick := int64(2); tick <= 500; tick++ {
			c.Update(tick, model.LODHigh)
		}
	}()

	c.Stop()
	<-done

	assert.False(t, c.Running())
	assert.True(t, c.Mob().Threats().Empty(), "stopping wipes combat state")
	assert.Equal(t, model.GoalIdle, c.Mob().Goal().Kind)
}

func TestControllerInactiveTierPersistsStateOnly(t *testing.T) {
	r := newRig(t)
	r.addPlayer(42, model.Vec3{X: 3})
	c := r.spawn(t, 1001, "wolf", model.Vec3{})
	r.store.RebuildIndex()
	c.Start()
	c.NotifyDamage(42, 5, 1)

	for tick := int64(2); tick <= 20; tick++ {
		c.Update(tick, model.LODInactive)
	}

	// The player stands in plain sight, but an inactive mob never senses,
	// never re-selects its goal, and never runs its tree.
	assert.Nil(t, c.Mob().Snapshot())
	assert.Equal(t, model.GoalIdle, c.Mob().Goal().Kind)
	assert.Empty(t, r.emitted)
	assert.Equal(t, int64(20), c.Mob().LastUpdateTick())
	assert.Equal(t, model.LODInactive, c.Mob().LODTier())
	assert.False(t, c.Mob().Threats().Empty(), "grudges survive while recent")

	// Threat decay still runs, so abandoned fights eventually expire.
	c.Update(302, model.LODInactive)
	assert.True(t, c.Mob().Threats().Empty())
}

func TestControllerAdjacentDeerPairBreeds(t *testing.T) {
	r := newRig(t)
	c := r.spawn(t, 1001, "deer", model.Vec3{X: 0.5, Y: 0.5})
	r.spawn(t, 1002, "deer", model.Vec3{X: 1.5, Y: 0.5})
	r.store.RebuildIndex()
	c.Start()

	for tick := int64(1); tick <= spawnGraceTicks+1; tick++ {
		c.Update(tick, model.LODHigh)
	}

	g := c.Mob().Goal()
	require.Equal(t, model.GoalReproduce, g.Kind)
	assert.Equal(t, uint32(1002), g.Target)

	r.mu.Lock()
	var bred *model.Command
	for i := range r.emitted {
		if r.emitted[i].Kind == model.CommandBreed {
			bred = &r.emitted[i]
			break
		}
	}
	r.mu.Unlock()
	require.NotNil(t, bred, "an adjacent partner completes the pairing")
	assert.Equal(t, uint32(1002), bred.Target)
	assert.Positive(t, c.Mob().LastBreedTick())

	// Freshly bred, the pair goes back to foraging.
	c.Update(spawnGraceTicks+2, model.LODHigh)
	assert.Equal(t, model.GoalIdle, c.Mob().Goal().Kind)
}

func TestKindsForTiers(t *testing.T) {
	assert.Equal(t, perception.KindAll, kindsFor(model.LODHigh))
	assert.Equal(t, perception.KindVision|perception.KindHearing, kindsFor(model.LODMedium))
	assert.Equal(t, perception.KindVision, kindsFor(model.LODLow))
	assert.Equal(t, perception.KindVision, kindsFor(model.LODInactive))
}

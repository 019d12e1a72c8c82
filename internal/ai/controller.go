package ai

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/veilcraft/mobcore/internal/behavior"
	"github.com/veilcraft/mobcore/internal/data"
	"github.com/veilcraft/mobcore/internal/flock"
	"github.com/veilcraft/mobcore/internal/goal"
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
	"github.com/veilcraft/mobcore/internal/perception"
)

// FactionFunc asks nearby same-faction mobs to pile onto an attacker.
// Injected by the Scheduler to avoid an import cycle with controller lookup.
type FactionFunc func(caller *model.Mob, attacker uint32)

// EmitFunc hands finished commands to the physics/combat/animation layers.
type EmitFunc func(model.Command)

const (
	// spawnGraceTicks is how long a freshly started mob ignores targets.
	// Taking damage cancels the grace immediately.
	spawnGraceTicks = 10

	// threatForgetTicks: an undamaged, fully healed mob drops its threat
	// list after this long, so fights abandoned mid-chase do not pin
	// aggro forever.
	threatForgetTicks = 300

	// perception cadence per detail tier, in ticks.
	senseEveryHigh   = 1
	senseEveryMedium = 4
	senseEveryLow    = 10
)

// Controller runs the full decision pipeline for one mob:
// perceive → select goal → evaluate behavior tree → emit commands.
// Update is called by the Scheduler; everything else is thread-safe
// notification.
type Controller struct {
	mob      *model.Mob
	arch     *data.Archetype
	selector *goal.Selector
	state    *behavior.State
	hooks    *behavior.Hooks

	view     perception.View
	paths    *nav.Service
	wanderer *flock.Wanderer

	emit    EmitFunc
	faction FactionFunc

	running    atomic.Bool
	spawnGrace atomic.Int32

	// mu serializes Update against Stop. The Scheduler runs at most one
	// Update per mob per frame, but a mob killed mid-frame is stopped from
	// another worker's command application while its own Update may still
	// be evaluating the tree.
	mu sync.Mutex

	// lastHandle is the in-flight path request, if any. Guarded by mu.
	lastHandle *nav.Handle
}

// NewController wires a mob to its archetype and world services.
func NewController(mob *model.Mob, arch *data.Archetype, view perception.View, paths *nav.Service, wanderer *flock.Wanderer, emit EmitFunc) *Controller {
	c := &Controller{
		mob:      mob,
		arch:     arch,
		selector: goal.NewSelector(arch.Goals()),
		state:    behavior.NewState(),
		view:     view,
		paths:    paths,
		wanderer: wanderer,
		emit:     emit,
	}
	c.hooks = c.buildHooks()
	return c
}

// SetFactionFunc sets the faction-call callback.
func (c *Controller) SetFactionFunc(fn FactionFunc) {
	c.faction = fn
}

// Mob returns the controlled mob.
func (c *Controller) Mob() *model.Mob { return c.mob }

// Archetype returns the mob's compiled archetype.
func (c *Controller) Archetype() *data.Archetype { return c.arch }

// Start arms the controller with spawn grace active.
func (c *Controller) Start() {
	c.running.Store(true)
	c.spawnGrace.Store(spawnGraceTicks)
	c.mob.SetGoal(model.Idle())

	if IsDebugEnabled() {
		slog.Debug("mob controller started",
			"mob", c.mob.ID(),
			"archetype", c.arch.Name())
	}
}

// Stop halts the controller and drops all combat state. Safe to call while
// an Update is in flight on another goroutine.
func (c *Controller) Stop() {
	c.running.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mob.Threats().Clear()
	c.mob.SetGoal(model.Idle())
	if c.lastHandle != nil {
		c.lastHandle.Cancel()
		c.lastHandle = nil
	}
	c.state.Reset()

	if IsDebugEnabled() {
		slog.Debug("mob controller stopped", "mob", c.mob.ID())
	}
}

// Running reports whether the controller is armed.
func (c *Controller) Running() bool { return c.running.Load() }

// NotifyDamage records a hit: cancels spawn grace, feeds the threat list,
// and calls the faction for help. Safe to call from any goroutine.
func (c *Controller) NotifyDamage(attacker uint32, damage int32, tick int64) {
	if !c.running.Load() || c.mob.IsDead() {
		return
	}

	c.spawnGrace.Store(0)
	c.mob.NoteDamage(attacker, damage, tick)

	if c.faction != nil && attacker != 0 {
		c.faction(c.mob, attacker)
	}

	if IsDebugEnabled() {
		slog.Debug("mob damaged",
			"mob", c.mob.ID(),
			"attacker", attacker,
			"damage", damage)
	}
}

// NotifyAlerted adds a sliver of threat toward an attacker without damage,
// used for faction calls. Does not cancel spawn grace.
func (c *Controller) NotifyAlerted(attacker uint32) {
	if !c.running.Load() || c.mob.IsDead() {
		return
	}
	c.mob.Threats().AddThreat(attacker, 1)
}

// Update runs one decision tick at the given detail tier. Called by the
// Scheduler, at most once per frame per mob.
func (c *Controller) Update(tick int64, detail model.LODTier) {
	if !c.running.Load() || c.mob.IsDead() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Stop may have won the lock between the check above and here.
	if !c.running.Load() {
		return
	}

	c.mob.SetLODTier(detail)

	// An inactive mob only persists state: no sensing, no goal selection,
	// no tree evaluation. Threat decay keeps running so abandoned fights
	// still expire.
	if detail == model.LODInactive {
		c.decayThreats(tick)
		c.mob.SetLastUpdateTick(tick)
		return
	}

	grace := c.spawnGrace.Load()
	if grace > 0 {
		c.spawnGrace.Add(-1)
	}

	// Sense on the tier's cadence; keep the previous snapshot in between.
	if grace <= 0 && c.shouldSense(tick, detail) {
		events := perception.Perceive(c.mob, c.arch.Senses(), c.view, tick, kindsFor(detail))
		c.mob.SetSnapshot(&model.Snapshot{Events: events, Tick: tick})
	}

	c.decayThreats(tick)

	g := c.nextGoal(tick)
	if _, changed := c.mob.SetGoal(g); changed {
		c.state.Reset()
		if c.lastHandle != nil {
			c.lastHandle.Cancel()
			c.lastHandle = nil
		}
		if IsDebugEnabled() {
			slog.Debug("mob goal changed",
				"mob", c.mob.ID(),
				"goal", g.Kind.String())
		}
	}

	ctx := &behavior.Context{
		Mob:      c.mob,
		Goal:     c.mob.Goal(),
		Snapshot: c.mob.Snapshot(),
		Tick:     tick,
		Detail:   detail,
		Hooks:    c.hooks,
	}
	c.arch.Tree().Evaluate(c.state, ctx)

	c.mob.SetLastUpdateTick(tick)
}

// nextGoal picks the goal for this tick. A leashed mob overrides everything
// and walks home restored.
func (c *Controller) nextGoal(tick int64) model.Goal {
	pos := c.mob.Position()
	anchor := c.mob.Anchor()
	if pos.DistanceTo(anchor) > c.arch.LeashRadius() {
		c.mob.Threats().Clear()
		c.mob.SetHP(c.mob.MaxHP())
		if IsDebugEnabled() {
			slog.Debug("mob leashed, returning home", "mob", c.mob.ID())
		}
		return model.Seek(anchor, 1.5)
	}
	return c.selector.Select(c.mob, c.mob.Snapshot(), tick, c.view.Entities)
}

// decayThreats forgets old grudges once the mob is back at full health.
func (c *Controller) decayThreats(tick int64) {
	if c.mob.Threats().Empty() {
		return
	}
	if c.mob.HP() < c.mob.MaxHP() {
		return
	}
	if tick-c.mob.LastDamageTick() <= threatForgetTicks {
		return
	}
	c.mob.Threats().Clear()

	if IsDebugEnabled() {
		slog.Debug("mob threat list decayed", "mob", c.mob.ID())
	}
}

func (c *Controller) shouldSense(tick int64, detail model.LODTier) bool {
	switch detail {
	case model.LODHigh:
		return tick%senseEveryHigh == 0
	case model.LODMedium:
		return tick%senseEveryMedium == 0
	case model.LODLow:
		return tick%senseEveryLow == 0
	default:
		return false
	}
}

// kindsFor trims the stimulus set as detail drops: distant mobs keep eyes
// only, mid-range mobs lose smell.
func kindsFor(detail model.LODTier) perception.KindSet {
	switch detail {
	case model.LODHigh:
		return perception.KindAll
	case model.LODMedium:
		return perception.KindVision | perception.KindHearing
	default:
		return perception.KindVision
	}
}

// buildHooks closes the world services over behavior-tree callbacks.
func (c *Controller) buildHooks() *behavior.Hooks {
	return &behavior.Hooks{
		Emit: func(cmd model.Command) {
			if c.emit != nil {
				c.emit(cmd)
			}
		},
		RequestPath: func(mobID uint32, start, goal nav.Cell) *nav.Handle {
			h := c.paths.Request(context.Background(), mobID, start, goal)
			c.lastHandle = h
			return h
		},
		Steer: func(mob *model.Mob, desired model.Vec3) model.Vec3 {
			cfg := c.arch.Flock()
			return flock.Steer(cfg, mob.Position(), mob.Velocity(), desired, c.neighbors(cfg))
		},
		FollowLeader: func(mob *model.Mob) (model.Vec3, bool) {
			leader := mob.Leader()
			if leader == 0 {
				return model.Vec3{}, false
			}
			lpos, ok := c.view.Entities.Position(leader)
			if !ok {
				return model.Vec3{}, false
			}
			lvel, _ := c.view.Entities.Velocity(leader)
			return flock.FollowLeader(c.arch.Flock(), mob.Position(), lpos, lvel), true
		},
		WanderHeading: func(mobID uint32, tick int64) model.Vec3 {
			if c.wanderer == nil {
				return model.Vec3{}
			}
			return c.wanderer.Heading(mobID, tick)
		},
		Position: func(id uint32) (model.Vec3, bool) {
			return c.view.Entities.Position(id)
		},
		Walkable: func(cell nav.Cell) bool {
			return !c.view.Terrain.IsSolid(cell)
		},
	}
}

// neighbors collects flockmates inside the widest steering radius.
func (c *Controller) neighbors(cfg flock.Config) []flock.Neighbor {
	radius := cfg.SeparationRadius
	if cfg.AlignmentRadius > radius {
		radius = cfg.AlignmentRadius
	}
	if cfg.CohesionRadius > radius {
		radius = cfg.CohesionRadius
	}

	self := c.mob.ID()
	var out []flock.Neighbor
	c.view.Entities.ForEachNearby(c.mob.Position(), radius, func(id uint32, pos model.Vec3) bool {
		if id == self {
			return true
		}
		vel, _ := c.view.Entities.Velocity(id)
		out = append(out, flock.Neighbor{ID: id, Pos: pos, Vel: vel})
		return true
	})
	return out
}

package model

import (
	"sync"
	"sync/atomic"
)

// Category classifies mob temperament and drives goal selection.
type Category int32

const (
	// CategoryPassive - never fights back, flees when damaged
	CategoryPassive Category = iota
	// CategoryNeutral - retaliates or flees depending on health
	CategoryNeutral
	// CategoryHostile - attacks targets on sight
	CategoryHostile
	// CategoryBoss - scripted phases keyed by health fraction
	CategoryBoss
)

// String returns human-readable category name
func (c Category) String() string {
	switch c {
	case CategoryPassive:
		return "PASSIVE"
	case CategoryNeutral:
		return "NEUTRAL"
	case CategoryHostile:
		return "HOSTILE"
	case CategoryBoss:
		return "BOSS"
	default:
		return "UNKNOWN"
	}
}

// LODTier is the level-of-detail bucket assigned by the scheduler.
type LODTier int32

const (
	LODHigh LODTier = iota
	LODMedium
	LODLow
	LODInactive
)

// String returns human-readable tier name
func (t LODTier) String() string {
	switch t {
	case LODHigh:
		return "HIGH"
	case LODMedium:
		return "MEDIUM"
	case LODLow:
		return "LOW"
	case LODInactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Mob is an AI-controlled actor. The entity store owns the identity and
// transform; this record carries everything the decision core needs per mob.
// Position/velocity/facing are written only by the owning controller during
// the mob's own update slice, so a single RWMutex is enough.
type Mob struct {
	id        uint32
	archetype string
	category  Category

	mu     sync.RWMutex
	pos    Vec3
	vel    Vec3
	facing Vec3 // unit vector on the ground plane
	anchor Vec3 // spawn point, wander/leash reference

	hp    atomic.Int32
	maxHP int32

	goal     atomic.Value // Goal
	lodTier  atomic.Int32
	leader   atomic.Uint32 // entity to follow, 0 = none
	threats  *ThreatList
	snapshot atomic.Pointer[Snapshot]

	lastUpdateTick atomic.Int64
	lastDamageTick atomic.Int64
	lastBreedTick  atomic.Int64
}

// NewMob creates a mob record at a spawn position with full health.
func NewMob(id uint32, archetype string, category Category, spawn Vec3, maxHP int32) *Mob {
	m := &Mob{
		id:        id,
		archetype: archetype,
		category:  category,
		pos:       spawn,
		anchor:    spawn,
		facing:    Vec3{X: 1},
		maxHP:     maxHP,
		threats:   NewThreatList(),
	}
	m.hp.Store(maxHP)
	m.goal.Store(Idle())
	m.lastDamageTick.Store(-1 << 30)
	m.lastBreedTick.Store(-1 << 30)
	return m
}

// ID returns the stable entity id.
func (m *Mob) ID() uint32 { return m.id }

// Archetype returns the archetype name this mob was spawned from.
func (m *Mob) Archetype() string { return m.archetype }

// Category returns the mob temperament category.
func (m *Mob) Category() Category { return m.category }

// Position returns current position.
func (m *Mob) Position() Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos
}

// SetPosition moves the mob, updating facing from the displacement.
func (m *Mob) SetPosition(p Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d := p.Sub(m.pos); !d.IsZero() {
		m.facing = d.Normalized()
	}
	m.pos = p
}

// Velocity returns current velocity.
func (m *Mob) Velocity() Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vel
}

// SetVelocity stores the velocity the movement layer applied this tick.
func (m *Mob) SetVelocity(v Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vel = v
	if !v.IsZero() {
		m.facing = v.Normalized()
	}
}

// Facing returns the unit facing direction.
func (m *Mob) Facing() Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.facing
}

// Anchor returns the spawn point used for wander and leash checks.
func (m *Mob) Anchor() Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.anchor
}

// HP returns current health (atomic read).
func (m *Mob) HP() int32 { return m.hp.Load() }

// MaxHP returns maximum health.
func (m *Mob) MaxHP() int32 { return m.maxHP }

// SetHP clamps and stores current health.
func (m *Mob) SetHP(hp int32) {
	if hp < 0 {
		hp = 0
	}
	if hp > m.maxHP {
		hp = m.maxHP
	}
	m.hp.Store(hp)
}

// HealthFraction returns HP/MaxHP in [0,1].
func (m *Mob) HealthFraction() float64 {
	if m.maxHP <= 0 {
		return 0
	}
	return float64(m.hp.Load()) / float64(m.maxHP)
}

// IsDead reports whether the mob is out of health.
func (m *Mob) IsDead() bool { return m.hp.Load() <= 0 }

// Goal returns the active goal.
func (m *Mob) Goal() Goal {
	return m.goal.Load().(Goal)
}

// SetGoal atomically installs a new goal, returning the previous one and
// whether the goal actually changed. The caller is responsible for cancelling
// work tied to the old goal (in-flight path requests in particular).
func (m *Mob) SetGoal(g Goal) (prev Goal, changed bool) {
	prev = m.goal.Swap(g).(Goal)
	return prev, prev != g
}

// LODTier returns the scheduler-assigned detail tier.
func (m *Mob) LODTier() LODTier {
	return LODTier(m.lodTier.Load())
}

// SetLODTier stores the detail tier.
func (m *Mob) SetLODTier(t LODTier) {
	m.lodTier.Store(int32(t))
}

// Leader returns the entity this mob follows, 0 when none.
func (m *Mob) Leader() uint32 { return m.leader.Load() }

// SetLeader assigns a flock leader (0 clears).
func (m *Mob) SetLeader(id uint32) { m.leader.Store(id) }

// Threats returns the hate list for this mob.
func (m *Mob) Threats() *ThreatList { return m.threats }

// Snapshot returns the last perception snapshot, nil before the first
// perception pass.
func (m *Mob) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// SetSnapshot installs the perception snapshot for this tick.
func (m *Mob) SetSnapshot(s *Snapshot) {
	m.snapshot.Store(s)
}

// LastUpdateTick returns the tick this mob was last scheduled.
func (m *Mob) LastUpdateTick() int64 { return m.lastUpdateTick.Load() }

// SetLastUpdateTick records the tick this mob was scheduled.
func (m *Mob) SetLastUpdateTick(tick int64) { m.lastUpdateTick.Store(tick) }

// LastDamageTick returns the tick the mob last took damage.
func (m *Mob) LastDamageTick() int64 { return m.lastDamageTick.Load() }

// NoteDamage records an incoming hit from an attacker at the given tick.
func (m *Mob) NoteDamage(attacker uint32, damage int32, tick int64) {
	m.lastDamageTick.Store(tick)
	if attacker != 0 {
		m.threats.AddThreat(attacker, ThreatFromDamage(damage))
	}
}

// LastBreedTick returns the tick the mob last bred.
func (m *Mob) LastBreedTick() int64 { return m.lastBreedTick.Load() }

// SetLastBreedTick records a completed breeding.
func (m *Mob) SetLastBreedTick(tick int64) { m.lastBreedTick.Store(tick) }

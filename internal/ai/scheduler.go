package ai

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/world"
)

// SchedulerConfig tunes the frame loop and the level-of-detail policy.
type SchedulerConfig struct {
	// FrameTime is the simulation frame interval.
	FrameTime time.Duration `yaml:"frame_time"`

	// BudgetFraction of FrameTime spent on AI before deferring the rest
	// of the queue to the next frame.
	BudgetFraction float64 `yaml:"budget_fraction"`

	// MaxPerFrame caps full updates per frame regardless of budget.
	MaxPerFrame int `yaml:"max_per_frame"`

	// Workers bounds concurrent controller updates.
	Workers int `yaml:"workers"`

	// Priority score weights.
	DistanceWeight   float64 `yaml:"distance_weight"`
	ComplexityWeight float64 `yaml:"complexity_weight"`
	StalenessWeight  float64 `yaml:"staleness_weight"`

	// Detail tier distance bounds (player distance, world units).
	HighDistance   float64 `yaml:"high_distance"`
	MediumDistance float64 `yaml:"medium_distance"`
	LowDistance    float64 `yaml:"low_distance"`

	// InactiveEvery is the tick period on which far-away mobs still get a
	// minimal update so they eventually wander home.
	InactiveEvery int64 `yaml:"inactive_every"`

	// StalenessHorizon is the tick gap at which the staleness term
	// saturates at 1.
	StalenessHorizon int64 `yaml:"staleness_horizon"`
}

// DefaultSchedulerConfig returns the 20 Hz defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		FrameTime:        50 * time.Millisecond,
		BudgetFraction:   0.8,
		MaxPerFrame:      1000,
		Workers:          8,
		DistanceWeight:   0.5,
		ComplexityWeight: 0.2,
		StalenessWeight:  0.3,
		HighDistance:     30,
		MediumDistance:   60,
		LowDistance:      120,
		InactiveEvery:    40,
		StalenessHorizon: 100,
	}
}

// FrameStats summarizes one scheduler frame.
type FrameStats struct {
	Tick     int64
	Queued   int
	Updated  int
	Deferred int
	Elapsed  time.Duration
}

// Scheduler owns every registered controller and spends a bounded slice of
// each frame updating the most deserving ones. Priority blends player
// proximity, behavior complexity, and how long a mob has waited, so a mob
// deferred this frame outbids its peers on the next.
type Scheduler struct {
	cfg SchedulerConfig

	mu          sync.RWMutex
	controllers map[uint32]*Controller

	entities world.Entities

	// BeforeTick, when set, runs at the start of every frame before any
	// controller update (index rebuilds, transient-source cleanup).
	BeforeTick func(tick int64)

	count atomic.Int32
	tick  atomic.Int64
	stats atomic.Pointer[FrameStats]

	stopCh chan struct{}
}

// NewScheduler creates a scheduler over the given entity store.
func NewScheduler(cfg SchedulerConfig, entities world.Entities) *Scheduler {
	if cfg.FrameTime <= 0 {
		cfg.FrameTime = 50 * time.Millisecond
	}
	if cfg.BudgetFraction <= 0 || cfg.BudgetFraction > 1 {
		cfg.BudgetFraction = 0.8
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.MaxPerFrame <= 0 {
		cfg.MaxPerFrame = 1000
	}
	if cfg.InactiveEvery <= 0 {
		cfg.InactiveEvery = 40
	}
	if cfg.StalenessHorizon <= 0 {
		cfg.StalenessHorizon = 100
	}
	return &Scheduler{
		cfg:         cfg,
		controllers: make(map[uint32]*Controller),
		entities:    entities,
		stopCh:      make(chan struct{}),
	}
}

// Register adds a controller and arms it. The controller's faction callback
// is wired here so faction calls can reach sibling controllers.
func (s *Scheduler) Register(c *Controller) {
	c.SetFactionFunc(s.callFaction)

	s.mu.Lock()
	s.controllers[c.Mob().ID()] = c
	s.mu.Unlock()
	s.count.Add(1)
	c.Start()

	slog.Debug("controller registered",
		"mob", c.Mob().ID(),
		"archetype", c.Archetype().Name())
}

// Unregister removes and stops a controller.
func (s *Scheduler) Unregister(mobID uint32) {
	s.mu.Lock()
	c, ok := s.controllers[mobID]
	if ok {
		delete(s.controllers, mobID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.count.Add(-1)
	c.Stop()

	slog.Debug("controller unregistered", "mob", mobID)
}

// Count returns the number of registered controllers (O(1) cached count).
func (s *Scheduler) Count() int {
	return int(s.count.Load())
}

// Controller returns the controller for a mob, or nil.
func (s *Scheduler) Controller(mobID uint32) *Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controllers[mobID]
}

// OnDamaged routes a hit to the victim's controller. Unknown victims (players,
// already-retired mobs) are ignored.
func (s *Scheduler) OnDamaged(victim, attacker uint32, damage int32, tick int64) {
	if c := s.Controller(victim); c != nil {
		c.NotifyDamage(attacker, damage, tick)
	}
}

// OnCombatWitnessed lets a bystander react to a fight it saw without being
// hit itself: observers allied with the target turn on the attacker. The
// observer reacting to its own fight degrades to a plain alert.
func (s *Scheduler) OnCombatWitnessed(observer, attacker, target uint32) {
	if observer == attacker {
		return
	}

	s.mu.RLock()
	obs := s.controllers[observer]
	tgt := s.controllers[target]
	s.mu.RUnlock()
	if obs == nil {
		return
	}

	if target == observer {
		obs.NotifyAlerted(attacker)
		return
	}
	if tgt != nil && obs.Archetype().SharesFaction(tgt.Archetype()) {
		obs.NotifyAlerted(attacker)
	}
}

// Tick returns the current frame number.
func (s *Scheduler) Tick() int64 { return s.tick.Load() }

// LastFrame returns stats for the most recent frame, or nil before the
// first one.
func (s *Scheduler) LastFrame() *FrameStats { return s.stats.Load() }

// Run drives the frame loop until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FrameTime)
	defer ticker.Stop()

	slog.Info("ai scheduler started",
		"frame", s.cfg.FrameTime,
		"budget", time.Duration(float64(s.cfg.FrameTime)*s.cfg.BudgetFraction))

	for {
		select {
		case <-ctx.Done():
			slog.Info("ai scheduler stopping")
			return ctx.Err()

		case <-s.stopCh:
			slog.Info("ai scheduler stopped")
			return nil

		case <-ticker.C:
			s.RunFrame(ctx, s.tick.Add(1))
		}
	}
}

// Stop ends the Run loop.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

type scheduled struct {
	c        *Controller
	priority float64
	detail   model.LODTier
}

// RunFrame executes one full frame at the given tick: score, sort, update
// within budget. Exposed for tests and for harnesses that drive their own
// clock.
func (s *Scheduler) RunFrame(ctx context.Context, tick int64) FrameStats {
	start := time.Now()
	budget := time.Duration(float64(s.cfg.FrameTime) * s.cfg.BudgetFraction)

	if s.BeforeTick != nil {
		s.BeforeTick(tick)
	}

	queue := s.buildQueue(tick)

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	updated := 0
	for _, entry := range queue {
		if updated >= s.cfg.MaxPerFrame || time.Since(start) > budget {
			break
		}
		c, detail := entry.c, entry.detail
		g.Go(func() error {
			c.Update(tick, detail)
			return nil
		})
		updated++
	}
	_ = g.Wait()

	stats := FrameStats{
		Tick:     tick,
		Queued:   len(queue),
		Updated:  updated,
		Deferred: len(queue) - updated,
		Elapsed:  time.Since(start),
	}
	s.stats.Store(&stats)
	s.tick.Store(tick)

	if stats.Deferred > 0 && IsDebugEnabled() {
		slog.Debug("frame budget exhausted",
			"tick", tick,
			"updated", stats.Updated,
			"deferred", stats.Deferred,
			"elapsed", stats.Elapsed)
	}
	return stats
}

// buildQueue scores every eligible controller and orders it best-first.
// Ties break on mob id so the ordering is reproducible.
func (s *Scheduler) buildQueue(tick int64) []scheduled {
	s.mu.RLock()
	queue := make([]scheduled, 0, len(s.controllers))
	for _, c := range s.controllers {
		if !c.Running() || c.Mob().IsDead() {
			continue
		}
		detail := s.detailFor(c.Mob())
		if detail == model.LODInactive && tick%s.cfg.InactiveEvery != 0 {
			continue
		}
		queue = append(queue, scheduled{
			c:        c,
			priority: s.score(c, tick),
			detail:   detail,
		})
	}
	s.mu.RUnlock()

	sort.Slice(queue, func(i, j int) bool {
		if queue[i].priority != queue[j].priority {
			return queue[i].priority > queue[j].priority
		}
		return queue[i].c.Mob().ID() < queue[j].c.Mob().ID()
	})
	return queue
}

// score is the weighted priority: near players, complex behaviors, and
// long-unserved mobs first.
func (s *Scheduler) score(c *Controller, tick int64) float64 {
	dist, haveNear := s.entities.NearestPlayerDistance(c.Mob().Position())
	normDist := 1.0
	if haveNear {
		normDist = clamp01(dist / s.cfg.LowDistance)
	}

	complexity := clamp01(float64(c.Archetype().Tree().Len()) / 32)

	staleness := clamp01(float64(tick-c.Mob().LastUpdateTick()) / float64(s.cfg.StalenessHorizon))

	return s.cfg.DistanceWeight*(1-normDist) +
		s.cfg.ComplexityWeight*complexity +
		s.cfg.StalenessWeight*staleness
}

// detailFor maps player distance to a detail tier.
func (s *Scheduler) detailFor(mob *model.Mob) model.LODTier {
	dist, ok := s.entities.NearestPlayerDistance(mob.Position())
	if !ok {
		return model.LODInactive
	}
	switch {
	case dist <= s.cfg.HighDistance:
		return model.LODHigh
	case dist <= s.cfg.MediumDistance:
		return model.LODMedium
	case dist <= s.cfg.LowDistance:
		return model.LODLow
	default:
		return model.LODInactive
	}
}

// callFaction alerts same-faction controllers near the caller. Runs on the
// damage notification path.
func (s *Scheduler) callFaction(caller *model.Mob, attacker uint32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	callerCtl := s.controllers[caller.ID()]
	if callerCtl == nil {
		return
	}
	arch := callerCtl.Archetype()
	if arch.Faction() == "" {
		return
	}

	pos := caller.Position()
	rangeSq := arch.FactionRange() * arch.FactionRange()
	helped := 0

	for id, other := range s.controllers {
		if id == caller.ID() {
			continue
		}
		if !arch.SharesFaction(other.Archetype()) {
			continue
		}
		if other.Mob().Position().DistanceSquared(pos) > rangeSq {
			continue
		}
		other.NotifyAlerted(attacker)
		helped++
	}

	if helped > 0 && IsDebugEnabled() {
		slog.Debug("faction call",
			"caller", caller.ID(),
			"attacker", attacker,
			"helpers", helped)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

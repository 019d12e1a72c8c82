// Package sim is the standalone simulation harness: it builds a world,
// populates it with mobs and stand-in players, applies the commands the AI
// emits with a minimal integrator, and drives the scheduler frame loop.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veilcraft/mobcore/internal/ai"
	"github.com/veilcraft/mobcore/internal/config"
	"github.com/veilcraft/mobcore/internal/data"
	"github.com/veilcraft/mobcore/internal/flock"
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
	"github.com/veilcraft/mobcore/internal/perception"
	"github.com/veilcraft/mobcore/internal/world"
)

const (
	mobIDBase     = 1000
	meleeDamage   = 5
	packSize      = 5
	witnessRadius = 20.0
)

// Sim owns the whole simulation: terrain, entities, pathfinding, and the
// AI scheduler.
type Sim struct {
	cfg config.Simulation

	grid    *nav.Grid
	store   *world.Store
	sources *world.Sources
	table   *data.Table
	paths   *nav.Service
	sched   *ai.Scheduler

	mu   sync.RWMutex
	mobs map[uint32]*model.Mob

	dt float64 // seconds per tick
}

// New builds a simulation from config: grid with obstacles, archetype
// table, path service, scheduler, and the spawned population.
func New(cfg config.Simulation) (*Sim, error) {
	table, err := loadTable(cfg.ArchetypesPath)
	if err != nil {
		return nil, err
	}

	grid := nav.NewGrid(cfg.Grid.MinX, cfg.Grid.MinY, cfg.Grid.MaxX, cfg.Grid.MaxY)
	store := world.NewStore()

	s := &Sim{
		cfg:     cfg,
		grid:    grid,
		store:   store,
		sources: world.NewSources(),
		table:   table,
		paths:   nav.NewService(grid, int64(cfg.PathWorkers), cfg.UseJPS),
		sched:   ai.NewScheduler(cfg.Scheduler, store),
		mobs:    make(map[uint32]*model.Mob),
		dt:      cfg.Scheduler.FrameTime.Seconds(),
	}
	if s.dt <= 0 {
		s.dt = 0.05
	}

	s.sched.BeforeTick = s.beforeTick

	rng := rand.New(rand.NewPCG(uint64(cfg.WanderSeed), uint64(cfg.WanderSeed)+1))
	s.scatterObstacles(rng)
	s.spawnPlayers(rng)
	s.spawnMobs(rng)

	slog.Info("simulation built",
		"mobs", len(s.mobs),
		"players", cfg.Spawn.Players,
		"archetypes", table.Len())
	return s, nil
}

func loadTable(path string) (*data.Table, error) {
	if path == "" {
		return data.DefaultTable()
	}
	return data.LoadTable(path)
}

// Scheduler exposes the frame loop owner for stats.
func (s *Sim) Scheduler() *ai.Scheduler { return s.sched }

// Run drives the scheduler until the context is canceled.
func (s *Sim) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.sched.Run(gctx)
	})

	g.Go(func() error {
		return s.logStats(gctx)
	})

	return g.Wait()
}

// beforeTick refreshes per-frame world state ahead of controller updates.
func (s *Sim) beforeTick(tick int64) {
	s.sources.ClearSounds()
	s.movePlayers(tick)
	s.store.RebuildIndex()
}

func (s *Sim) logStats(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if fs := s.sched.LastFrame(); fs != nil {
				slog.Info("frame stats",
					"tick", fs.Tick,
					"queued", fs.Queued,
					"updated", fs.Updated,
					"deferred", fs.Deferred,
					"elapsed", fs.Elapsed,
					"pending_paths", s.paths.Pending())
			}
		}
	}
}

// scatterObstacles walls off a reproducible set of cells, leaving the
// origin area open for spawns.
func (s *Sim) scatterObstacles(rng *rand.Rand) {
	minX, minY, maxX, maxY := s.grid.Bounds()
	cells := int(maxX-minX+1) * int(maxY-minY+1)

	// Roughly 8% cover in short wall segments.
	for n := 0; n < cells/60; n++ {
		x := minX + int32(rng.IntN(int(maxX-minX+1)))
		y := minY + int32(rng.IntN(int(maxY-minY+1)))
		horizontal := rng.IntN(2) == 0
		length := int32(2 + rng.IntN(4))

		for i := int32(0); i < length; i++ {
			cx, cy := x, y
			if horizontal {
				cx += i
			} else {
				cy += i
			}
			if cx >= -3 && cx <= 3 && cy >= -3 && cy <= 3 {
				continue // keep spawn area open
			}
			s.grid.SetSolid(nav.Cell{X: cx, Y: cy}, true)
		}
	}
}

func (s *Sim) spawnPlayers(rng *rand.Rand) {
	for i := 0; i < s.cfg.Spawn.Players; i++ {
		id := uint32(i + 1)
		pos := s.openPosition(rng, s.cfg.Spawn.Spread/2)
		s.store.Put(world.Entity{
			ID:     id,
			Pos:    pos,
			HP:     100,
			MaxHP:  100,
			Player: true,
		})
	}
}

// spawnMobs distributes the population round-robin over the archetype
// table. Hostile pack species get a leader per pack.
func (s *Sim) spawnMobs(rng *rand.Rand) {
	names := s.table.Names()
	if len(names) == 0 {
		return
	}

	var packLeader uint32
	for i := 0; i < s.cfg.Spawn.Mobs; i++ {
		arch := s.table.Get(names[i%len(names)])
		id := uint32(mobIDBase + i)
		pos := s.openPosition(rng, s.cfg.Spawn.Spread)

		mob := model.NewMob(id, arch.Name(), arch.Category(), pos, arch.MaxHP())

		if arch.Faction() != "" {
			if i%packSize == 0 {
				packLeader = id
			} else if packLeader != 0 {
				mob.SetLeader(packLeader)
			}
		}

		s.mu.Lock()
		s.mobs[id] = mob
		s.mu.Unlock()

		s.store.Put(world.Entity{
			ID:        id,
			Pos:       pos,
			HP:        arch.MaxHP(),
			MaxHP:     arch.MaxHP(),
			Archetype: arch.Name(),
		})

		ctl := ai.NewController(mob, arch, s.view(), s.paths, flock.NewWanderer(s.cfg.WanderSeed), s.apply)
		s.sched.Register(ctl)
	}
}

func (s *Sim) view() perception.View {
	return perception.View{
		Terrain:  s.grid,
		Entities: s.store,
		Sources:  s.sources,
	}
}

// openPosition finds a walkable spawn point within the spread radius.
func (s *Sim) openPosition(rng *rand.Rand, spread float64) model.Vec3 {
	for tries := 0; tries < 100; tries++ {
		p := model.Vec3{
			X: (rng.Float64()*2 - 1) * spread,
			Y: (rng.Float64()*2 - 1) * spread,
		}
		c := nav.CellAt(p.X, p.Y)
		if s.grid.Walkable(c) {
			return p
		}
	}
	return model.Vec3{}
}

// movePlayers walks the stand-in players along slow deterministic circles
// so mobs have something to perceive and chase.
func (s *Sim) movePlayers(tick int64) {
	for i := 0; i < s.cfg.Spawn.Players; i++ {
		id := uint32(i + 1)
		pos, ok := s.store.Position(id)
		if !ok {
			continue
		}
		angle := float64(tick)*0.01 + float64(i)*math.Pi/2
		vel := model.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(1.5)
		next := pos.Add(vel.Scale(s.dt))

		c := nav.CellAt(next.X, next.Y)
		if !s.grid.Walkable(c) {
			continue
		}
		s.store.Move(id, next, vel)
	}
}

// apply is the command sink: a minimal physics/combat stand-in for the
// downstream systems a game server would provide.
func (s *Sim) apply(cmd model.Command) {
	s.mu.RLock()
	mob := s.mobs[cmd.Mob]
	s.mu.RUnlock()
	if mob == nil {
		return
	}

	switch cmd.Kind {
	case model.CommandMove:
		s.applyMove(mob, cmd)
	case model.CommandAttack:
		s.applyAttack(mob, cmd)
	case model.CommandBreed:
		mob.SetLastBreedTick(cmd.Tick)
	case model.CommandConsume, model.CommandSleep:
		// Animation-layer concerns; nothing to integrate.
	}
}

func (s *Sim) applyMove(mob *model.Mob, cmd model.Command) {
	vel := cmd.Velocity
	if vel.IsZero() && len(cmd.Waypoints) > 0 {
		arch := s.table.Get(mob.Archetype())
		speed := 3.0
		if arch != nil {
			speed = arch.RunSpeed()
		}
		dir := cmd.Waypoints[0].Sub(mob.Position())
		if dir.IsZero() {
			return
		}
		vel = dir.Normalized().Scale(speed)
	}

	next := mob.Position().Add(vel.Scale(s.dt))
	c := nav.CellAt(next.X, next.Y)
	if !s.grid.Walkable(c) {
		return
	}

	mob.SetPosition(next)
	mob.SetVelocity(vel)
	s.store.Move(mob.ID(), next, vel)
}

func (s *Sim) applyAttack(attacker *model.Mob, cmd model.Command) {
	hp, _, ok := s.store.Health(cmd.Target)
	if !ok || hp <= 0 {
		return
	}

	s.store.SetHealth(cmd.Target, hp-meleeDamage)

	// Strikes are loud: nearby mobs hear the fight.
	s.sources.EmitSound(world.Sound{
		Source: attacker.ID(),
		Pos:    attacker.Position(),
		Volume: 1,
	})

	// Mob victims fight back through their own threat lists, and bystanders
	// close enough to see the fight get a chance to pick a side.
	if ctl := s.sched.Controller(cmd.Target); ctl != nil {
		s.sched.OnDamaged(cmd.Target, attacker.ID(), meleeDamage, cmd.Tick)
		s.store.ForEachNearby(ctl.Mob().Position(), witnessRadius, func(id uint32, _ model.Vec3) bool {
			if id != cmd.Target {
				s.sched.OnCombatWitnessed(id, attacker.ID(), cmd.Target)
			}
			return true
		})
		s.mu.RLock()
		victim := s.mobs[cmd.Target]
		s.mu.RUnlock()
		if victim != nil {
			victim.SetHP(hp - meleeDamage)
			if victim.IsDead() {
				s.killMob(cmd.Target)
			}
		}
	}
}

// killMob retires a dead mob and leaves a scent marker behind.
func (s *Sim) killMob(id uint32) {
	s.mu.Lock()
	mob := s.mobs[id]
	delete(s.mobs, id)
	s.mu.Unlock()
	if mob == nil {
		return
	}

	s.sched.Unregister(id)
	s.store.Remove(id)
	s.sources.PlaceScent(world.Scent{
		Source:   id,
		Pos:      mob.Position(),
		Kind:     "carrion",
		Strength: 1,
	})

	slog.Info("mob died", "mob", id, "archetype", mob.Archetype())
}

// Summary returns a one-line population description for startup logging.
func (s *Sim) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("%d mobs, %d entities", len(s.mobs), s.store.Len())
}

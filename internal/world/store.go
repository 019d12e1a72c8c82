package world

import (
	"math"
	"sync"

	"github.com/veilcraft/mobcore/internal/model"
)

// indexCellSize is the spatial-hash bucket edge in world units. Nearby
// queries scan the buckets overlapping the query circle, so the size trades
// bucket count against entities per bucket.
const indexCellSize = 8.0

// Entity is one record of the in-memory store. Archetype is empty for
// players.
type Entity struct {
	ID        uint32
	Pos       model.Vec3
	Vel       model.Vec3
	HP        int32
	MaxHP     int32
	Player    bool
	Archetype string
}

// Store is an in-memory entity store with a per-tick spatial hash. Mutations
// (spawn, despawn, movement) happen between ticks; RebuildIndex is called
// once at the start of each tick and the index is treated as immutable until
// the next rebuild, so per-mob reads during a tick need no locking beyond
// the entity map's read lock.
type Store struct {
	mu       sync.RWMutex
	entities map[uint32]*Entity
	index    map[indexKey][]uint32
	players  []uint32
}

type indexKey struct {
	x, y int32
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[uint32]*Entity),
		index:    make(map[indexKey][]uint32),
	}
}

// Put inserts or replaces an entity.
func (s *Store) Put(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	s.entities[e.ID] = &cp
}

// Remove deletes an entity.
func (s *Store) Remove(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, id)
}

// Move updates an entity's position and velocity.
func (s *Store) Move(id uint32, pos, vel model.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		e.Pos = pos
		e.Vel = vel
	}
}

// SetHealth updates an entity's health.
func (s *Store) SetHealth(id uint32, hp int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		if hp < 0 {
			hp = 0
		}
		e.HP = hp
	}
}

// Len returns the number of stored entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// RebuildIndex rebuilds the spatial hash from current positions. Called once
// per tick before any mob updates run.
func (s *Store) RebuildIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = make(map[indexKey][]uint32, len(s.index))
	s.players = s.players[:0]
	for id, e := range s.entities {
		k := keyFor(e.Pos)
		s.index[k] = append(s.index[k], id)
		if e.Player {
			s.players = append(s.players, id)
		}
	}
}

// Position returns an entity's position.
func (s *Store) Position(id uint32) (model.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return model.Vec3{}, false
	}
	return e.Pos, true
}

// Velocity returns an entity's velocity.
func (s *Store) Velocity(id uint32) (model.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return model.Vec3{}, false
	}
	return e.Vel, true
}

// Health returns an entity's current and maximum health.
func (s *Store) Health(id uint32) (hp, maxHP int32, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, found := s.entities[id]
	if !found {
		return 0, 0, false
	}
	return e.HP, e.MaxHP, true
}

// Archetype returns the entity's archetype name. ok is false for unknown
// ids and for players, which carry no archetype.
func (s *Store) Archetype(id uint32) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, found := s.entities[id]
	if !found || e.Archetype == "" {
		return "", false
	}
	return e.Archetype, true
}

// IsPlayer reports whether the entity is a player avatar.
func (s *Store) IsPlayer(id uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	return ok && e.Player
}

// ForEachNearby visits entities within radius of pos, scanning the spatial
// hash buckets overlapping the query circle. fn returning false stops the
// iteration early.
func (s *Store) ForEachNearby(pos model.Vec3, radius float64, fn func(id uint32, pos model.Vec3) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	radiusSq := radius * radius
	minK := keyFor(model.Vec3{X: pos.X - radius, Y: pos.Y - radius})
	maxK := keyFor(model.Vec3{X: pos.X + radius, Y: pos.Y + radius})

	for kx := minK.x; kx <= maxK.x; kx++ {
		for ky := minK.y; ky <= maxK.y; ky++ {
			for _, id := range s.index[indexKey{kx, ky}] {
				e, ok := s.entities[id]
				if !ok {
					continue
				}
				if e.Pos.DistanceSquared(pos) > radiusSq {
					continue
				}
				if !fn(id, e.Pos) {
					return
				}
			}
		}
	}
}

// NearestPlayerDistance returns the distance from pos to the closest player.
func (s *Store) NearestPlayerDistance(pos model.Vec3) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := math.Inf(1)
	found := false
	for _, id := range s.players {
		e, ok := s.entities[id]
		if !ok {
			continue
		}
		if d := e.Pos.DistanceSquared(pos); d < best {
			best = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return math.Sqrt(best), true
}

func keyFor(p model.Vec3) indexKey {
	return indexKey{
		x: int32(math.Floor(p.X / indexCellSize)),
		y: int32(math.Floor(p.Y / indexCellSize)),
	}
}

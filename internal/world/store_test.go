package world

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcraft/mobcore/internal/model"
)

func TestStorePutAndLookup(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Pos: model.Vec3{X: 2}, Vel: model.Vec3{Y: 1}, HP: 40, MaxHP: 50, Player: true})

	pos, ok := s.Position(1)
	require.True(t, ok)
	assert.Equal(t, model.Vec3{X: 2}, pos)

	vel, ok := s.Velocity(1)
	require.True(t, ok)
	assert.Equal(t, model.Vec3{Y: 1}, vel)

	hp, maxHP, ok := s.Health(1)
	require.True(t, ok)
	assert.Equal(t, int32(40), hp)
	assert.Equal(t, int32(50), maxHP)

	assert.True(t, s.IsPlayer(1))
	assert.Equal(t, 1, s.Len())

	_, ok = s.Position(2)
	assert.False(t, ok)
	assert.False(t, s.IsPlayer(2))
}

func TestStoreArchetype(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Archetype: "deer"})
	s.Put(Entity{ID: 2, Player: true})

	name, ok := s.Archetype(1)
	require.True(t, ok)
	assert.Equal(t, "deer", name)

	_, ok = s.Archetype(2)
	assert.False(t, ok, "players carry no archetype")
	_, ok = s.Archetype(3)
	assert.False(t, ok)
}

func TestStoreMoveAndRemove(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1})

	s.Move(1, model.Vec3{X: 7}, model.Vec3{X: 1})
	pos, _ := s.Position(1)
	assert.Equal(t, model.Vec3{X: 7}, pos)

	s.Remove(1)
	_, ok := s.Position(1)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// Moving a removed entity is a no-op.
	s.Move(1, model.Vec3{X: 9}, model.Vec3{})
}

func TestStoreSetHealthFloorsAtZero(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, HP: 10, MaxHP: 10})

	s.SetHealth(1, -5)
	hp, _, _ := s.Health(1)
	assert.Equal(t, int32(0), hp)
}

func TestStoreForEachNearby(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Pos: model.Vec3{X: 1}})
	s.Put(Entity{ID: 2, Pos: model.Vec3{X: 5}})
	s.Put(Entity{ID: 3, Pos: model.Vec3{X: 30}})
	// Straddles a hash bucket boundary.
	s.Put(Entity{ID: 4, Pos: model.Vec3{X: -1, Y: -1}})
	s.RebuildIndex()

	var got []uint32
	s.ForEachNearby(model.Vec3{}, 6, func(id uint32, pos model.Vec3) bool {
		got = append(got, id)
		return true
	})
	slices.Sort(got)
	assert.Equal(t, []uint32{1, 2, 4}, got)

	// Early exit stops the scan.
	count := 0
	s.ForEachNearby(model.Vec3{}, 6, func(id uint32, pos model.Vec3) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestStoreIndexReflectsMovesAfterRebuild(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Pos: model.Vec3{X: 100}})
	s.RebuildIndex()

	s.Move(1, model.Vec3{X: 1}, model.Vec3{})

	// The stale index still files the entity under its old bucket.
	found := false
	s.ForEachNearby(model.Vec3{}, 5, func(id uint32, pos model.Vec3) bool {
		found = true
		return true
	})
	assert.False(t, found, "index is per-tick, rebuild required")

	s.RebuildIndex()
	s.ForEachNearby(model.Vec3{}, 5, func(id uint32, pos model.Vec3) bool {
		found = true
		return true
	})
	assert.True(t, found)
}

func TestStoreNearestPlayerDistance(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Pos: model.Vec3{X: 10}, Player: true})
	s.Put(Entity{ID: 2, Pos: model.Vec3{X: 3}, Player: true})
	s.Put(Entity{ID: 3, Pos: model.Vec3{X: 1}}) // not a player
	s.RebuildIndex()

	d, ok := s.NearestPlayerDistance(model.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-9)
}

func TestStoreNearestPlayerDistanceNoPlayers(t *testing.T) {
	s := NewStore()
	s.Put(Entity{ID: 1, Pos: model.Vec3{X: 1}})
	s.RebuildIndex()

	_, ok := s.NearestPlayerDistance(model.Vec3{})
	assert.False(t, ok)
}

func TestSourcesSoundsLiveOneTick(t *testing.T) {
	src := NewSources()
	src.EmitSound(Sound{Source: 1, Volume: 0.5})
	src.EmitSound(Sound{Source: 2, Volume: 1})

	heard := 0
	src.ForEachSound(func(Sound) bool { heard++; return true })
	assert.Equal(t, 2, heard)

	src.ClearSounds()
	heard = 0
	src.ForEachSound(func(Sound) bool { heard++; return true })
	assert.Equal(t, 0, heard)
}

func TestSourcesScentsPersistAndReplace(t *testing.T) {
	src := NewSources()
	src.PlaceScent(Scent{Source: 1, Kind: "blood", Strength: 0.5})
	src.PlaceScent(Scent{Source: 1, Kind: "blood", Strength: 0.9}) // refresh
	src.PlaceScent(Scent{Source: 2, Kind: "carrion", Strength: 1})

	var kinds []string
	var strengths []float64
	src.ForEachScent(func(sc Scent) bool {
		kinds = append(kinds, sc.Kind)
		strengths = append(strengths, sc.Strength)
		return true
	})
	assert.Len(t, kinds, 2)
	assert.Contains(t, strengths, 0.9, "re-placing a scent replaces it")

	src.RemoveScent(1)
	count := 0
	src.ForEachScent(func(Scent) bool { count++; return true })
	assert.Equal(t, 1, count)
}

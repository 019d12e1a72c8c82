package world

import (
	"sync"

	"github.com/veilcraft/mobcore/internal/model"
)

// Sound is an audio emission for the current tick. Sounds live exactly one
// tick: producers emit during the event phase, perception reads during the
// update phase, the frame loop clears before the next event phase.
type Sound struct {
	Source uint32
	Pos    model.Vec3
	Volume float64 // [0,1] at the source
}

// Scent is a persistent smell source (carcass, food, blood trail segment).
type Scent struct {
	Source   uint32
	Pos      model.Vec3
	Kind     string
	Strength float64 // [0,1] at the source
}

// Sources collects the per-tick sound and persistent scent emissions mobs
// can perceive.
type Sources struct {
	mu     sync.RWMutex
	sounds []Sound
	scents map[uint32]Scent
}

// NewSources creates an empty emission registry.
func NewSources() *Sources {
	return &Sources{scents: make(map[uint32]Scent)}
}

// EmitSound records a sound for the current tick.
func (s *Sources) EmitSound(snd Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, snd)
}

// ClearSounds drops the tick's sounds. Called by the frame loop.
func (s *Sources) ClearSounds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = s.sounds[:0]
}

// ForEachSound visits this tick's sounds.
func (s *Sources) ForEachSound(fn func(Sound) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snd := range s.sounds {
		if !fn(snd) {
			return
		}
	}
}

// PlaceScent adds or refreshes a scent source keyed by its source entity.
func (s *Sources) PlaceScent(sc Scent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scents[sc.Source] = sc
}

// RemoveScent deletes a scent source.
func (s *Sources) RemoveScent(source uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scents, source)
}

// ForEachScent visits active scent sources.
func (s *Sources) ForEachScent(fn func(Scent) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.scents {
		if !fn(sc) {
			return
		}
	}
}

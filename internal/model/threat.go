package model

import "sync"

// threatDamageScale converts damage points into threat.
// Bigger hits pull attention proportionally; perception sightings add 1.
const threatDamageScale = 10

// ThreatFromDamage converts a damage amount into a threat value.
func ThreatFromDamage(damage int32) int64 {
	t := int64(damage) * threatDamageScale
	if t < 1 {
		t = 1
	}
	return t
}

// ThreatList tracks accumulated threat per aggressor for one mob.
// Fed by damage events and perception sightings; read by the goal selector
// to pick the most-threatening target. Thread-safe: damage events arrive
// from outside the mob's own update slice.
type ThreatList struct {
	mu      sync.RWMutex
	entries map[uint32]int64
}

// NewThreatList creates an empty threat list.
func NewThreatList() *ThreatList {
	return &ThreatList{entries: make(map[uint32]int64)}
}

// AddThreat accumulates threat for an aggressor.
func (l *ThreatList) AddThreat(id uint32, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[id] += amount
}

// Threat returns the accumulated threat for an aggressor (0 if unknown).
func (l *ThreatList) Threat(id uint32) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[id]
}

// MostThreatening returns the aggressor with the highest threat, 0 when empty.
// Ties break on the lower id so the result is deterministic.
func (l *ThreatList) MostThreatening() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best uint32
	var bestThreat int64
	for id, t := range l.entries {
		if best == 0 || t > bestThreat || (t == bestThreat && id < best) {
			best = id
			bestThreat = t
		}
	}
	return best
}

// Forget drops a single aggressor (despawned or invalid targets).
func (l *ThreatList) Forget(id uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

// Clear wipes the whole list (leash reset, hate decay).
func (l *ThreatList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.entries)
}

// Empty reports whether no aggressors are tracked.
func (l *ThreatList) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries) == 0
}

// Len returns the number of tracked aggressors.
func (l *ThreatList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

package model

// StimulusKind discriminates the sensory channel of a perception event.
type StimulusKind int32

const (
	StimulusVision StimulusKind = iota
	StimulusHearing
	StimulusSmell
)

// String returns human-readable stimulus name
func (k StimulusKind) String() string {
	switch k {
	case StimulusVision:
		return "VISION"
	case StimulusHearing:
		return "HEARING"
	case StimulusSmell:
		return "SMELL"
	default:
		return "UNKNOWN"
	}
}

// PerceptionEvent is a single detected stimulus. Events are recomputed every
// perception pass and never persisted across ticks; only the Snapshot that
// aggregates them survives, with an explicit staleness tick.
type PerceptionEvent struct {
	Source   uint32 // perceiving mob
	Kind     StimulusKind
	Subject  uint32 // detected entity, 0 for ambient sources
	Position Vec3
	Strength float64 // [0,1]
	Tick     int64
}

// Snapshot is a mob's "last known" view of the world: the events from its
// most recent perception pass, ranked strongest-first per the perception
// package's ordering.
type Snapshot struct {
	Events []PerceptionEvent
	Tick   int64
}

// Stale reports whether the snapshot is older than maxAge ticks.
func (s *Snapshot) Stale(now, maxAge int64) bool {
	return s == nil || now-s.Tick > maxAge
}

// Strongest returns the highest-strength event of one kind, or false.
func (s *Snapshot) Strongest(kind StimulusKind) (PerceptionEvent, bool) {
	if s == nil {
		return PerceptionEvent{}, false
	}
	var best PerceptionEvent
	found := false
	for _, ev := range s.Events {
		if ev.Kind != kind {
			continue
		}
		if !found || ev.Strength > best.Strength {
			best = ev
			found = true
		}
	}
	return best, found
}

// StrongestAny returns the highest-strength event across all kinds, or false.
func (s *Snapshot) StrongestAny() (PerceptionEvent, bool) {
	if s == nil || len(s.Events) == 0 {
		return PerceptionEvent{}, false
	}
	best := s.Events[0]
	for _, ev := range s.Events[1:] {
		if ev.Strength > best.Strength {
			best = ev
		}
	}
	return best, true
}

// Of returns a subject's strongest event, or false if it was not perceived.
func (s *Snapshot) Of(subject uint32) (PerceptionEvent, bool) {
	if s == nil {
		return PerceptionEvent{}, false
	}
	var best PerceptionEvent
	found := false
	for _, ev := range s.Events {
		if ev.Subject != subject {
			continue
		}
		if !found || ev.Strength > best.Strength {
			best = ev
			found = true
		}
	}
	return best, found
}

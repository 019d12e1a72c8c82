// Package perception turns world state into ranked stimulus lists: what each
// mob can currently see, hear, and smell. All channels are independent and
// purely additive (no stimulus suppresses another), and finding nothing is
// an ordinary empty result, not an error.
package perception

import (
	"math"
	"slices"

	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/nav"
	"github.com/veilcraft/mobcore/internal/world"
)

// KindSet selects which sensory channels a perception pass runs.
type KindSet uint8

const (
	KindVision KindSet = 1 << iota
	KindHearing
	KindSmell

	KindAll = KindVision | KindHearing | KindSmell
)

// Has reports whether the set includes a channel.
func (s KindSet) Has(k KindSet) bool { return s&k != 0 }

// Senses is a mob archetype's sensory envelope. Zero ranges disable the
// channel.
type Senses struct {
	VisionRange         float64 `yaml:"vision_range"`
	FieldOfView         float64 `yaml:"field_of_view"` // degrees, full cone
	RequiresLineOfSight bool    `yaml:"requires_line_of_sight"`

	HearingRange       float64 `yaml:"hearing_range"`
	HearingSensitivity float64 `yaml:"hearing_sensitivity"` // attenuated-volume threshold

	SmellRange    float64  `yaml:"smell_range"`
	TrackedScents []string `yaml:"tracked_scents"`
}

// View bundles the world surfaces a perception pass reads.
type View struct {
	Terrain  world.Terrain
	Entities world.Entities
	Sources  *world.Sources
}

// Perceive runs the selected channels for one mob and returns the stimulus
// list ranked strongest-first (ties break on lower subject id, so the
// ranking is deterministic). Events belong to this tick only; the caller
// folds them into the mob's snapshot.
func Perceive(mob *model.Mob, senses Senses, view View, tick int64, kinds KindSet) []model.PerceptionEvent {
	var events []model.PerceptionEvent

	if kinds.Has(KindVision) {
		events = appendVision(events, mob, senses, view, tick)
	}
	if kinds.Has(KindHearing) {
		events = appendHearing(events, mob, senses, view, tick)
	}
	if kinds.Has(KindSmell) {
		events = appendSmell(events, mob, senses, view, tick)
	}

	slices.SortStableFunc(events, func(a, b model.PerceptionEvent) int {
		switch {
		case a.Strength > b.Strength:
			return -1
		case a.Strength < b.Strength:
			return 1
		case a.Subject < b.Subject:
			return -1
		case a.Subject > b.Subject:
			return 1
		default:
			return 0
		}
	})
	return events
}

func appendVision(events []model.PerceptionEvent, mob *model.Mob, senses Senses, view View, tick int64) []model.PerceptionEvent {
	if senses.VisionRange <= 0 || view.Entities == nil {
		return events
	}

	origin := mob.Position()
	facing := mob.Facing()
	halfFOV := senses.FieldOfView / 2 * math.Pi / 180

	view.Entities.ForEachNearby(origin, senses.VisionRange, func(id uint32, pos model.Vec3) bool {
		if id == mob.ID() {
			return true
		}

		offset := pos.Sub(origin)
		dist := offset.Length()
		if dist > senses.VisionRange {
			return true
		}

		// Cone check against facing. Coincident positions are always seen.
		if dist > 0 && senses.FieldOfView < 360 {
			cos := facing.Dot(offset.Scale(1 / dist))
			if cos < math.Cos(halfFOV) {
				return true
			}
		}

		if senses.RequiresLineOfSight && view.Terrain != nil {
			from := nav.CellAt(origin.X, origin.Y)
			to := nav.CellAt(pos.X, pos.Y)
			if !view.Terrain.LineOfSight(from, to) {
				return true
			}
		}

		events = append(events, model.PerceptionEvent{
			Source:   mob.ID(),
			Kind:     model.StimulusVision,
			Subject:  id,
			Position: pos,
			Strength: clamp01(1 - dist/senses.VisionRange),
			Tick:     tick,
		})
		return true
	})
	return events
}

func appendHearing(events []model.PerceptionEvent, mob *model.Mob, senses Senses, view View, tick int64) []model.PerceptionEvent {
	if senses.HearingRange <= 0 || view.Sources == nil {
		return events
	}

	origin := mob.Position()
	view.Sources.ForEachSound(func(snd world.Sound) bool {
		if snd.Source == mob.ID() {
			return true
		}
		dist := snd.Pos.DistanceTo(origin)
		if dist > senses.HearingRange {
			return true
		}
		attenuated := snd.Volume * (1 - dist/senses.HearingRange)
		if attenuated <= senses.HearingSensitivity {
			return true
		}
		events = append(events, model.PerceptionEvent{
			Source:   mob.ID(),
			Kind:     model.StimulusHearing,
			Subject:  snd.Source,
			Position: snd.Pos,
			Strength: clamp01(attenuated),
			Tick:     tick,
		})
		return true
	})
	return events
}

func appendSmell(events []model.PerceptionEvent, mob *model.Mob, senses Senses, view View, tick int64) []model.PerceptionEvent {
	if senses.SmellRange <= 0 || view.Sources == nil || len(senses.TrackedScents) == 0 {
		return events
	}

	origin := mob.Position()
	view.Sources.ForEachScent(func(sc world.Scent) bool {
		if sc.Source == mob.ID() {
			return true
		}
		if !slices.Contains(senses.TrackedScents, sc.Kind) {
			return true
		}
		dist := sc.Pos.DistanceTo(origin)
		if dist > senses.SmellRange {
			return true
		}
		events = append(events, model.PerceptionEvent{
			Source:   mob.ID(),
			Kind:     model.StimulusSmell,
			Subject:  sc.Source,
			Position: sc.Pos,
			Strength: clamp01(sc.Strength * (1 - dist/senses.SmellRange)),
			Tick:     tick,
		})
		return true
	})
	return events
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

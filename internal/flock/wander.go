package flock

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/veilcraft/mobcore/internal/model"
)

// Wander heading parameters: each mob samples its own noise row, advanced
// slowly over ticks so headings drift smoothly instead of jittering.
const (
	wanderRowSpacing = 0.731
	wanderTickScale  = 0.035
)

// Wanderer produces smooth per-mob wander headings from simplex noise.
// Deterministic for a given seed: the same (mob, tick) always yields the
// same heading, which keeps replay tests stable.
type Wanderer struct {
	noise opensimplex.Noise
}

// NewWanderer creates a wanderer with the given noise seed.
func NewWanderer(seed int64) *Wanderer {
	return &Wanderer{noise: opensimplex.New(seed)}
}

// Heading returns a unit ground-plane direction for the mob at a tick.
func (w *Wanderer) Heading(mobID uint32, tick int64) model.Vec3 {
	sample := w.noise.Eval2(float64(mobID)*wanderRowSpacing, float64(tick)*wanderTickScale)
	angle := sample * math.Pi // Eval2 is in [-1,1]
	return model.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
}

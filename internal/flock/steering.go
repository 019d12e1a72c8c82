// Package flock computes per-tick steering adjustments on top of a desired
// movement vector: separation, alignment, cohesion, leader-follow, and
// reciprocal collision avoidance. All forces are stateless given the current
// tick's positions and velocities: flock membership is whatever the spatial
// query returned this tick, never persisted.
package flock

import (
	"math"

	"github.com/veilcraft/mobcore/internal/model"
)

// Config holds the per-archetype steering parameters.
type Config struct {
	SeparationRadius float64 `yaml:"separation_radius"`
	AlignmentRadius  float64 `yaml:"alignment_radius"`
	CohesionRadius   float64 `yaml:"cohesion_radius"`

	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	AvoidanceWeight  float64 `yaml:"avoidance_weight"`

	MaxForce float64 `yaml:"max_force"`
	MaxSpeed float64 `yaml:"max_speed"`

	FollowDistance    float64 `yaml:"follow_distance"`
	PredictionTime    float64 `yaml:"prediction_time"` // ticks of leader lookahead
	MaxFollowDistance float64 `yaml:"max_follow_distance"`

	AvoidanceHorizon float64 `yaml:"avoidance_horizon"` // max time-to-collision considered
}

// DefaultConfig returns steering parameters tuned for herd-sized mobs on a
// unit-cell grid.
func DefaultConfig() Config {
	return Config{
		SeparationRadius:  1.5,
		AlignmentRadius:   4,
		CohesionRadius:    6,
		SeparationWeight:  1.5,
		AlignmentWeight:   1.0,
		CohesionWeight:    1.0,
		AvoidanceWeight:   2.0,
		MaxForce:          0.5,
		MaxSpeed:          2.0,
		FollowDistance:    2,
		PredictionTime:    3,
		MaxFollowDistance: 12,
		AvoidanceHorizon:  4,
	}
}

// Neighbor is a flockmate's state for this tick.
type Neighbor struct {
	ID  uint32
	Pos model.Vec3
	Vel model.Vec3
}

// Steer adjusts a desired velocity by the combined flock forces of the given
// neighbors and clamps the result to MaxSpeed.
func Steer(cfg Config, pos, vel, desired model.Vec3, neighbors []Neighbor) model.Vec3 {
	if len(neighbors) == 0 {
		return desired.ClampLength(cfg.MaxSpeed)
	}

	force := separation(cfg, pos, neighbors).Scale(cfg.SeparationWeight)
	force = force.Add(alignment(cfg, pos, neighbors).Scale(cfg.AlignmentWeight))
	force = force.Add(cohesion(cfg, pos, neighbors).Scale(cfg.CohesionWeight))
	force = force.Add(avoidance(cfg, pos, vel, neighbors).Scale(cfg.AvoidanceWeight))
	force = force.ClampLength(cfg.MaxForce)

	return desired.Add(force).ClampLength(cfg.MaxSpeed)
}

// separation pushes away from close neighbors, each weighted 1/distance.
func separation(cfg Config, pos model.Vec3, neighbors []Neighbor) model.Vec3 {
	var sum model.Vec3
	count := 0
	for _, n := range neighbors {
		d := pos.DistanceTo(n.Pos)
		if d <= 0 || d > cfg.SeparationRadius {
			continue
		}
		sum = sum.Add(pos.Sub(n.Pos).Scale(1 / (d * d))) // direction/d weighted 1/d
		count++
	}
	if count == 0 {
		return model.Vec3{}
	}
	return sum.Scale(1 / float64(count)).Normalized()
}

// alignment matches the average heading of neighbors in range.
func alignment(cfg Config, pos model.Vec3, neighbors []Neighbor) model.Vec3 {
	var sum model.Vec3
	count := 0
	for _, n := range neighbors {
		if pos.DistanceTo(n.Pos) > cfg.AlignmentRadius {
			continue
		}
		sum = sum.Add(n.Vel)
		count++
	}
	if count == 0 {
		return model.Vec3{}
	}
	return sum.Scale(1 / float64(count)).Normalized()
}

// cohesion pulls toward the centroid of neighbors in range.
func cohesion(cfg Config, pos model.Vec3, neighbors []Neighbor) model.Vec3 {
	var centroid model.Vec3
	count := 0
	for _, n := range neighbors {
		if pos.DistanceTo(n.Pos) > cfg.CohesionRadius {
			continue
		}
		centroid = centroid.Add(n.Pos)
		count++
	}
	if count == 0 {
		return model.Vec3{}
	}
	centroid = centroid.Scale(1 / float64(count))
	return centroid.Sub(pos).Normalized()
}

// avoidance adds a reciprocal-obstacle force for neighbors on a collision
// course, scaled inversely with the predicted time to collision.
func avoidance(cfg Config, pos, vel model.Vec3, neighbors []Neighbor) model.Vec3 {
	if cfg.AvoidanceHorizon <= 0 {
		return model.Vec3{}
	}

	var sum model.Vec3
	for _, n := range neighbors {
		rel := n.Pos.Sub(pos)
		relVel := n.Vel.Sub(vel)

		speedSq := relVel.LengthSquared()
		if speedSq == 0 {
			continue // no relative motion, separation handles it
		}

		ttc := -rel.Dot(relVel) / speedSq
		if ttc <= 0 || ttc > cfg.AvoidanceHorizon {
			continue
		}

		// Closest predicted offset between the two agents.
		closest := rel.Add(relVel.Scale(ttc))
		if closest.LengthSquared() > cfg.SeparationRadius*cfg.SeparationRadius {
			continue
		}

		away := closest.Scale(-1).Normalized()
		if away.IsZero() {
			away = rel.Scale(-1).Normalized()
		}
		sum = sum.Add(away.Scale(1 / math.Max(ttc, 0.1)))
	}
	return sum
}

// FollowLeader returns the desired velocity for trailing a leader: aim at a
// point behind the leader's predicted position, or sprint straight at the
// leader once too far behind.
func FollowLeader(cfg Config, pos, leaderPos, leaderVel model.Vec3) model.Vec3 {
	toLeader := leaderPos.Sub(pos)
	if toLeader.Length() > cfg.MaxFollowDistance {
		return toLeader.Normalized().Scale(cfg.MaxSpeed) // catch up directly
	}

	dir := leaderVel.Normalized()
	if dir.IsZero() {
		dir = toLeader.Normalized()
	}

	target := leaderPos.
		Add(leaderVel.Scale(cfg.PredictionTime)).
		Sub(dir.Scale(cfg.FollowDistance))

	return target.Sub(pos).ClampLength(cfg.MaxSpeed)
}

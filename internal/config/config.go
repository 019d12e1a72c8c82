// Package config loads the simulation configuration from YAML, falling back
// to defaults when no file is present.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veilcraft/mobcore/internal/ai"
)

// Simulation holds all configuration for the mob simulation.
type Simulation struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// World grid bounds (inclusive cells).
	Grid GridConfig `yaml:"grid"`

	// Pathfinding
	PathWorkers int  `yaml:"path_workers"`
	UseJPS      bool `yaml:"use_jps"`

	// Scheduling and level of detail
	Scheduler ai.SchedulerConfig `yaml:"scheduler"`

	// Archetype table file. Empty means the built-in table.
	ArchetypesPath string `yaml:"archetypes_path"`

	// Population for the simulation harness.
	Spawn SpawnConfig `yaml:"spawn"`

	// WanderSeed feeds the noise field behind idle wandering.
	WanderSeed int64 `yaml:"wander_seed"`
}

// GridConfig is the navigation grid extent.
type GridConfig struct {
	MinX int32 `yaml:"min_x"`
	MinY int32 `yaml:"min_y"`
	MaxX int32 `yaml:"max_x"`
	MaxY int32 `yaml:"max_y"`
}

// SpawnConfig sizes the harness population.
type SpawnConfig struct {
	Mobs    int     `yaml:"mobs"`
	Players int     `yaml:"players"`
	Spread  float64 `yaml:"spread"` // world units around origin
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:    "info",
		Grid:        GridConfig{MinX: -128, MinY: -128, MaxX: 127, MaxY: 127},
		PathWorkers: 4,
		UseJPS:      true,
		Scheduler:   ai.DefaultSchedulerConfig(),
		Spawn:       SpawnConfig{Mobs: 200, Players: 4, Spread: 80},
		WanderSeed:  1,
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

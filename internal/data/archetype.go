// Package data holds the static mob archetype tables: per-species tuning for
// senses, steering, goal selection, and the behavior tree definition. Tables
// are loaded once at startup and read-only afterwards.
package data

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veilcraft/mobcore/internal/behavior"
	"github.com/veilcraft/mobcore/internal/flock"
	"github.com/veilcraft/mobcore/internal/goal"
	"github.com/veilcraft/mobcore/internal/model"
	"github.com/veilcraft/mobcore/internal/perception"
)

// Archetype is one compiled species definition. The behavior tree is built
// and validated at load time and shared by every mob of the archetype.
type Archetype struct {
	name     string
	category model.Category

	maxHP     int32
	walkSpeed float64
	runSpeed  float64

	// leashRadius is how far a mob may drift from its anchor before it
	// abandons everything and walks home.
	leashRadius float64

	faction      string
	factionRange float64

	senses perception.Senses
	flock  flock.Config
	goals  goal.Config

	tree *behavior.Tree
}

func (a *Archetype) Name() string             { return a.name }
func (a *Archetype) Category() model.Category { return a.category }
func (a *Archetype) MaxHP() int32             { return a.maxHP }
func (a *Archetype) WalkSpeed() float64       { return a.walkSpeed }
func (a *Archetype) RunSpeed() float64        { return a.runSpeed }
func (a *Archetype) LeashRadius() float64     { return a.leashRadius }
func (a *Archetype) Faction() string          { return a.faction }
func (a *Archetype) FactionRange() float64    { return a.factionRange }

func (a *Archetype) Senses() perception.Senses { return a.senses }
func (a *Archetype) Flock() flock.Config       { return a.flock }
func (a *Archetype) Goals() goal.Config        { return a.goals }
func (a *Archetype) Tree() *behavior.Tree      { return a.tree }

// SharesFaction reports whether two archetypes answer each other's calls
// for help.
func (a *Archetype) SharesFaction(other *Archetype) bool {
	return a.faction != "" && other != nil && a.faction == other.faction
}

// archetypeDef is the YAML shape of one archetype entry.
type archetypeDef struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`

	MaxHP     int32   `yaml:"max_hp"`
	WalkSpeed float64 `yaml:"walk_speed"`
	RunSpeed  float64 `yaml:"run_speed"`

	LeashRadius  float64 `yaml:"leash_radius"`
	Faction      string  `yaml:"faction"`
	FactionRange float64 `yaml:"faction_range"`

	Senses perception.Senses `yaml:"senses"`
	Flock  *flock.Config     `yaml:"flock"`
	Goals  *goal.Config      `yaml:"goals"`

	Tree behavior.Spec `yaml:"tree"`
}

type archetypeFile struct {
	Archetypes []archetypeDef `yaml:"archetypes"`
}

// compile validates a def and builds the immutable archetype.
func (d *archetypeDef) compile() (*Archetype, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("archetype missing name")
	}

	cat, err := parseCategory(d.Category)
	if err != nil {
		return nil, fmt.Errorf("archetype %q: %w", d.Name, err)
	}

	tree, err := behavior.Build(d.Tree)
	if err != nil {
		return nil, fmt.Errorf("archetype %q: %w", d.Name, err)
	}

	a := &Archetype{
		name:         d.Name,
		category:     cat,
		maxHP:        d.MaxHP,
		walkSpeed:    d.WalkSpeed,
		runSpeed:     d.RunSpeed,
		leashRadius:  d.LeashRadius,
		faction:      d.Faction,
		factionRange: d.FactionRange,
		senses:       d.Senses,
		flock:        flock.DefaultConfig(),
		goals:        goal.DefaultConfig(),
		tree:         tree,
	}
	if d.Flock != nil {
		a.flock = *d.Flock
	}
	if d.Goals != nil {
		a.goals = *d.Goals
	}

	if a.maxHP <= 0 {
		a.maxHP = 100
	}
	if a.walkSpeed <= 0 {
		a.walkSpeed = 1.5
	}
	if a.runSpeed <= 0 {
		a.runSpeed = 4
	}
	if a.leashRadius <= 0 {
		a.leashRadius = 30
	}
	if a.factionRange <= 0 {
		a.factionRange = 12
	}
	return a, nil
}

func parseCategory(s string) (model.Category, error) {
	switch strings.ToLower(s) {
	case "passive":
		return model.CategoryPassive, nil
	case "neutral":
		return model.CategoryNeutral, nil
	case "hostile":
		return model.CategoryHostile, nil
	case "boss":
		return model.CategoryBoss, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// Table is a compiled, immutable archetype registry.
type Table struct {
	byName map[string]*Archetype
}

// Get returns an archetype or nil when unknown.
func (t *Table) Get(name string) *Archetype {
	if t == nil {
		return nil
	}
	return t.byName[name]
}

// Len returns the number of archetypes in the table.
func (t *Table) Len() int { return len(t.byName) }

// Names returns every archetype name in lexical order, so spawn rotations
// built on top of it are reproducible.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// LoadTable reads and compiles an archetype file. Every tree is validated
// against the action/condition registries here, so a typo in a definition
// fails startup instead of a random tick.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable compiles archetype definitions from YAML bytes.
func ParseTable(raw []byte) (*Table, error) {
	var file archetypeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	if len(file.Archetypes) == 0 {
		return nil, fmt.Errorf("parse archetypes: no entries")
	}

	t := &Table{byName: make(map[string]*Archetype, len(file.Archetypes))}
	for i := range file.Archetypes {
		a, err := file.Archetypes[i].compile()
		if err != nil {
			return nil, err
		}
		if _, dup := t.byName[a.name]; dup {
			return nil, fmt.Errorf("archetype %q: duplicate name", a.name)
		}
		t.byName[a.name] = a
	}
	return t, nil
}

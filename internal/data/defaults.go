package data

import (
	"github.com/veilcraft/mobcore/internal/behavior"
	"github.com/veilcraft/mobcore/internal/perception"
)

// builtinDefs are the archetypes shipped with the engine, used whenever no
// archetype file is configured. They double as a reference for the YAML
// shape: the same defs could be expressed verbatim in an archetypes file.
var builtinDefs = []archetypeDef{
	{
		Name:      "deer",
		Category:  "passive",
		MaxHP:     40,
		WalkSpeed: 1.8,
		RunSpeed:  5.5,
		Senses:    senses(18, 200, 14, 10),
		Tree: behavior.Spec{Selector: []behavior.Spec{
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_flee"},
				{Action: "flee"},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_reproduce"},
				{Condition: "can_breed", Params: p("cooldown", 1200)},
				{Selector: []behavior.Spec{
					{Action: "breed"},
					{Action: "move_to_goal"},
				}},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "at_anchor", Params: p("radius", 2)},
				{Action: "rest", Params: p("heal", 1)},
			}},
			{Action: "wander", Params: p("speed", 1.2)},
		}},
	},
	{
		Name:      "boar",
		Category:  "neutral",
		MaxHP:     90,
		WalkSpeed: 1.6,
		RunSpeed:  4.5,
		Senses:    senses(12, 150, 10, 8),
		Tree: behavior.Spec{Selector: []behavior.Spec{
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_flee"},
				{Action: "flee"},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_attack"},
				{Selector: []behavior.Spec{
					{Sequence: []behavior.Spec{
						{Condition: "target_in_range", Params: p("range", 1.5)},
						{Action: "attack_target", Params: ps("range", 1.5, "cooldown", 20)},
					}},
					{Action: "move_to_goal"},
				}},
			}},
			{Action: "wander"},
		}},
	},
	{
		Name:         "wolf",
		Category:     "hostile",
		MaxHP:        70,
		WalkSpeed:    2,
		RunSpeed:     6,
		Faction:      "wolf",
		FactionRange: 15,
		Senses:       senses(16, 220, 12, 12),
		Tree: behavior.Spec{Selector: []behavior.Spec{
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_attack"},
				{Selector: []behavior.Spec{
					{Sequence: []behavior.Spec{
						{Condition: "target_in_range", Params: p("range", 1.5)},
						{Action: "attack_target", Params: ps("range", 1.5, "cooldown", 15)},
					}},
					{Action: "move_to_goal"},
				}},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "has_leader"},
				{Action: "follow_leader"},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_seek"},
				{Action: "move_to_goal"},
			}},
			{Action: "wander"},
		}},
	},
	{
		Name:         "goblin",
		Category:     "hostile",
		MaxHP:        50,
		WalkSpeed:    1.8,
		RunSpeed:     4.8,
		Faction:      "goblin",
		FactionRange: 10,
		Senses:       senses(14, 160, 8, 8),
		Tree: behavior.Spec{Selector: []behavior.Spec{
			{Sequence: []behavior.Spec{
				{Condition: "health_below", Params: p("fraction", 0.2)},
				{Action: "flee"},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_attack"},
				{Selector: []behavior.Spec{
					{Sequence: []behavior.Spec{
						{Condition: "target_in_range", Params: p("range", 1.2)},
						{Action: "attack_target", Params: ps("range", 1.2, "cooldown", 18)},
					}},
					{Action: "move_to_goal"},
				}},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_seek"},
				{Action: "move_to_goal"},
			}},
			{Action: "wander"},
		}},
	},
	{
		Name:        "ogre_warlord",
		Category:    "boss",
		MaxHP:       800,
		WalkSpeed:   1.4,
		RunSpeed:    4,
		LeashRadius: 50,
		Senses:      senses(25, 300, 20, 15),
		Tree: behavior.Spec{Selector: []behavior.Spec{
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_flee"},
				{Action: "flee"},
			}},
			{Sequence: []behavior.Spec{
				{Condition: "goal_is_attack"},
				{Selector: []behavior.Spec{
					{Sequence: []behavior.Spec{
						{Condition: "target_in_range", Params: p("range", 3)},
						{Action: "attack_target", Params: ps("range", 3, "cooldown", 30)},
					}},
					{Action: "move_to_goal"},
				}},
			}},
			{Action: "wander", Params: p("speed", 0.8)},
		}},
	},
}

// DefaultTable compiles the built-in archetypes. An error here means a
// broken built-in definition, which the table tests catch.
func DefaultTable() (*Table, error) {
	t := &Table{byName: make(map[string]*Archetype, len(builtinDefs))}
	for i := range builtinDefs {
		a, err := builtinDefs[i].compile()
		if err != nil {
			return nil, err
		}
		t.byName[a.name] = a
	}
	return t, nil
}

func senses(vision, fov, hearing, smell float64) perception.Senses {
	return perception.Senses{
		VisionRange:         vision,
		FieldOfView:         fov,
		RequiresLineOfSight: true,
		HearingRange:        hearing,
		HearingSensitivity:  0.05,
		SmellRange:          smell,
		TrackedScents:       []string{"blood", "carrion"},
	}
}

func p(name string, v float64) map[string]float64 {
	return map[string]float64{name: v}
}

func ps(n1 string, v1 float64, n2 string, v2 float64) map[string]float64 {
	return map[string]float64{n1: v1, n2: v2}
}

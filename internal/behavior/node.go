// Package behavior implements the decision tree engine: immutable, shared
// tree definitions evaluated each tick against a per-mob context, with all
// transient evaluation state (running child indexes, action continuations)
// kept in a separate per-mob State so one tree serves every mob of an
// archetype.
package behavior

import "fmt"

// Status is a node evaluation result.
type Status int32

const (
	StatusFailure Status = iota
	StatusSuccess
	StatusRunning
)

// String returns human-readable status name
func (s Status) String() string {
	switch s {
	case StatusFailure:
		return "FAILURE"
	case StatusSuccess:
		return "SUCCESS"
	case StatusRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// NodeKind discriminates the closed set of tree node variants.
type NodeKind int32

const (
	NodeSequence NodeKind = iota
	NodeSelector
	NodeAction
	NodeCondition
)

// Node is one vertex of an immutable behavior tree. Trees are finite,
// acyclic, single-rooted, defined once per archetype and never mutated at
// runtime. id indexes per-mob evaluation state and is assigned when the
// tree is built.
type Node struct {
	Kind     NodeKind
	Children []*Node // Sequence/Selector only
	Name     string  // Action/Condition only
	Params   Params

	id int
}

// Params carries the numeric tuning values of an action or condition node.
type Params map[string]float64

// Get returns a parameter or the default when absent.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Tree is a built, validated behavior tree.
type Tree struct {
	root  *Node
	nodes int
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of nodes, a rough behavior-complexity measure the
// scheduler folds into its priority score.
func (t *Tree) Len() int { return t.nodes }

// Spec is the YAML shape of a tree definition. Exactly one field group must
// be set per node:
//
//	selector:
//	  - sequence:
//	      - condition: has_target
//	      - action: attack_target
//	        params: {cooldown: 10}
//	  - action: wander
type Spec struct {
	Sequence  []Spec             `yaml:"sequence,omitempty"`
	Selector  []Spec             `yaml:"selector,omitempty"`
	Action    string             `yaml:"action,omitempty"`
	Condition string             `yaml:"condition,omitempty"`
	Params    map[string]float64 `yaml:"params,omitempty"`
}

// Build converts a spec into an immutable tree, resolving every action and
// condition name against the registry. Unknown names and malformed nodes are
// configuration errors: they fail here, at load time, never mid-simulation.
func Build(spec Spec) (*Tree, error) {
	t := &Tree{}
	root, err := t.build(spec)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) build(spec Spec) (*Node, error) {
	set := 0
	if len(spec.Sequence) > 0 {
		set++
	}
	if len(spec.Selector) > 0 {
		set++
	}
	if spec.Action != "" {
		set++
	}
	if spec.Condition != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("behavior: node must have exactly one of sequence/selector/action/condition, got %d", set)
	}

	n := &Node{id: t.nodes}
	t.nodes++

	switch {
	case len(spec.Sequence) > 0:
		n.Kind = NodeSequence
		for _, child := range spec.Sequence {
			c, err := t.build(child)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}

	case len(spec.Selector) > 0:
		n.Kind = NodeSelector
		for _, child := range spec.Selector {
			c, err := t.build(child)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}

	case spec.Action != "":
		n.Kind = NodeAction
		n.Name = spec.Action
		n.Params = spec.Params
		if _, ok := actionRegistry[spec.Action]; !ok {
			return nil, fmt.Errorf("behavior: unknown action %q", spec.Action)
		}

	default:
		n.Kind = NodeCondition
		n.Name = spec.Condition
		n.Params = spec.Params
		if _, ok := conditionRegistry[spec.Condition]; !ok {
			return nil, fmt.Errorf("behavior: unknown condition %q", spec.Condition)
		}
	}

	return n, nil
}

package behavior

// State is one mob's transient evaluation state: which child of each
// composite node is mid-run, and whatever continuation data running actions
// parked between ticks. Never shared between mobs; released with the mob.
type State struct {
	running map[int]int
	scratch map[int]any
}

// NewState creates empty evaluation state.
func NewState() *State {
	return &State{
		running: make(map[int]int),
		scratch: make(map[int]any),
	}
}

// Reset drops all in-progress evaluation (goal changed, tree replaced).
func (s *State) Reset() {
	clear(s.running)
	clear(s.scratch)
}

// Scratch returns the continuation data a running action parked on a node.
func (s *State) Scratch(n *Node) any {
	return s.scratch[n.id]
}

// SetScratch parks continuation data on a node; nil clears it.
func (s *State) SetScratch(n *Node, v any) {
	if v == nil {
		delete(s.scratch, n.id)
		return
	}
	s.scratch[n.id] = v
}

// Evaluate runs the tree top-down. Children of composites evaluate strictly
// left to right; the first Running or terminating result short-circuits, and
// composites remember the in-progress child so the next tick resumes there.
// Deterministic: identical (context, state) always yields the same result.
func (t *Tree) Evaluate(st *State, ctx *Context) Status {
	return eval(t.root, st, ctx)
}

func eval(n *Node, st *State, ctx *Context) Status {
	switch n.Kind {
	case NodeSequence:
		for i := st.running[n.id]; i < len(n.Children); i++ {
			switch eval(n.Children[i], st, ctx) {
			case StatusRunning:
				st.running[n.id] = i
				return StatusRunning
			case StatusFailure:
				delete(st.running, n.id)
				return StatusFailure
			}
		}
		delete(st.running, n.id)
		return StatusSuccess

	case NodeSelector:
		for i := st.running[n.id]; i < len(n.Children); i++ {
			switch eval(n.Children[i], st, ctx) {
			case StatusRunning:
				st.running[n.id] = i
				return StatusRunning
			case StatusSuccess:
				delete(st.running, n.id)
				return StatusSuccess
			}
		}
		delete(st.running, n.id)
		return StatusFailure

	case NodeCondition:
		// Conditions are pure predicates: Success or Failure, never Running.
		if conditionRegistry[n.Name](ctx, n.Params) {
			return StatusSuccess
		}
		return StatusFailure

	default: // NodeAction
		return actionRegistry[n.Name](ctx, n, st)
	}
}

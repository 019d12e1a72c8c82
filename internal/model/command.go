package model

// CommandKind discriminates the outputs the AI core hands to collaborators.
type CommandKind int32

const (
	// CommandMove - physics layer applies velocity or walks waypoints
	CommandMove CommandKind = iota
	// CommandAttack - combat system resolves a strike against Target
	CommandAttack
	// CommandConsume - mob eats/drinks at Target or its own position
	CommandConsume
	// CommandBreed - reproduction system pairs mob with Target
	CommandBreed
	// CommandSleep - animation layer plays rest state
	CommandSleep
)

// String returns human-readable command name
func (k CommandKind) String() string {
	switch k {
	case CommandMove:
		return "MOVE"
	case CommandAttack:
		return "ATTACK"
	case CommandConsume:
		return "CONSUME"
	case CommandBreed:
		return "BREED"
	case CommandSleep:
		return "SLEEP"
	default:
		return "UNKNOWN"
	}
}

// Command is a per-tick output of the decision core. Movement carries either
// a desired velocity (steered motion) or a waypoint list (path following);
// the physics layer consumes whichever is set.
type Command struct {
	Mob       uint32
	Kind      CommandKind
	Tick      int64
	Velocity  Vec3   // CommandMove, steered
	Waypoints []Vec3 // CommandMove, path following
	Target    uint32 // CommandAttack / CommandBreed / CommandConsume
}

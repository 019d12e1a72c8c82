package behavior

import "fmt"

// Registries resolve action and condition names at tree-build time. They are
// populated from init funcs and RegisterAction/RegisterCondition calls during
// startup, before any tree is built, and read-only afterward.
var (
	actionRegistry    = map[string]ActionFunc{}
	conditionRegistry = map[string]ConditionFunc{}
)

// RegisterAction adds a named action. Duplicate names are a programming
// error and panic at startup.
func RegisterAction(name string, fn ActionFunc) {
	if _, exists := actionRegistry[name]; exists {
		panic(fmt.Sprintf("behavior: action %q registered twice", name))
	}
	actionRegistry[name] = fn
}

// RegisterCondition adds a named condition. Duplicate names panic.
func RegisterCondition(name string, fn ConditionFunc) {
	if _, exists := conditionRegistry[name]; exists {
		panic(fmt.Sprintf("behavior: condition %q registered twice", name))
	}
	conditionRegistry[name] = fn
}

// ActionNames returns the registered action names (for diagnostics).
func ActionNames() []string {
	names := make([]string, 0, len(actionRegistry))
	for n := range actionRegistry {
		names = append(names, n)
	}
	return names
}

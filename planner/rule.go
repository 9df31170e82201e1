package planner

import (
	"log/slog"

	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// ActionFunc picks a concrete command for the unit once a rule's condition
// holds. Returning false lets lower-priority rules try.
type ActionFunc func(env UnitEnv) (sim.Command, bool)

// Rule is one condition → action pair. The engine tries rules in priority
// order and the first action that produces a command wins.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}

// holds evaluates the compiled condition. A runtime error counts as false.
func (r *Rule) holds(env UnitEnv) bool {
	out, err := vm.Run(r.program, env)
	if err != nil {
		slog.Warn("rule condition error", "rule", r.Name, "unit", env.Unit, "error", err)
		return false
	}
	match, _ := out.(bool)
	return match
}

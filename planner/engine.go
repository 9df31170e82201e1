package planner

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Engine picks one command per unit by running compiled rules in priority
// order.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Decide returns the command of the highest-priority rule whose condition
// holds and whose action yields a command, plus that rule's name.
func (e *Engine) Decide(env UnitEnv) (sim.Command, string, bool) {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for _, r := range rules {
		if !r.holds(env) {
			continue
		}
		cmd, ok := r.Action(env)
		if !ok {
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "unit", env.Unit)
		return cmd, r.Name, true
	}
	return sim.Command{}, "", false
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "rules", ruleNames(compiled))
	return nil
}

// Rules returns the active rule names in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ruleNames(e.rules)
}

// compileRules returns the rules ordered by descending priority, equal
// priorities keeping their input order. The caller's slice is not reordered.
func compileRules(in []*Rule) ([]*Rule, error) {
	out := make([]*Rule, 0, len(in))
	for _, r := range in {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(UnitEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}

func ruleNames(rules []*Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

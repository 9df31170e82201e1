package planner

import (
	"testing"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

func TestDefaultRulesCompile(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine(DefaultRules()) failed: %v", err)
	}
	if len(engine.rules) != 3 {
		t.Errorf("expected 3 rules, got %d", len(engine.rules))
	}
	// Verify priority ordering (descending).
	for i := 1; i < len(engine.rules); i++ {
		if engine.rules[i].Priority > engine.rules[i-1].Priority {
			t.Errorf("rules not sorted by priority: %s (%d) > %s (%d)",
				engine.rules[i].Name, engine.rules[i].Priority,
				engine.rules[i-1].Name, engine.rules[i-1].Priority)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
	}{
		{"unknown function", &Rule{Name: "bad", ConditionSrc: `Retreat()`, Action: ActionWait}},
		{"not a bool", &Rule{Name: "int", ConditionSrc: `HP()`, Action: ActionWait}},
		{"no action", &Rule{Name: "empty", ConditionSrc: `true`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEngine([]*Rule{tc.rule}); err == nil {
				t.Error("NewEngine should fail")
			}
		})
	}
}

func TestSwapKeepsRulesOnError(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Swap([]*Rule{{Name: "broken", ConditionSrc: `1 +`, Action: ActionWait}}); err == nil {
		t.Fatal("Swap should reject a broken rule")
	}
	if got := engine.Rules(); len(got) != 3 || got[0] != "attack" {
		t.Errorf("rules after failed swap = %v", got)
	}

	if err := engine.Swap([]*Rule{{Name: "idle", ConditionSrc: `true`, Action: ActionWait}}); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if got := engine.Rules(); len(got) != 1 || got[0] != "idle" {
		t.Errorf("rules after swap = %v", got)
	}
}

func TestDecideFallsThroughDecliningAction(t *testing.T) {
	s := newSim(t, plainRows(3, 1),
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
	)
	u := s.Board().Units()[0]
	decline := func(UnitEnv) (sim.Command, bool) { return sim.Command{}, false }

	engine, err := NewEngine([]*Rule{
		{Name: "decline", Priority: 10, ConditionSrc: `true`, Action: decline},
		{Name: "never", Priority: 5, ConditionSrc: `EnemyCount() > 0`, Action: ActionWait},
		{Name: "fallback", Priority: 0, ConditionSrc: `TypeName() == "Infantry"`, Action: ActionWait},
	})
	if err != nil {
		t.Fatal(err)
	}

	cmd, rule, ok := engine.Decide(newUnitEnv(s, u, DefaultPersonality()))
	if !ok || rule != "fallback" {
		t.Fatalf("Decide = %q, %v; want fallback", rule, ok)
	}
	if cmd != sim.Wait(u.ID) {
		t.Errorf("command = %+v, want wait", cmd)
	}
}

func TestDecideNothingFires(t *testing.T) {
	s := newSim(t, plainRows(2, 1),
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
	)
	u := s.Board().Units()[0]
	u.HasMoved, u.HasAttacked = true, true

	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if _, rule, ok := engine.Decide(newUnitEnv(s, u, DefaultPersonality())); ok {
		t.Errorf("spent unit fired rule %q", rule)
	}
}

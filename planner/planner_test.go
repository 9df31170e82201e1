package planner

import (
	"reflect"
	"testing"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

func newPlanner(t *testing.T, opts ...Option) *Planner {
	t.Helper()
	p, err := New(DefaultPersonality(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestPlanTurnAttacksBestTarget(t *testing.T) {
	s := newSim(t, plainRows(3, 1),
		model.Placement{Type: "Tank", Owner: 0, X: 1, Y: 0},
		model.Placement{Type: "Tank", Owner: 1, X: 2, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 0, Y: 0},
	)
	us := s.Board().Units()

	plan, err := newPlanner(t).PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	want := []sim.Command{sim.Attack(us[0].ID, us[2].ID)}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("plan = %+v, want %+v", plan, want)
	}
}

func TestPlanTurnLeavesSimulationUntouched(t *testing.T) {
	s := newSim(t, plainRows(6, 3),
		model.Placement{Type: "Tank", Owner: 0, X: 1, Y: 1},
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 2, Y: 1},
		model.Placement{Type: "Recon", Owner: 1, X: 5, Y: 2},
	)
	before := s.Snapshot()

	if _, err := newPlanner(t).PlanTurn(s, 0); err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("PlanTurn mutated the simulation")
	}
}

func TestPlanTurnReplaysCleanly(t *testing.T) {
	s := newSim(t, plainRows(8, 3),
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 1},
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 2},
		model.Placement{Type: "Tank", Owner: 1, X: 6, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 7, Y: 1},
	)

	plan, err := newPlanner(t).PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("plan has %d commands, want one per unit: %+v", len(plan), plan)
	}

	seenUnit := make(map[model.UnitID]bool)
	seenDest := make(map[model.Coord]bool)
	for _, cmd := range plan {
		if seenUnit[cmd.Unit] {
			t.Errorf("unit %d planned twice", cmd.Unit)
		}
		seenUnit[cmd.Unit] = true
		if cmd.Kind == sim.CmdMove {
			c := model.Coord{X: cmd.X, Y: cmd.Y}
			if seenDest[c] {
				t.Errorf("two units planned into %v", c)
			}
			seenDest[c] = true
		}
		if _, err := s.Apply(cmd); err != nil {
			t.Errorf("replaying %+v: %v", cmd, err)
		}
	}
}

func TestPlanTurnSkipsDestroyedTarget(t *testing.T) {
	s := newSim(t, plainRows(3, 2),
		model.Placement{Type: "Tank", Owner: 0, X: 0, Y: 0},
		model.Placement{Type: "Tank", Owner: 0, X: 2, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 1, Y: 0},
	)
	us := s.Board().Units()

	plan, err := newPlanner(t).PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("plan = %+v, want 2 commands", plan)
	}
	if plan[0] != sim.Attack(us[0].ID, us[2].ID) {
		t.Errorf("first command = %+v, want the killing attack", plan[0])
	}
	if plan[1].Kind == sim.CmdAttack {
		t.Errorf("second tank attacks a unit that is already gone: %+v", plan[1])
	}
	for _, cmd := range plan {
		if _, err := s.Apply(cmd); err != nil {
			t.Errorf("replaying %+v: %v", cmd, err)
		}
	}
}

func TestPlanTurnWaitsWhenStuck(t *testing.T) {
	s := newSim(t, plainRows(3, 1),
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 2, Y: 0},
	)
	u := s.Board().Units()[0]
	u.Fuel = 0

	plan, err := newPlanner(t).PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	want := []sim.Command{sim.Wait(u.ID)}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("plan = %+v, want %+v", plan, want)
	}
}

func TestPlanTurnSkipsSpentUnits(t *testing.T) {
	s := newSim(t, plainRows(3, 1),
		model.Placement{Type: "Infantry", Owner: 0, X: 0, Y: 0},
	)
	u := s.Board().Units()[0]
	u.HasMoved, u.HasAttacked = true, true

	plan, err := newPlanner(t).PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("plan = %+v, want empty", plan)
	}
}

func TestPlanTurnCustomRules(t *testing.T) {
	s := newSim(t, plainRows(2, 1),
		model.Placement{Type: "Tank", Owner: 0, X: 0, Y: 0},
		model.Placement{Type: "Infantry", Owner: 1, X: 1, Y: 0},
	)
	tank := s.Board().Units()[0]
	tank.HP = 4

	hold := &Rule{Name: "hold", Priority: 500, ConditionSrc: `HealthFraction() < 0.5`, Action: ActionWait}
	p := newPlanner(t, WithRules(append(DefaultRules(), hold)))

	plan, err := p.PlanTurn(s, 0)
	if err != nil {
		t.Fatalf("PlanTurn: %v", err)
	}
	want := []sim.Command{sim.Wait(tank.ID)}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("plan = %+v, want %+v", plan, want)
	}
	if got := p.Engine().Rules(); got[0] != "hold" {
		t.Errorf("rule order = %v, want hold first", got)
	}
}

func TestPlanTurnWrongSide(t *testing.T) {
	s := newSim(t, plainRows(2, 1),
		model.Placement{Type: "Infantry", Owner: 1, X: 0, Y: 0},
	)
	if _, err := newPlanner(t).PlanTurn(s, 1); err == nil {
		t.Error("planning for side 1 during side 0's turn should fail")
	}
}

func TestPlanTurnIsDeterministic(t *testing.T) {
	build := func() *sim.Simulation {
		return newSim(t, []string{"..f.....", ".m..=...", "....r..."},
			model.Placement{Type: "Tank", Owner: 0, X: 0, Y: 0},
			model.Placement{Type: "Mech", Owner: 0, X: 0, Y: 2},
			model.Placement{Type: "Artillery", Owner: 0, X: 1, Y: 2},
			model.Placement{Type: "Infantry", Owner: 1, X: 5, Y: 1},
			model.Placement{Type: "Recon", Owner: 1, X: 7, Y: 2},
		)
	}
	p := newPlanner(t)
	a, err := p.PlanTurn(build(), 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.PlanTurn(build(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("plans differ:\n%+v\n%+v", a, b)
	}
}

func TestNewClampsPersonality(t *testing.T) {
	p, err := New(Personality{Aggressiveness: 2, Explore: -3, Difficulty: "expert"})
	if err != nil {
		t.Fatal(err)
	}
	got := p.Personality()
	if got.Aggressiveness != 1 || got.Explore != 0 || got.Difficulty != Expert {
		t.Errorf("Personality = %+v", got)
	}
}

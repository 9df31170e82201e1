package agent

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/planner"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

type applyLog struct {
	cmds   []sim.Command
	reject map[sim.CommandKind]bool
	fail   error
}

func (l *applyLog) apply(cmd sim.Command) (sim.Result, error) {
	l.cmds = append(l.cmds, cmd)
	if l.fail != nil {
		return sim.Result{}, l.fail
	}
	if l.reject[cmd.Kind] {
		return sim.Result{}, &sim.CommandError{Op: cmd.Kind, Kind: sim.ErrIllegalAction, Reason: "test"}
	}
	return sim.Result{}, nil
}

func TestSequencerEndsTurn(t *testing.T) {
	var log applyLog
	plan := []sim.Command{sim.Move(1, 2, 3), sim.Attack(2, 5)}

	if err := (Sequencer{}).Run(context.Background(), plan, log.apply); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []sim.Command{sim.Move(1, 2, 3), sim.Attack(2, 5), sim.EndTurn()}
	if !reflect.DeepEqual(log.cmds, want) {
		t.Errorf("applied = %+v, want %+v", log.cmds, want)
	}
}

func TestSequencerFallsBackToWait(t *testing.T) {
	log := applyLog{reject: map[sim.CommandKind]bool{sim.CmdAttack: true}}
	plan := []sim.Command{sim.Attack(2, 5), sim.Move(3, 0, 0)}

	if err := (Sequencer{}).Run(context.Background(), plan, log.apply); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []sim.Command{sim.Attack(2, 5), sim.Wait(2), sim.Move(3, 0, 0), sim.EndTurn()}
	if !reflect.DeepEqual(log.cmds, want) {
		t.Errorf("applied = %+v, want %+v", log.cmds, want)
	}
}

func TestSequencerAbortsOnForeignError(t *testing.T) {
	log := applyLog{fail: errMatchReset}
	err := (Sequencer{}).Run(context.Background(), []sim.Command{sim.Wait(1), sim.Wait(2)}, log.apply)
	if !errors.Is(err, errMatchReset) {
		t.Fatalf("Run error = %v, want errMatchReset", err)
	}
	if len(log.cmds) != 1 {
		t.Errorf("applied %d commands after abort, want 1", len(log.cmds))
	}
}

func TestSequencerCancelDuringPause(t *testing.T) {
	var log applyLog
	ctx, cancel := context.WithCancel(context.Background())
	q := Sequencer{ActionDelay: time.Hour}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := q.Run(ctx, []sim.Command{sim.Wait(1), sim.Wait(2)}, log.apply)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(log.cmds) != 1 {
		t.Errorf("applied %d commands, want 1 before the cancelled pause", len(log.cmds))
	}
}

func TestPacingDoesNotChangeOutcome(t *testing.T) {
	play := func(q Sequencer) model.GameState {
		b, err := model.Layout{
			Rows: []string{"..f.....", ".m..=...", "....r..."},
			Units: []model.Placement{
				{Type: "Tank", Owner: 0, X: 3, Y: 1},
				{Type: "Infantry", Owner: 0, X: 0, Y: 0},
				{Type: "Infantry", Owner: 1, X: 4, Y: 1},
				{Type: "Recon", Owner: 1, X: 7, Y: 2},
			},
		}.Build(model.DefaultCatalog())
		if err != nil {
			t.Fatal(err)
		}
		s, err := sim.New(b, model.DefaultCatalog(), 2)
		if err != nil {
			t.Fatal(err)
		}
		p, err := planner.New(planner.DefaultPersonality())
		if err != nil {
			t.Fatal(err)
		}
		for range 4 {
			plan, err := p.PlanTurn(s, s.Turn().Side)
			if err != nil {
				t.Fatal(err)
			}
			if err := q.Run(context.Background(), plan, s.Apply); err != nil {
				t.Fatal(err)
			}
		}
		return s.Snapshot()
	}

	immediate := play(Sequencer{})
	paced := play(Sequencer{ActionDelay: time.Millisecond, TurnEndDelay: time.Millisecond})
	if !reflect.DeepEqual(immediate, paced) {
		t.Error("pacing changed the outcome")
	}
	if immediate.Turn.Turn != 3 {
		t.Errorf("after four turns Turn = %+v, want turn 3", immediate.Turn)
	}
}

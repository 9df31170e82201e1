package agent

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// ApplyFunc executes one command against the live match. A *sim.CommandError
// means the command was rejected; any other error aborts the replay.
type ApplyFunc func(cmd sim.Command) (sim.Result, error)

// Sequencer replays a planned turn one command at a time with presentation
// pacing between steps, then ends the turn. Delays never affect the
// outcome; zero delays replay immediately.
type Sequencer struct {
	ActionDelay  time.Duration
	TurnEndDelay time.Duration
}

// Run applies plan in order. A rejected move or attack is replaced by Wait
// for the same unit. Run stops early when ctx is cancelled, leaving the match
// at the last fully applied command.
func (q Sequencer) Run(ctx context.Context, plan []sim.Command, apply ApplyFunc) error {
	for i, cmd := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := apply(cmd); err != nil {
			var rejected *sim.CommandError
			if !errors.As(err, &rejected) {
				return err
			}
			slog.Debug("planned command rejected", "step", i, "command", cmd.Kind, "unit", cmd.Unit, "error", err)
			if err := q.fallback(cmd, apply); err != nil {
				return err
			}
		}
		if err := pause(ctx, q.ActionDelay); err != nil {
			return err
		}
	}
	if err := pause(ctx, q.TurnEndDelay); err != nil {
		return err
	}
	_, err := apply(sim.EndTurn())
	return err
}

func (q Sequencer) fallback(cmd sim.Command, apply ApplyFunc) error {
	if cmd.Kind != sim.CmdMove && cmd.Kind != sim.CmdAttack {
		return nil
	}
	_, err := apply(sim.Wait(cmd.Unit))
	var rejected *sim.CommandError
	if err != nil && !errors.As(err, &rejected) {
		return err
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

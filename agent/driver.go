package agent

import (
	"context"
	"log/slog"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Driver plays computer turns in the background. It wakes whenever the
// turn may have passed to a computer side and keeps playing until a human
// side holds the turn or the consecutive-turn limit is hit.
type Driver struct {
	agent *Agent
	ready chan struct{}
}

func NewDriver(a *Agent) *Driver {
	return &Driver{agent: a, ready: make(chan struct{}, 1)}
}

// Notify wakes the driver. It never blocks; wakes coalesce.
func (d *Driver) Notify() {
	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Start runs the driver loop. It blocks until ctx is cancelled.
func (d *Driver) Start(ctx context.Context) {
	slog.Debug("turn driver started")
	for {
		select {
		case <-ctx.Done():
			slog.Debug("turn driver stopped")
			return
		case <-d.ready:
			d.play(ctx)
		}
	}
}

func (d *Driver) play(ctx context.Context) {
	a := d.agent
	for played := 0; ; played++ {
		a.mu.Lock()
		if a.sim == nil || !a.aiSides[a.sim.Turn().Side] {
			a.mu.Unlock()
			return
		}
		turn := a.sim.Turn()
		if played >= a.settings.MaxConsecutiveTurns {
			a.mu.Unlock()
			slog.Warn("computer turn limit reached", "limit", a.settings.MaxConsecutiveTurns, "side", turn.Side, "turn", turn.Turn)
			return
		}
		gen := a.gen
		plan, err := a.planner.PlanTurn(a.sim, turn.Side)
		turnCtx, cancel := context.WithCancel(ctx)
		a.cancelAI = cancel
		a.mu.Unlock()

		if err != nil {
			cancel()
			slog.Error("planning failed", "side", turn.Side, "error", err)
			return
		}
		slog.Info("computer turn", "side", turn.Side, "turn", turn.Turn, "commands", len(plan))

		err = a.sequencer.Run(turnCtx, plan, func(cmd sim.Command) (sim.Result, error) {
			return a.applyAI(gen, turn.Side, cmd)
		})
		cancel()
		if err != nil {
			slog.Info("computer turn aborted", "side", turn.Side, "error", err)
			return
		}
	}
}

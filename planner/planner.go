package planner

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Planner produces a side's whole turn as an ordered command list. It never
// touches the simulation it is given; replaying the list is the caller's job.
type Planner struct {
	engine      *Engine
	personality Personality
	rules       []*Rule
	log         *slog.Logger
}

type Option func(*Planner)

// WithRules replaces the default attack/move/wait chain.
func WithRules(rules []*Rule) Option {
	return func(p *Planner) { p.rules = rules }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// New builds a planner. The personality is clamped before use.
func New(personality Personality, opts ...Option) (*Planner, error) {
	p := &Planner{
		personality: personality,
		rules:       DefaultRules(),
		log:         slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	p.personality.Validate()
	engine, err := NewEngine(p.rules)
	if err != nil {
		return nil, fmt.Errorf("planner rules: %w", err)
	}
	p.engine = engine
	return p, nil
}

func (p *Planner) Personality() Personality { return p.personality }

func (p *Planner) Engine() *Engine { return p.engine }

// PlanTurn decides one action per unit of side, in roster order. Each
// decision is applied to a lookahead copy so later units see earlier moves
// (claimed tiles, destroyed enemies). A command the copy rejects is
// replaced by Wait. The trailing end-turn is left to the caller.
func (p *Planner) PlanTurn(s *sim.Simulation, side int) ([]sim.Command, error) {
	if cur := s.Turn().Side; cur != side {
		return nil, fmt.Errorf("side %d cannot plan during side %d's turn", side, cur)
	}
	work := s.Clone(sim.Lookahead())

	var plan []sim.Command
	for _, u := range work.Roster(side) {
		if work.Board().Unit(u.ID) == nil {
			continue
		}
		cmd, rule, ok := p.engine.Decide(newUnitEnv(work, u, p.personality))
		if !ok {
			continue
		}
		if _, err := work.Apply(cmd); err != nil {
			p.log.Debug("planned command rejected, waiting instead", "rule", rule, "unit", u, "error", err)
			cmd = sim.Wait(u.ID)
			if _, err := work.Apply(cmd); err != nil {
				continue
			}
		}
		plan = append(plan, cmd)
	}
	p.log.Info("turn planned", "side", side, "commands", len(plan), "day", s.Turn().Day)
	return plan, nil
}

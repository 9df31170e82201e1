package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/gridwars/gridwars-core/ipc"
	"github.com/nstehr/gridwars/gridwars-core/journal"
	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/planner"
	"github.com/nstehr/gridwars/gridwars-core/rules"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

var (
	errNoMatch    = errors.New("no match running; send hello first")
	errMatchReset = errors.New("match was reset")
)

// Journal receives every match start and every applied command.
type Journal interface {
	BeginMatch(ctx context.Context, info journal.MatchInfo) error
	Record(ctx context.Context, matchID string, side int, cmd sim.Command, events []sim.Event) error
}

// Settings are the match defaults for a connection. A hello may override
// sides, computer sides, seed and layout; a reset may override seed and
// layout.
type Settings struct {
	Sides               int
	AISides             []int
	Seed                int64 // 0 means unvaried damage
	Layout              model.Layout
	Catalog             model.Catalog
	ReachOptions        []rules.ReachOption
	ActionDelay         time.Duration
	TurnEndDelay        time.Duration
	MaxConsecutiveTurns int
}

type overrides struct {
	sides   int
	aiSides []int
	seed    *int64
	layout  *model.Layout
}

// Agent owns the match for a single client session.
type Agent struct {
	Conn      *ipc.Connection
	settings  Settings
	planner   *planner.Planner
	journal   Journal
	sequencer Sequencer
	driver    *Driver

	mu        sync.Mutex
	player    string
	sim       *sim.Simulation
	gen       int
	matchID   string
	aiSides   map[int]bool
	overrides overrides
	cancelAI  context.CancelFunc
}

// New creates an agent. j may be nil to run without a journal.
func New(conn *ipc.Connection, settings Settings, p *planner.Planner, j Journal) *Agent {
	if settings.Sides < 1 {
		settings.Sides = 2
	}
	if settings.Catalog == nil {
		settings.Catalog = model.DefaultCatalog()
	}
	if settings.MaxConsecutiveTurns <= 0 {
		settings.MaxConsecutiveTurns = 100
	}
	a := &Agent{
		Conn:     conn,
		settings: settings,
		planner:  p,
		journal:  j,
		sequencer: Sequencer{
			ActionDelay:  settings.ActionDelay,
			TurnEndDelay: settings.TurnEndDelay,
		},
	}
	a.driver = NewDriver(a)
	return a
}

// Serve registers the handlers, starts the computer-turn driver and blocks
// until the client disconnects or ctx is cancelled.
func (a *Agent) Serve(ctx context.Context) {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeCommand, a.HandleCommand)
	a.Conn.RegisterHandler(ipc.TypeSelect, a.HandleSelect)
	a.Conn.RegisterHandler(ipc.TypeSnapshot, a.HandleSnapshot)
	a.Conn.RegisterHandler(ipc.TypeReset, a.HandleReset)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.driver.Start(ctx)
	go func() {
		select {
		case <-ctx.Done():
			a.Conn.Close()
		case <-a.Conn.Done():
		}
	}()
	a.Conn.ReadLoop()
}

// HandleHello starts a match and identifies the player.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}
	a.Conn.Player = hello.Player

	o := overrides{sides: hello.Sides, aiSides: hello.AISides, seed: hello.Seed, layout: hello.Layout}
	ack, err := a.startMatch(hello.Player, o)
	if err != nil {
		return nil, err
	}
	slog.Info("player identified", "player", hello.Player, "match", ack.MatchID, "aiSides", ack.AISides)
	return a.replyAndWake(ipc.TypeAck, ack)
}

// HandleReset discards the running match, including any computer turn still
// being replayed, and starts a fresh one with the hello's settings.
func (a *Agent) HandleReset(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.ResetMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	a.mu.Lock()
	o, player := a.overrides, a.player
	a.mu.Unlock()
	if msg.Seed != nil {
		o.seed = msg.Seed
	}
	if msg.Layout != nil {
		o.layout = msg.Layout
	}

	ack, err := a.startMatch(player, o)
	if err != nil {
		return nil, err
	}
	slog.Info("match reset", "player", player, "match", ack.MatchID)
	return a.replyAndWake(ipc.TypeAck, ack)
}

// HandleCommand applies one human command. Commands other than spawn are
// refused while a computer side holds the turn.
func (a *Agent) HandleCommand(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.CommandMessage
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.sim == nil {
		a.mu.Unlock()
		return nil, errNoMatch
	}
	side := a.sim.Turn().Side
	var (
		res sim.Result
		err error
	)
	if cmd.Kind != sim.CmdSpawn && a.aiSides[side] {
		err = &sim.CommandError{
			Op:     cmd.Kind,
			Kind:   sim.ErrTurnViolation,
			Reason: fmt.Sprintf("side %d is computer-controlled", side),
		}
		res.Turn = a.sim.Turn()
	} else {
		res, err = a.sim.Apply(cmd)
	}
	matchID := a.matchID
	wake := err == nil && cmd.Kind == sim.CmdEndTurn && a.aiSides[res.Turn.Side]
	a.mu.Unlock()

	if err == nil {
		a.record(matchID, side, cmd, res.Events)
	} else {
		slog.Debug("command rejected", "command", cmd.Kind, "unit", cmd.Unit, "error", err)
	}
	msg := ipc.NewResultMessage(res, err)
	if wake {
		return a.replyAndWake(ipc.TypeResult, msg)
	}
	reply, err := ipc.NewEnvelope(ipc.TypeResult, msg)
	return &reply, err
}

// HandleSelect answers the legal moves and targets of a unit.
func (a *Agent) HandleSelect(env ipc.Envelope) (*ipc.Envelope, error) {
	var msg ipc.SelectMessage
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	a.mu.Lock()
	if a.sim == nil {
		a.mu.Unlock()
		return nil, errNoMatch
	}
	sel, err := a.sim.SelectUnit(msg.Unit)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	reply, err := ipc.NewEnvelope(ipc.TypeSelection, sel)
	return &reply, err
}

func (a *Agent) HandleSnapshot(env ipc.Envelope) (*ipc.Envelope, error) {
	a.mu.Lock()
	if a.sim == nil {
		a.mu.Unlock()
		return nil, errNoMatch
	}
	gs := a.sim.Snapshot()
	a.mu.Unlock()
	reply, err := ipc.NewEnvelope(ipc.TypeSnapshot, gs)
	return &reply, err
}

// startMatch builds a simulation from the settings plus o and installs it,
// cancelling any computer turn of the previous match.
func (a *Agent) startMatch(player string, o overrides) (ipc.AckMessage, error) {
	sides := a.settings.Sides
	if o.sides > 0 {
		sides = o.sides
	}
	aiSides := a.settings.AISides
	if o.aiSides != nil {
		aiSides = o.aiSides
	}
	seed := a.settings.Seed
	if o.seed != nil {
		seed = *o.seed
	}
	layout := a.settings.Layout
	if o.layout != nil {
		layout = *o.layout
	}

	ai := make(map[int]bool, len(aiSides))
	for _, s := range aiSides {
		if s < 0 || s >= sides {
			return ipc.AckMessage{}, fmt.Errorf("computer side %d outside 0..%d", s, sides-1)
		}
		ai[s] = true
	}

	board, err := layout.Build(a.settings.Catalog)
	if err != nil {
		return ipc.AckMessage{}, fmt.Errorf("build board: %w", err)
	}
	opts := []sim.Option{sim.WithReachOptions(a.settings.ReachOptions...)}
	if seed != 0 {
		opts = append(opts, sim.WithVariance(rules.NewRandVariance(seed)))
	}
	s, err := sim.New(board, a.settings.Catalog, sides, opts...)
	if err != nil {
		return ipc.AckMessage{}, err
	}

	matchID := uuid.NewString()
	sorted := make([]int, 0, len(ai))
	for side := range ai {
		sorted = append(sorted, side)
	}
	slices.Sort(sorted)

	if a.journal != nil {
		info := journal.MatchInfo{
			ID:      matchID,
			Player:  player,
			Sides:   sides,
			AISides: sorted,
			Width:   board.Width,
			Height:  board.Height,
			Seed:    seed,
		}
		if err := a.journal.BeginMatch(context.Background(), info); err != nil {
			slog.Error("journal begin match failed", "match", matchID, "error", err)
		}
	}

	a.mu.Lock()
	if a.cancelAI != nil {
		a.cancelAI()
		a.cancelAI = nil
	}
	a.player = player
	a.overrides = o
	a.sim = s
	a.gen++
	a.matchID = matchID
	a.aiSides = ai
	turn := s.Turn()
	a.mu.Unlock()

	return ipc.AckMessage{Status: "ok", MatchID: matchID, Turn: turn, AISides: sorted}, nil
}

// replyAndWake sends the reply itself so it reaches the client before any
// events of a computer turn it triggers.
func (a *Agent) replyAndWake(msgType string, data any) (*ipc.Envelope, error) {
	if err := a.Conn.Send(msgType, data); err != nil {
		return nil, err
	}
	a.driver.Notify()
	return nil, nil
}

// applyAI executes one command of a computer turn on match generation gen.
func (a *Agent) applyAI(gen, side int, cmd sim.Command) (sim.Result, error) {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return sim.Result{}, errMatchReset
	}
	res, err := a.sim.Apply(cmd)
	matchID := a.matchID
	a.mu.Unlock()
	if err != nil {
		return res, err
	}

	a.record(matchID, side, cmd, res.Events)
	msg := ipc.EventsMessage{Side: side, Command: cmd, Events: res.Events, Outcome: res.Outcome, Turn: res.Turn}
	if err := a.Conn.Send(ipc.TypeEvents, msg); err != nil {
		slog.Warn("failed to push events", "side", side, "error", err)
	}
	return res, nil
}

func (a *Agent) record(matchID string, side int, cmd sim.Command, events []sim.Event) {
	if a.journal == nil {
		return
	}
	if err := a.journal.Record(context.Background(), matchID, side, cmd, events); err != nil {
		slog.Error("journal record failed", "match", matchID, "command", cmd.Kind, "error", err)
	}
}

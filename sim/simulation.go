package sim

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/rules"
)

// Simulation is one match: board, roster, turn state and the command
// executor that is the only writer of all three. It is not safe for
// concurrent use; callers serialize commands.
type Simulation struct {
	board    *model.Board
	catalog  model.Catalog
	turns    *TurnMachine
	variance rules.Variance
	reach    []rules.ReachOption
	last     *model.CombatOutcome
	metrics  *metrics
	log      *slog.Logger
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithVariance sets the damage roll source. Defaults to FixedVariance(1).
func WithVariance(v rules.Variance) Option {
	return func(s *Simulation) { s.variance = v }
}

// WithReachOptions applies search options to every movement query.
func WithReachOptions(opts ...rules.ReachOption) Option {
	return func(s *Simulation) { s.reach = opts }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// Lookahead configures a copy for planning: expected-value damage rolls,
// no metrics and no logging.
func Lookahead() Option {
	return func(s *Simulation) {
		s.variance = rules.FixedVariance(1)
		s.metrics = silentMetrics()
		s.log = slog.New(slog.DiscardHandler)
	}
}

// New wraps a populated board. Every unit already on the board must belong
// to one of the sides.
func New(board *model.Board, catalog model.Catalog, sides int, opts ...Option) (*Simulation, error) {
	if sides < 1 {
		return nil, fmt.Errorf("need at least one side, got %d", sides)
	}
	for _, u := range board.Units() {
		if u.Owner < 0 || u.Owner >= sides {
			return nil, fmt.Errorf("unit %v owned by side %d of %d", u, u.Owner, sides)
		}
	}
	m, err := newMetrics(meter())
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		board:    board,
		catalog:  catalog,
		turns:    NewTurnMachine(sides),
		variance: rules.FixedVariance(1),
		metrics:  m,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Clone returns an independent copy for lookahead. Options override the
// copied settings, e.g. to give the copy its own variance source.
func (s *Simulation) Clone(opts ...Option) *Simulation {
	c := *s
	c.board = s.board.Clone()
	t := *s.turns
	c.turns = &t
	if s.last != nil {
		last := *s.last
		c.last = &last
	}
	for _, o := range opts {
		o(&c)
	}
	return &c
}

// Board exposes the board for read-only queries. Mutating it directly
// bypasses validation.
func (s *Simulation) Board() *model.Board { return s.board }

func (s *Simulation) Catalog() model.Catalog { return s.catalog }

func (s *Simulation) Turn() model.TurnContext { return s.turns.Current() }

// ReachOptions returns the search options used for movement.
func (s *Simulation) ReachOptions() []rules.ReachOption { return s.reach }

// LastOutcome returns the most recent combat result.
func (s *Simulation) LastOutcome() (model.CombatOutcome, bool) {
	if s.last == nil {
		return model.CombatOutcome{}, false
	}
	return *s.last, true
}

// Roster returns the live units of one side in spawn order.
func (s *Simulation) Roster(side int) []*model.Unit {
	return s.board.UnitsOwnedBy(side)
}

// Snapshot copies the full observable state.
func (s *Simulation) Snapshot() model.GameState {
	gs := s.board.Snapshot(s.turns.Current())
	if s.last != nil {
		last := *s.last
		gs.LastOutcome = &last
	}
	return gs
}

// Apply executes one command through the same validation used by every
// entry point.
func (s *Simulation) Apply(cmd Command) (Result, error) {
	var (
		res Result
		err error
	)
	switch cmd.Kind {
	case CmdMove:
		res.Events, err = s.MoveUnit(cmd.Unit, cmd.X, cmd.Y)
	case CmdAttack:
		var out model.CombatOutcome
		out, res.Events, err = s.AttackUnit(cmd.Unit, cmd.Target)
		if err == nil {
			res.Outcome = &out
		}
	case CmdWait:
		res.Events, err = s.Wait(cmd.Unit)
	case CmdEndTurn:
		_, res.Events = s.EndTurn()
	case CmdSpawn:
		res.Spawned, res.Events, err = s.SpawnUnit(cmd.UnitType, cmd.Owner, cmd.X, cmd.Y)
	default:
		err = reject(cmd.Kind, ErrIllegalAction, "unknown command")
		s.count(s.metrics.rejected, cmd.Kind)
	}
	res.Turn = s.turns.Current()
	return res, err
}

// SelectUnit reports the legal destinations and targets of a unit. It never
// changes state.
func (s *Simulation) SelectUnit(id model.UnitID) (Selection, error) {
	u := s.board.Unit(id)
	if u == nil {
		return Selection{}, reject(CmdSelect, ErrInvalidTarget, "unit %d does not exist", id)
	}
	sel := Selection{Unit: id, Active: s.turns.Active(u.Owner)}
	if u.CanMove() {
		r := rules.Reach(s.board, u, s.reach...)
		for _, tid := range r.Destinations() {
			sel.Moves = append(sel.Moves, s.board.Tile(tid).Coord())
		}
	}
	if !u.HasAttacked {
		for _, other := range s.board.Units() {
			if rules.CanTarget(s.board, u, other) {
				sel.Targets = append(sel.Targets, other.ID)
			}
		}
	}
	return sel, nil
}

// actor loads a unit and checks that its side holds the turn.
func (s *Simulation) actor(op CommandKind, id model.UnitID) (*model.Unit, error) {
	u := s.board.Unit(id)
	if u == nil {
		return nil, reject(op, ErrInvalidTarget, "unit %d does not exist", id)
	}
	if !s.turns.Active(u.Owner) {
		return nil, reject(op, ErrTurnViolation, "unit %d belongs to side %d, side %d is acting", id, u.Owner, s.turns.Current().Side)
	}
	return u, nil
}

// MoveUnit moves a unit to (x, y). The destination must be empty and inside
// the unit's movement range; the move spends the destination's terrain cost
// in fuel.
func (s *Simulation) MoveUnit(id model.UnitID, x, y int) ([]Event, error) {
	events, err := s.moveUnit(id, x, y)
	s.record(CmdMove, err)
	return events, err
}

func (s *Simulation) moveUnit(id model.UnitID, x, y int) ([]Event, error) {
	u, err := s.actor(CmdMove, id)
	if err != nil {
		return nil, err
	}
	if u.HasMoved {
		return nil, reject(CmdMove, ErrIllegalAction, "unit %d already moved", id)
	}
	if u.Fuel <= 0 {
		return nil, reject(CmdMove, ErrResourceExhausted, "unit %d has no fuel", id)
	}
	dst := s.board.TileAt(x, y)
	if dst == nil {
		return nil, reject(CmdMove, ErrInvalidTarget, "(%d,%d) is off the board", x, y)
	}
	if dst.Occupied() {
		return nil, reject(CmdMove, ErrIllegalAction, "(%d,%d) is occupied", x, y)
	}
	if !rules.Reach(s.board, u, s.reach...).Contains(dst.ID) {
		return nil, reject(CmdMove, ErrIllegalAction, "(%d,%d) is out of range for unit %d", x, y, id)
	}

	from := s.board.Tile(u.Tile()).Coord()
	if err := s.board.Relocate(id, dst.ID); err != nil {
		return nil, fmt.Errorf("move unit %d: %w", id, err)
	}
	spent := u.Type.MoveCost(dst.Kind(), dst.MoveCost)
	u.SpendFuel(spent)
	u.HasMoved = true

	to := dst.Coord()
	s.log.Debug("unit moved", "unit", u, "from", from, "to", to, "fuel", u.Fuel)
	return []Event{{
		Kind:   EventUnitMoved,
		Unit:   id,
		From:   &from,
		To:     &to,
		Amount: spent,
		Turn:   s.turns.Current(),
	}}, nil
}

// AttackUnit resolves an attack by attackerID on defenderID, applies the
// damage, spends ammo and removes destroyed units.
func (s *Simulation) AttackUnit(attackerID, defenderID model.UnitID) (model.CombatOutcome, []Event, error) {
	out, events, err := s.attackUnit(attackerID, defenderID)
	s.record(CmdAttack, err)
	return out, events, err
}

func (s *Simulation) attackUnit(attackerID, defenderID model.UnitID) (model.CombatOutcome, []Event, error) {
	atk, err := s.actor(CmdAttack, attackerID)
	if err != nil {
		return model.CombatOutcome{}, nil, err
	}
	def := s.board.Unit(defenderID)
	if def == nil {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrInvalidTarget, "unit %d does not exist", defenderID)
	}
	if def.Owner == atk.Owner {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrInvalidTarget, "unit %d is friendly", defenderID)
	}
	if atk.HasAttacked {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrIllegalAction, "unit %d already attacked", attackerID)
	}
	if atk.Ammo <= 0 {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrResourceExhausted, "unit %d has no ammo", attackerID)
	}
	entry, ok := atk.Type.Attack(def.Type.Name)
	if !ok || entry.Damage <= 0 {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrInvalidTarget, "%s cannot damage %s", atk.Type.Name, def.Type.Name)
	}
	if !rules.InRange(s.board, atk, def) {
		return model.CombatOutcome{}, nil, reject(CmdAttack, ErrIllegalAction, "unit %d is out of range of unit %d", defenderID, attackerID)
	}

	out := rules.Resolve(s.board, atk, def, s.variance)
	turn := s.turns.Current()

	def.TakeDamage(out.AttackerDamage)
	if entry.UsesAmmo {
		atk.Ammo--
	}
	atk.HasAttacked = true
	events := []Event{
		{Kind: EventUnitAttacked, Unit: atk.ID, Other: def.ID, Amount: out.AttackerDamage, Turn: turn},
		{Kind: EventUnitDamaged, Unit: def.ID, Other: atk.ID, Amount: out.AttackerDamage, Turn: turn},
	}
	if out.Countered {
		atk.TakeDamage(out.DefenderDamage)
		events = append(events,
			Event{Kind: EventUnitAttacked, Unit: def.ID, Other: atk.ID, Amount: out.DefenderDamage, Turn: turn, Detail: "counter"},
			Event{Kind: EventUnitDamaged, Unit: atk.ID, Other: def.ID, Amount: out.DefenderDamage, Turn: turn},
		)
	}
	for _, u := range []*model.Unit{def, atk} {
		if u.Alive() {
			continue
		}
		at := s.board.Tile(u.Tile()).Coord()
		if err := s.board.Remove(u.ID); err != nil {
			return model.CombatOutcome{}, nil, fmt.Errorf("remove destroyed unit %d: %w", u.ID, err)
		}
		s.count(s.metrics.destroyed, CmdAttack)
		events = append(events, Event{Kind: EventUnitDestroyed, Unit: u.ID, From: &at, Turn: turn, Detail: u.Type.Name})
	}

	s.last = &out
	s.count(s.metrics.combats, CmdAttack)
	s.log.Debug("combat resolved",
		"attacker", atk,
		"defender", def,
		"damage", out.AttackerDamage,
		"counter", out.DefenderDamage,
		"winner", out.Winner,
	)
	return out, events, nil
}

// Wait ends a unit's activity for the turn.
func (s *Simulation) Wait(id model.UnitID) ([]Event, error) {
	events, err := s.wait(id)
	s.record(CmdWait, err)
	return events, err
}

func (s *Simulation) wait(id model.UnitID) ([]Event, error) {
	u, err := s.actor(CmdWait, id)
	if err != nil {
		return nil, err
	}
	if u.Done() {
		return nil, reject(CmdWait, ErrIllegalAction, "unit %d has already acted", id)
	}
	u.HasMoved = true
	u.HasAttacked = true
	return []Event{{Kind: EventUnitWaited, Unit: id, Turn: s.turns.Current()}}, nil
}

// EndTurn finishes the active side's turn and returns the new context.
func (s *Simulation) EndTurn() (model.TurnContext, []Event) {
	ending := s.turns.Current().Side
	next := s.turns.End(s.board)
	s.record(CmdEndTurn, nil)
	s.log.Info("turn ended", "side", ending, "next", next.Side, "turn", next.Turn, "day", next.Day)
	return next, []Event{{
		Kind:   EventTurnEnded,
		Turn:   next,
		Detail: fmt.Sprintf("side %d ended", ending),
	}}
}

// SpawnUnit places a new unit of the named type. Spawning ignores turn order.
func (s *Simulation) SpawnUnit(typeName string, owner, x, y int) (model.UnitID, []Event, error) {
	id, events, err := s.spawnUnit(typeName, owner, x, y)
	s.record(CmdSpawn, err)
	return id, events, err
}

func (s *Simulation) spawnUnit(typeName string, owner, x, y int) (model.UnitID, []Event, error) {
	t, ok := s.catalog.Lookup(typeName)
	if !ok {
		return model.NoUnit, nil, reject(CmdSpawn, ErrInvalidTarget, "unknown unit type %q", typeName)
	}
	if owner < 0 || owner >= s.turns.Current().TotalSides {
		return model.NoUnit, nil, reject(CmdSpawn, ErrInvalidTarget, "side %d does not exist", owner)
	}
	tile := s.board.TileAt(x, y)
	if tile == nil {
		return model.NoUnit, nil, reject(CmdSpawn, ErrInvalidTarget, "(%d,%d) is off the board", x, y)
	}
	if tile.Occupied() {
		return model.NoUnit, nil, reject(CmdSpawn, ErrIllegalAction, "(%d,%d) is occupied", x, y)
	}
	u, err := s.board.Spawn(t, owner, tile.ID)
	if err != nil {
		return model.NoUnit, nil, fmt.Errorf("spawn %s: %w", t.Name, err)
	}
	at := tile.Coord()
	s.log.Debug("unit spawned", "unit", u, "at", at)
	return u.ID, []Event{{Kind: EventUnitSpawned, Unit: u.ID, To: &at, Turn: s.turns.Current(), Detail: t.Name}}, nil
}

func (s *Simulation) record(op CommandKind, err error) {
	if err != nil {
		s.count(s.metrics.rejected, op)
		s.log.Debug("command rejected", "command", op, "error", err)
		return
	}
	s.count(s.metrics.applied, op)
}

func (s *Simulation) count(c metric.Int64Counter, op CommandKind) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", string(op))))
}

package planner

import (
	"math"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/rules"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// UnitEnv is the view of one unit that rule conditions are evaluated
// against. Its methods are callable from expr expressions.
type UnitEnv struct {
	Unit        *model.Unit
	Board       *model.Board
	Personality Personality

	targets []*model.Unit
	dests   []model.TileID
	enemies []*model.Unit
}

func newUnitEnv(s *sim.Simulation, u *model.Unit, p Personality) UnitEnv {
	b := s.Board()
	env := UnitEnv{Unit: u, Board: b, Personality: p}
	for _, other := range b.Units() {
		if other.Owner == u.Owner {
			continue
		}
		env.enemies = append(env.enemies, other)
		if u.CanAttack() && rules.CanTarget(b, u, other) {
			env.targets = append(env.targets, other)
		}
	}
	if u.CanMove() {
		env.dests = rules.Reach(b, u, s.ReachOptions()...).Destinations()
	}
	return env
}

func (e UnitEnv) CanAttack() bool         { return e.Unit.CanAttack() }
func (e UnitEnv) CanMove() bool           { return e.Unit.CanMove() }
func (e UnitEnv) Done() bool              { return e.Unit.Done() }
func (e UnitEnv) HP() int                 { return e.Unit.HP }
func (e UnitEnv) HealthFraction() float64 { return e.Unit.HealthFraction() }
func (e UnitEnv) Fuel() int               { return e.Unit.Fuel }
func (e UnitEnv) Ammo() int               { return e.Unit.Ammo }
func (e UnitEnv) TypeName() string        { return e.Unit.Type.Name }
func (e UnitEnv) TargetCount() int        { return len(e.targets) }
func (e UnitEnv) DestinationCount() int   { return len(e.dests) }
func (e UnitEnv) EnemyCount() int         { return len(e.enemies) }

// NearestEnemyDistance is the straight-line distance to the closest enemy,
// or -1 when none remain.
func (e UnitEnv) NearestEnemyDistance() float64 {
	n := e.nearestEnemy()
	if n == nil {
		return -1
	}
	return euclid(e.Board, e.Unit.Tile(), n.Tile())
}

// nearestEnemy measures from the unit's current tile. Ties go to the first
// enemy in roster order.
func (e UnitEnv) nearestEnemy() *model.Unit {
	var (
		best *model.Unit
		dist = math.Inf(1)
	)
	for _, en := range e.enemies {
		if d := euclid(e.Board, e.Unit.Tile(), en.Tile()); d < dist {
			best, dist = en, d
		}
	}
	return best
}

func euclid(b *model.Board, from, to model.TileID) float64 {
	a, c := b.Tile(from), b.Tile(to)
	return math.Hypot(float64(a.X-c.X), float64(a.Y-c.Y))
}

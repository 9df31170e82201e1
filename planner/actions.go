package planner

import (
	"log/slog"
	"math"

	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/rules"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Scoring weights.
const (
	killBonus      = 100
	damageWeight   = 2
	counterWeight  = 1.5
	woundedWeight  = 0.5
	costWeight     = 0.01
	approachBase   = 20
	inRangeBonus   = 50
	defenseWeight  = 0.5
	centerPullBase = 10
)

func ActionAttack(env UnitEnv) (sim.Command, bool) {
	var (
		best  *model.Unit
		score = math.Inf(-1)
	)
	for _, t := range env.targets {
		if s := AttackScore(env.Board, env.Unit, t); s > score {
			best, score = t, s
		}
	}
	if best == nil {
		return sim.Command{}, false
	}
	slog.Debug("attack chosen", "unit", env.Unit, "target", best, "score", score)
	return sim.Attack(env.Unit.ID, best.ID), true
}

func ActionMove(env UnitEnv) (sim.Command, bool) {
	enemy := env.nearestEnemy()
	var (
		best  = model.NoTile
		score = math.Inf(-1)
	)
	for _, id := range env.dests {
		if s := MoveScore(env.Board, env.Unit, id, enemy, env.Personality); s > score {
			best, score = id, s
		}
	}
	if best == model.NoTile {
		return sim.Command{}, false
	}
	t := env.Board.Tile(best)
	slog.Debug("move chosen", "unit", env.Unit, "x", t.X, "y", t.Y, "score", score)
	return sim.Move(env.Unit.ID, t.X, t.Y), true
}

func ActionWait(env UnitEnv) (sim.Command, bool) {
	return sim.Wait(env.Unit.ID), true
}

// AttackScore rates striking target with expected (unvaried) damage: a kill
// bonus, dealt damage, the counter taken, how wounded the target already is
// and its price.
func AttackScore(b *model.Board, attacker, target *model.Unit) float64 {
	out := rules.Resolve(b, attacker, target, rules.FixedVariance(1))
	score := 0.0
	if out.DefenderHP <= 0 {
		score += killBonus
	}
	score += damageWeight * float64(out.AttackerDamage)
	score -= counterWeight * float64(out.DefenderDamage)
	score += woundedWeight * float64(target.Type.MaxHP-target.HP)
	score += costWeight * float64(target.Type.Cost)
	return score
}

// MoveScore rates ending a move on tile. enemy may be nil when no enemy is
// left, in which case only terrain and the pull toward the center count.
func MoveScore(b *model.Board, u *model.Unit, tile model.TileID, enemy *model.Unit, p Personality) float64 {
	t := b.Tile(tile)
	score := 0.0
	if enemy != nil {
		score += (approachBase - euclid(b, tile, enemy.Tile())) * p.EffectiveAggressiveness()
		lo, hi := u.Type.AttackRange()
		if u.Type.CanAttackAtAll() {
			if d := b.Distance(tile, enemy.Tile()); d >= lo && d <= hi {
				score += inRangeBonus
			}
		}
	}
	score += defenseWeight * float64(t.Defense)
	cx, cy := b.Center()
	score += (centerPullBase - math.Hypot(float64(t.X)-cx, float64(t.Y)-cy)) * p.Explore
	return score
}

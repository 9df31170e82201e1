package rules

import (
	"math"
	"math/rand"
	"sync"

	"github.com/nstehr/gridwars/gridwars-core/model"
)

// Variance supplies the random damage multiplier for one strike.
type Variance interface {
	Roll() float64
}

// FixedVariance always returns the same multiplier. FixedVariance(1) makes
// combat fully deterministic.
type FixedVariance float64

func (v FixedVariance) Roll() float64 { return float64(v) }

// RandVariance draws uniformly from [0.9, 1.1) using a seeded source.
type RandVariance struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandVariance(seed int64) *RandVariance {
	return &RandVariance{rng: rand.New(rand.NewSource(seed))}
}

func (v *RandVariance) Roll() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return 0.9 + v.rng.Float64()*0.2
}

// Damage computes one strike from attacker to defender:
// base × attacker health fraction × (1 − terrain defense/100) × variance,
// rounded, with a floor of 1 whenever the table damage is positive.
func Damage(b *model.Board, attacker, defender *model.Unit, v Variance) int {
	base := attacker.Type.BaseDamage(defender.Type.Name)
	if base <= 0 {
		return 0
	}
	defense := 0
	if t := b.Tile(defender.Tile()); t != nil {
		defense = t.Defense
	}
	raw := float64(base) * attacker.HealthFraction() * (1 - float64(defense)/100) * v.Roll()
	return max(1, int(math.Round(raw)))
}

// InRange reports whether target sits inside the attacker's attack band.
func InRange(b *model.Board, attacker, target *model.Unit) bool {
	lo, hi := attacker.Type.AttackRange()
	d := b.Distance(attacker.Tile(), target.Tile())
	return d >= lo && d <= hi
}

// CanTarget reports whether attacker could strike target right now: enemy,
// damaging table entry, ammo left and inside range. Action flags are not
// checked.
func CanTarget(b *model.Board, attacker, target *model.Unit) bool {
	return attacker.Owner != target.Owner &&
		target.Alive() &&
		attacker.Ammo > 0 &&
		attacker.Type.BaseDamage(target.Type.Name) > 0 &&
		InRange(b, attacker, target)
}

// CanCounter reports whether defender may return fire on attacker, ignoring
// whether it survives the first strike.
func CanCounter(b *model.Board, attacker, defender *model.Unit) bool {
	return defender.Type.BaseDamage(attacker.Type.Name) > 0 &&
		defender.Ammo > 0 &&
		InRange(b, defender, attacker)
}

// Resolve computes an exchange without changing any unit. Both strikes use
// pre-combat health; the counter is rolled only when the defender is eligible
// and survives the first strike.
func Resolve(b *model.Board, attacker, defender *model.Unit, v Variance) model.CombatOutcome {
	out := model.CombatOutcome{
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
	}
	out.AttackerDamage = Damage(b, attacker, defender, v)
	out.DefenderHP = max(0, defender.HP-out.AttackerDamage)

	if out.DefenderHP > 0 && CanCounter(b, attacker, defender) {
		out.Countered = true
		out.DefenderDamage = Damage(b, defender, attacker, v)
	}
	out.AttackerHP = max(0, attacker.HP-out.DefenderDamage)
	out.Winner = model.DecideWinner(out.AttackerHP, out.DefenderHP)
	return out
}

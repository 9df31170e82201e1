package model

import (
	"fmt"
	"strings"
)

// UnitClass groups unit types by how they travel.
type UnitClass string

const (
	ClassInfantry UnitClass = "infantry"
	ClassVehicle  UnitClass = "vehicle"
	ClassAircraft UnitClass = "aircraft"
	ClassNaval    UnitClass = "naval"
	ClassSpecial  UnitClass = "special"
)

// AttackEntry is one row of a unit type's attack table.
type AttackEntry struct {
	Damage   int  `yaml:"damage" json:"damage"`
	MinRange int  `yaml:"min_range" json:"min_range"`
	MaxRange int  `yaml:"max_range" json:"max_range"`
	UsesAmmo bool `yaml:"uses_ammo" json:"uses_ammo"`
}

// UnitType is the static stat block shared by every unit of that type.
type UnitType struct {
	Name     string                 `yaml:"name" json:"name"`
	Class    UnitClass              `yaml:"class" json:"class"`
	MaxHP    int                    `yaml:"max_hp" json:"max_hp"`
	Fuel     int                    `yaml:"fuel" json:"fuel"`
	Ammo     int                    `yaml:"ammo" json:"ammo"`
	Movement int                    `yaml:"movement" json:"movement"`
	Cost     int                    `yaml:"cost" json:"cost"`
	Attacks  map[string]AttackEntry `yaml:"attacks" json:"attacks"`
	Moves    map[TerrainKind]int    `yaml:"moves" json:"moves"`
}

// BaseDamage returns the table damage against the named target type, 0 if
// the type cannot hit it.
func (t *UnitType) BaseDamage(target string) int {
	for name, e := range t.Attacks {
		if strings.EqualFold(name, target) {
			return e.Damage
		}
	}
	return 0
}

// Attack returns the attack entry against the named target type.
func (t *UnitType) Attack(target string) (AttackEntry, bool) {
	for name, e := range t.Attacks {
		if strings.EqualFold(name, target) {
			return e, true
		}
	}
	return AttackEntry{}, false
}

// CanAttackAtAll reports whether any attack entry deals damage.
func (t *UnitType) CanAttackAtAll() bool {
	for _, e := range t.Attacks {
		if e.Damage > 0 {
			return true
		}
	}
	return false
}

// AttackRange collapses the attack table into a single band: the smallest
// minimum and largest maximum over all damaging entries. A type with no
// damaging entry reports (1, 1).
func (t *UnitType) AttackRange() (int, int) {
	lo, hi := 0, 0
	found := false
	for _, e := range t.Attacks {
		if e.Damage <= 0 {
			continue
		}
		if !found || e.MinRange < lo {
			lo = e.MinRange
		}
		if !found || e.MaxRange > hi {
			hi = e.MaxRange
		}
		found = true
	}
	if !found {
		return 1, 1
	}
	return lo, hi
}

// MoveCost returns the cost for this type to enter terrain of the given kind.
// Types without a movement table fall back to the tile's base cost; a table
// that omits the kind makes it impassable.
func (t *UnitType) MoveCost(kind TerrainKind, base int) int {
	if len(t.Moves) == 0 {
		return base
	}
	c, ok := t.Moves[kind]
	if !ok || c <= 0 {
		return Impassable
	}
	return c
}

// Validate checks that a type definition is usable in play.
func (t *UnitType) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("unit type has no name")
	}
	if t.MaxHP <= 0 {
		return fmt.Errorf("unit type %q: max hp must be positive", t.Name)
	}
	if t.Movement < 0 || t.Fuel < 0 || t.Ammo < 0 {
		return fmt.Errorf("unit type %q: negative capacity", t.Name)
	}
	for target, e := range t.Attacks {
		if e.MinRange < 0 || e.MaxRange < e.MinRange {
			return fmt.Errorf("unit type %q: bad range %d-%d against %q", t.Name, e.MinRange, e.MaxRange, target)
		}
	}
	return nil
}

// UnitID identifies a unit within one simulation. Zero means "no unit".
type UnitID int

// NoUnit is the zero UnitID, used for empty tiles.
const NoUnit UnitID = 0

// Unit is a live unit on the board. The tile link is maintained by Board.
type Unit struct {
	ID          UnitID
	Type        *UnitType
	Owner       int
	HP          int
	Fuel        int
	Ammo        int
	HasMoved    bool
	HasAttacked bool
	tile        TileID
}

// NewUnit returns a unit at full health, fuel and ammo. It is not on a tile
// until placed on a Board.
func NewUnit(id UnitID, t *UnitType, owner int) *Unit {
	return &Unit{
		ID:    id,
		Type:  t,
		Owner: owner,
		HP:    t.MaxHP,
		Fuel:  t.Fuel,
		Ammo:  t.Ammo,
		tile:  NoTile,
	}
}

// Tile returns the id of the tile the unit stands on.
func (u *Unit) Tile() TileID { return u.tile }

func (u *Unit) Alive() bool { return u.HP > 0 }

// HealthFraction is current HP over max HP.
func (u *Unit) HealthFraction() float64 {
	if u.Type == nil || u.Type.MaxHP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.Type.MaxHP)
}

// CanMove reports whether the unit still has its move this turn.
func (u *Unit) CanMove() bool { return !u.HasMoved && u.Fuel > 0 }

// CanAttack reports whether the unit still has its attack this turn.
func (u *Unit) CanAttack() bool { return !u.HasAttacked && u.Ammo > 0 }

// Done reports whether the unit has no action left this turn.
func (u *Unit) Done() bool { return u.HasMoved && u.HasAttacked }

// ResetTurn clears the per-turn action flags.
func (u *Unit) ResetTurn() {
	u.HasMoved = false
	u.HasAttacked = false
}

// SpendFuel deducts n fuel, floored at zero.
func (u *Unit) SpendFuel(n int) {
	u.Fuel = max(0, u.Fuel-n)
}

// TakeDamage reduces HP, floored at zero.
func (u *Unit) TakeDamage(n int) {
	u.HP = max(0, u.HP-n)
}

func (u *Unit) String() string {
	name := "?"
	if u.Type != nil {
		name = u.Type.Name
	}
	return fmt.Sprintf("%s#%d(p%d %d/%d)", name, u.ID, u.Owner, u.HP, u.maxHP())
}

func (u *Unit) maxHP() int {
	if u.Type == nil {
		return 0
	}
	return u.Type.MaxHP
}

package model

// Winner names the side left standing after an exchange.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerAttacker
	WinnerDefender
	WinnerDraw
)

func (w Winner) String() string {
	switch w {
	case WinnerAttacker:
		return "attacker"
	case WinnerDefender:
		return "defender"
	case WinnerDraw:
		return "draw"
	default:
		return "none"
	}
}

func (w Winner) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// CombatOutcome is the result of one attack and its optional counter.
// HP values are after both strikes, floored at zero.
type CombatOutcome struct {
	AttackerID     UnitID `json:"attacker_id"`
	DefenderID     UnitID `json:"defender_id"`
	AttackerDamage int    `json:"attacker_damage"`
	DefenderDamage int    `json:"defender_damage"`
	AttackerHP     int    `json:"attacker_hp"`
	DefenderHP     int    `json:"defender_hp"`
	Countered      bool   `json:"countered"`
	Winner         Winner `json:"winner"`
}

// DecideWinner applies the post-combat rule: both down is a draw, otherwise
// whoever is still standing when the other is down wins.
func DecideWinner(attackerHP, defenderHP int) Winner {
	switch {
	case attackerHP <= 0 && defenderHP <= 0:
		return WinnerDraw
	case attackerHP <= 0:
		return WinnerDefender
	case defenderHP <= 0:
		return WinnerAttacker
	default:
		return WinnerNone
	}
}

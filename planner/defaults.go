package planner

// DefaultRules returns the stock priority chain: attack if anything is in
// range, otherwise move, otherwise wait.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:         "attack",
			Priority:     300,
			ConditionSrc: `CanAttack() && TargetCount() > 0`,
			Action:       ActionAttack,
		},
		{
			Name:         "move",
			Priority:     200,
			ConditionSrc: `CanMove() && DestinationCount() > 0`,
			Action:       ActionMove,
		},
		{
			Name:         "wait",
			Priority:     0,
			ConditionSrc: `!Done()`,
			Action:       ActionWait,
		},
	}
}

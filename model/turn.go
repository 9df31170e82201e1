package model

// TurnContext says whose turn it is. Turn and Day both start at 1 and
// advance together each time play wraps back to side 0.
type TurnContext struct {
	Side       int `json:"side"`
	TotalSides int `json:"total_sides"`
	Turn       int `json:"turn"`
	Day        int `json:"day"`
}

// NewTurnContext returns the opening context for a match of n sides.
func NewTurnContext(n int) TurnContext {
	return TurnContext{Side: 0, TotalSides: n, Turn: 1, Day: 1}
}

// Next returns the context after the current side ends its turn.
func (t TurnContext) Next() TurnContext {
	if t.TotalSides <= 0 {
		return t
	}
	t.Side = (t.Side + 1) % t.TotalSides
	if t.Side == 0 {
		t.Turn++
		t.Day++
	}
	return t
}

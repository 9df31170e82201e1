package sim

import "github.com/nstehr/gridwars/gridwars-core/model"

// TurnMachine cycles control between sides. It has no terminal state.
type TurnMachine struct {
	ctx model.TurnContext
}

func NewTurnMachine(sides int) *TurnMachine {
	return &TurnMachine{ctx: model.NewTurnContext(sides)}
}

func (m *TurnMachine) Current() model.TurnContext { return m.ctx }

// Active reports whether side may act now.
func (m *TurnMachine) Active(side int) bool { return m.ctx.Side == side }

// End clears the action flags of every unit on the ending side, then hands
// control to the next side.
func (m *TurnMachine) End(b *model.Board) model.TurnContext {
	b.ResetSide(m.ctx.Side)
	m.ctx = m.ctx.Next()
	return m.ctx
}

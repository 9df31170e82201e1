package ipc

import (
	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// CommandMessage carries one human command. The payload is sim.Command, so
// kind values are move, attack, wait, end_turn and spawn.
type CommandMessage = sim.Command

type SelectMessage struct {
	Unit model.UnitID `json:"unit"`
}

// ResultMessage answers a command. On rejection Error holds the reason and
// ErrorKind one of invalid_target, illegal_action, resource_exhausted or
// turn_violation.
type ResultMessage struct {
	OK        bool                 `json:"ok"`
	Events    []sim.Event          `json:"events,omitempty"`
	Outcome   *model.CombatOutcome `json:"outcome,omitempty"`
	Spawned   model.UnitID         `json:"spawned,omitempty"`
	Turn      model.TurnContext    `json:"turn"`
	Error     string               `json:"error,omitempty"`
	ErrorKind string               `json:"errorKind,omitempty"`
}

// NewResultMessage converts the outcome of Simulation.Apply.
func NewResultMessage(res sim.Result, err error) ResultMessage {
	if err != nil {
		return ResultMessage{
			Turn:      res.Turn,
			Error:     err.Error(),
			ErrorKind: sim.KindName(err),
		}
	}
	return ResultMessage{
		OK:      true,
		Events:  res.Events,
		Outcome: res.Outcome,
		Spawned: res.Spawned,
		Turn:    res.Turn,
	}
}

type SelectionMessage = sim.Selection

package sim

import (
	"github.com/nstehr/gridwars/gridwars-core/model"
)

// EventKind names a state change produced by a command.
type EventKind string

const (
	EventUnitSpawned   EventKind = "unit_spawned"
	EventUnitMoved     EventKind = "unit_moved"
	EventUnitAttacked  EventKind = "unit_attacked"
	EventUnitDamaged   EventKind = "unit_damaged"
	EventUnitDestroyed EventKind = "unit_destroyed"
	EventUnitWaited    EventKind = "unit_waited"
	EventTurnEnded     EventKind = "turn_ended"
)

// Event is one domain event. Commands return the events they caused in the
// order they happened; presentation and the journal consume them.
type Event struct {
	Kind   EventKind         `json:"kind"`
	Unit   model.UnitID      `json:"unit,omitempty"`
	Other  model.UnitID      `json:"other,omitempty"`
	From   *model.Coord      `json:"from,omitempty"`
	To     *model.Coord      `json:"to,omitempty"`
	Amount int               `json:"amount,omitempty"`
	Turn   model.TurnContext `json:"turn"`
	Detail string            `json:"detail,omitempty"`
}
